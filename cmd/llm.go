package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/earlybird-app/earlybird/internal/llm"
	"github.com/earlybird-app/earlybird/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect coach LLM requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().RecentLLMRequests(cmdContext(cmd), limit)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		printLLMRequests(cmd.OutOrStdout(), events, purpose)
		return nil
	},
}

func printLLMRequests(w io.Writer, events []store.LLMRequestEvent, purpose string) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM requests found.")
		return
	}

	const row = "%-6v  %-19s  %-10s  %-12s  %-24s  %-6v  %-6v  %-7v  %s\n"
	fmt.Fprintf(w, row, "Seq", "Timestamp", "Purpose", "Session", "Model", "In", "Out", "Ms", "OK")
	fmt.Fprintln(w, strings.Repeat("─", 108))

	for _, e := range events {
		if purpose != "" && e.Purpose != purpose {
			continue
		}
		ok := "✓"
		if !e.Success {
			ok = "✗ " + e.ErrorMessage
		}
		session := e.SessionID
		if session == "" {
			session = "-"
		}
		fmt.Fprintf(w, row,
			e.Sequence,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Purpose,
			truncate(session, 12),
			truncate(e.Model, 24),
			e.InputTokens,
			e.OutputTokens,
			e.LatencyMs,
			ok,
		)
	}
}

// usage aggregates requests for one model.
type usage struct {
	model        string
	calls        int
	failures     int
	inputTokens  int
	outputTokens int
	latencyMs    int64
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage by model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().RecentLLMRequests(cmdContext(cmd), limit)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}

		printUsage(out, events)
		return nil
	},
}

// printUsage aggregates events per model, busiest first. Cost is an
// estimate from list prices and is blank for unpriced models.
func printUsage(w io.Writer, events []store.LLMRequestEvent) {
	byModel := map[string]*usage{}
	for _, e := range events {
		u := byModel[e.Model]
		if u == nil {
			u = &usage{model: e.Model}
			byModel[e.Model] = u
		}
		u.calls++
		if !e.Success {
			u.failures++
		}
		u.inputTokens += e.InputTokens
		u.outputTokens += e.OutputTokens
		u.latencyMs += e.LatencyMs
	}
	rows := make([]*usage, 0, len(byModel))
	for _, u := range byModel {
		rows = append(rows, u)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].calls != rows[j].calls {
			return rows[i].calls > rows[j].calls
		}
		return rows[i].model < rows[j].model
	})

	const row = "%-32s  %6v  %6v  %10v  %10v  %8v  %9s\n"
	fmt.Fprintf(w, row, "Model", "Calls", "Failed", "Input", "Output", "Avg Ms", "Cost")
	fmt.Fprintln(w, strings.Repeat("─", 93))
	var (
		totalCalls, totalIn, totalOut int
		totalCost                     float64
	)
	for _, u := range rows {
		cost := ""
		if p, ok := llm.PriceOf(u.model); ok {
			c := p.Cost(u.inputTokens, u.outputTokens)
			totalCost += c
			cost = fmt.Sprintf("$%.4f", c)
		}
		fmt.Fprintf(w, row, truncate(u.model, 32), u.calls, u.failures, u.inputTokens, u.outputTokens,
			u.latencyMs/int64(u.calls), cost)
		totalCalls += u.calls
		totalIn += u.inputTokens
		totalOut += u.outputTokens
	}
	fmt.Fprintln(w, strings.Repeat("─", 93))
	fmt.Fprintf(w, row, "TOTAL", totalCalls, "", totalIn, totalOut, "", fmt.Sprintf("$%.4f", totalCost))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. coach)")
	llmStatsCmd.Flags().IntP("limit", "n", 1000, "Number of recent requests to aggregate")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
