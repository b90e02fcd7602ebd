package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/earlybird-app/earlybird/internal/store"
	"github.com/earlybird-app/earlybird/internal/wake"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recent session events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		sessionID, _ := cmd.Flags().GetString("session")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		var entries []store.JournalEntry
		if sessionID != "" {
			entries, err = s.JournalRepo().BySession(cmdContext(cmd), sessionID)
		} else {
			entries, err = s.JournalRepo().Recent(cmdContext(cmd), limit)
		}
		if err != nil {
			return fmt.Errorf("query journal: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No sessions recorded yet.")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%s  %s  %-20s  %s  %-5s  %s\n",
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(e.SessionID, 8),
				e.Kind,
				wake.FormatElapsed(e.Elapsed),
				e.Stage,
				e.Detail,
			)
		}
		return nil
	},
}

func init() {
	journalCmd.Flags().IntP("limit", "n", 30, "Number of entries to show")
	journalCmd.Flags().StringP("session", "s", "", "Show every entry of one session, oldest first")
}
