package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/earlybird-app/earlybird/internal/wake"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Print when to wake up if you fell asleep now",
	Example: `  earlybird predict
  earlybird predict --cycles 4
  earlybird predict --at "7:30 AM"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		at, _ := cmd.Flags().GetString("at")
		cycles, _ := cmd.Flags().GetInt("cycles")
		if !cmd.Flags().Changed("cycles") {
			cycles = cfg.Sleep.DefaultCycles
		}
		return predict(cmd, time.Now(), at, cycles)
	},
}

func init() {
	predictCmd.Flags().String("at", "", `Target wake-up time, e.g. "7:30 AM"`)
	predictCmd.Flags().Int("cycles", wake.DefaultCycles, "Number of 90-minute cycles (1-6)")
}

func predict(cmd *cobra.Command, now time.Time, at string, cycles int) error {
	if err := wake.ValidateCycles(cycles); err != nil {
		return err
	}

	var target *wake.TargetWakeTime
	if at != "" {
		t, err := wake.ParseTarget(at)
		if err != nil {
			return err
		}
		target = &t
	}

	p, err := wake.Predict(now, target, cycles)
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}

	out := cmd.OutOrStdout()
	printPrediction(out, now, p)
	if target == nil && !cmd.Flags().Changed("cycles") {
		fmt.Fprintln(out)
		printOptions(out, now)
	}
	return nil
}
