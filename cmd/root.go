package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/earlybird-app/earlybird/internal/config"
	"github.com/earlybird-app/earlybird/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "earlybird",
	Short: "Wake up between sleep cycles",
	Long: "Early Bird predicts a wake-up time on a 90-minute sleep-cycle boundary, " +
		"watches the night tick by and rings when it is time to get up.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/earlybird/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides EARLYBIRD_DB env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and environment, then applies the
// persistent flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		cfg.Log.Level = l
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db or the config
// (highest priority), then EARLYBIRD_DB, then the default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore opens the journal database chosen by cfg.
func openStore(cfg config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// cmdContext is cmd's context, or Background when run outside Execute.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
