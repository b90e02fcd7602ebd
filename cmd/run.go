package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/earlybird-app/earlybird/internal/app"
	"github.com/earlybird-app/earlybird/internal/coach"
	"github.com/earlybird-app/earlybird/internal/config"
	"github.com/earlybird-app/earlybird/internal/llm"
	"github.com/earlybird-app/earlybird/internal/logging"
	"github.com/earlybird-app/earlybird/internal/profile"
	"github.com/earlybird-app/earlybird/internal/screen"
	"github.com/earlybird-app/earlybird/internal/session"
	"github.com/earlybird-app/earlybird/internal/store"
	"github.com/earlybird-app/earlybird/internal/telemetry"
)

// journalKeep bounds the journal; older entries are pruned at startup.
const journalKeep = 20000

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmdContext(cmd)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logPath := cfg.Log.File
	if logPath == "" {
		if logPath, err = config.DefaultLogFile(); err != nil {
			return err
		}
	}
	logger, logCloser, err := logging.OpenFile(logPath, level)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	journal := st.JournalRepo()
	if err := journal.Prune(ctx, journalKeep); err != nil {
		logger.Warn("prune journal", "error", err)
	}
	observers := []session.Observer{store.NewJournalObserver(journal, logger)}

	metrics, err := telemetry.New(ctx, telemetry.Config{
		Endpoint: cfg.Telemetry.Endpoint,
		Insecure: cfg.Telemetry.Insecure,
		Version:  version,
	})
	if err != nil {
		logger.Warn("telemetry disabled", "error", err)
	} else {
		observers = append(observers, metrics)
		defer func() {
			sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := metrics.Close(sctx); err != nil {
				logger.Warn("flush telemetry", "error", err)
			}
		}()
	}

	factory := app.MonitorFactory{
		Config:    cfg,
		Bell:      os.Stderr,
		Observers: observers,
		Logger:    logger,
	}

	deps := screen.Deps{
		Config:     cfg,
		Settings:   st.SettingsRepo(),
		Profile:    profile.NewLog(),
		Advisor:    newAdvisor(ctx, st.EventRepo(), logger),
		NewMonitor: factory.New,
		Now:        time.Now,
		Logger:     logger,
	}

	if err := app.Run(ctx, deps); err != nil {
		return fmt.Errorf("run app: %w", err)
	}
	return nil
}

// newAdvisor wires the coach to whichever LLM provider the environment
// selects. Without one the coach uses its built-in rules.
func newAdvisor(ctx context.Context, events store.EventRepo, logger *slog.Logger) *coach.Advisor {
	cfg, err := llm.ConfigFromEnv()
	if err != nil {
		logger.Warn("read LLM config", "error", err)
		cfg = llm.Config{}
	}
	if !cfg.Enabled() {
		if found, ok := llm.DiscoverConfig(); ok {
			cfg = found
		}
	}
	if !cfg.Enabled() {
		return coach.New(nil, coach.WithLogger(logger))
	}

	provider, err := llm.NewProvider(ctx, cfg, events, logger)
	if err != nil {
		logger.Warn("LLM provider not configured, using rule-based advice", "error", err)
		return coach.New(nil, coach.WithLogger(logger))
	}
	logger.Info("LLM coach enabled", "provider", cfg.Provider, "model", provider.ModelID())
	return coach.New(provider, coach.WithLogger(logger), coach.WithTimeout(cfg.Timeout))
}
