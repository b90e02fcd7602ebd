package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/earlybird-app/earlybird/internal/alarm"
	"github.com/earlybird-app/earlybird/internal/app"
	"github.com/earlybird-app/earlybird/internal/config"
	"github.com/earlybird-app/earlybird/internal/logging"
	"github.com/earlybird-app/earlybird/internal/session"
	"github.com/earlybird-app/earlybird/internal/wake"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a night in fast-forward without the TUI",
	Long: "Runs a monitoring session against a scaled clock, logs what happens and " +
		"wakes up as soon as the alarm rings. Ctrl+C wakes up early.",
	Example: `  earlybird simulate --cycles 2 --speed 3600
  earlybird simulate --at "6:00 AM" --seed 42`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		opts := simulateOptions{cycles: cfg.Sleep.DefaultCycles}
		opts.at, _ = cmd.Flags().GetString("at")
		if cmd.Flags().Changed("cycles") {
			opts.cycles, _ = cmd.Flags().GetInt("cycles")
		}
		opts.speed, _ = cmd.Flags().GetFloat64("speed")
		opts.seed, _ = cmd.Flags().GetUint64("seed")
		opts.interval, _ = cmd.Flags().GetDuration("interval")

		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		logger := logging.New(cmd.ErrOrStderr(), level)

		ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt)
		defer stop()

		sum, err := simulate(ctx, cfg, opts, logger)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout())
		printSummary(cmd.OutOrStdout(), sum)
		return nil
	},
}

func init() {
	simulateCmd.Flags().String("at", "", `Target wake-up time, e.g. "7:30 AM"`)
	simulateCmd.Flags().Int("cycles", wake.DefaultCycles, "Number of 90-minute cycles (1-6)")
	simulateCmd.Flags().Float64("speed", 1800, "Simulated seconds per real second")
	simulateCmd.Flags().Uint64("seed", 0, "Stage noise seed (0 picks one from the clock)")
	simulateCmd.Flags().Duration("interval", 50*time.Millisecond, "Real time between ticks")
}

type simulateOptions struct {
	at       string
	cycles   int
	speed    float64
	seed     uint64
	interval time.Duration

	// start anchors the simulated clock. Zero means now.
	start time.Time
}

// scaledClock runs speed times faster than real time from start.
func scaledClock(start time.Time, speed float64, wall func() time.Time) func() time.Time {
	origin := wall()
	return func() time.Time {
		return start.Add(time.Duration(float64(wall().Sub(origin)) * speed))
	}
}

// simulate runs one session to its alarm, or until ctx is done, and
// returns the summary.
func simulate(ctx context.Context, cfg config.Config, opts simulateOptions, logger *slog.Logger) (*session.Summary, error) {
	if opts.speed <= 0 {
		return nil, fmt.Errorf("speed must be positive, got %v", opts.speed)
	}
	if err := wake.ValidateCycles(opts.cycles); err != nil {
		return nil, err
	}
	var target *wake.TargetWakeTime
	if opts.at != "" {
		t, err := wake.ParseTarget(opts.at)
		if err != nil {
			return nil, err
		}
		target = &t
	}

	start := opts.start
	if start.IsZero() {
		start = time.Now()
	}
	clock := scaledClock(start, opts.speed, time.Now)

	rang := make(chan struct{})
	var once sync.Once
	cfg.Alarm.Bell = false
	factory := app.MonitorFactory{
		Config: cfg,
		Logger: logger,
		Seed:   opts.seed,
		Observers: []session.Observer{session.ObserverFunc(func(e session.Event) {
			logger.Info("session event",
				"kind", e.Kind,
				"elapsed", wake.FormatElapsed(e.Elapsed),
				"stage", e.Stage,
				"detail", e.Detail,
			)
		})},
		Extra: []alarm.Notifier{alarm.Func{OnAlert: func(context.Context) error {
			once.Do(func() { close(rang) })
			return nil
		}}},
	}

	m := factory.New()
	if err := m.Start(start, target, opts.cycles); err != nil {
		return nil, err
	}
	v := m.View()
	logger.Info("sleeping",
		"wake_at", v.WakeClock(),
		"cycles", v.Prediction.Cycles,
		"speed", opts.speed,
	)

	r := session.NewRunner(m,
		session.WithClock(clock),
		session.WithInterval(opts.interval),
	)
	if err := r.Start(ctx); err != nil {
		return nil, err
	}
	defer r.Stop()

	select {
	case <-rang:
	case <-ctx.Done():
		logger.Info("interrupted, waking up early")
	}
	return r.WakeUp()
}
