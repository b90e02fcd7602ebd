package app

import (
	"io"
	"log/slog"
	"time"

	"github.com/earlybird-app/earlybird/internal/alarm"
	"github.com/earlybird-app/earlybird/internal/config"
	"github.com/earlybird-app/earlybird/internal/session"
	"github.com/earlybird-app/earlybird/internal/stage"
)

// MonitorFactory builds sessions wired to the configured alarm and
// observers. Each call returns a fresh, unstarted Monitor.
type MonitorFactory struct {
	Config    config.Config
	Bell      io.Writer
	Observers []session.Observer
	Logger    *slog.Logger

	// Seed fixes the stage noise. Zero seeds from the clock.
	Seed uint64

	// Extra notifiers fire alongside the bell, e.g. a log line.
	Extra []alarm.Notifier
}

// New returns an unstarted Monitor.
func (f MonitorFactory) New() *session.Monitor {
	logger := f.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	seed := f.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	var m *session.Monitor
	notifiers := append(alarm.Multi{}, f.Extra...)
	if f.Config.Alarm.Bell && f.Bell != nil {
		notifiers = append(notifiers, alarm.NewBell(f.Bell, f.Config.Alarm.Repeat))
	}
	notifier := alarm.NewAsync(notifiers, alarm.AsyncConfig{
		Attempts: f.Config.Alarm.Attempts,
		Delay:    f.Config.Alarm.Delay,
		Logger:   logger,
		OnFailure: func(err error) {
			m.ReportNotificationFailure(err)
		},
	})

	m = session.New(
		session.WithEstimator(stage.NewNoisyEstimator(stage.CycleEstimator{}, seed, f.Config.Sleep.StageNoise)),
		session.WithNotifier(notifier),
		session.WithObserver(session.Observers(f.Observers...)),
		session.WithLogger(logger),
		session.WithStageInterval(f.Config.Session.StageInterval),
		session.WithRefreshInterval(f.Config.Session.RefreshInterval),
	)
	return m
}
