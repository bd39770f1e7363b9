package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/oshokin/catpoint/internal/config"
	domain "github.com/oshokin/catpoint/internal/domain/alarm"
	"github.com/oshokin/catpoint/internal/logger"
	"github.com/oshokin/catpoint/internal/metrics"
	repo "github.com/oshokin/catpoint/internal/repository/state"
	"github.com/oshokin/catpoint/internal/service/camera"
	"github.com/oshokin/catpoint/internal/service/display"
	"github.com/oshokin/catpoint/internal/service/security"
)

// Options controls how a session is built.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ConfigRequired fails the session when the settings file is missing
	// instead of falling back to defaults.
	ConfigRequired bool
	// Config, when set, is used instead of reading ConfigPath.
	Config *config.Config
	// LogLevel overrides the log level from the settings.
	LogLevel string
	// Output receives the display lines; defaults to stdout.
	Output io.Writer
}

// Session is an open security controller.
type Session struct {
	// cfg holds the effective settings.
	cfg *config.Config
	// store holds the persisted state.
	store repo.Repository
	// service is the alarm decision engine.
	service *security.Service
	// collector records metrics when a metrics file is configured.
	collector *metrics.Collector
	// out receives the display lines.
	out io.Writer
}

var errUnknownStore = errors.New("unknown store backend")

// Open builds a session from the options.
func Open(ctx context.Context, opts *Options) (*Session, error) {
	cfg, err := loadConfig(ctx, opts)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}

	if parsed, ok := logger.ParseLogLevel(level); ok {
		logger.SetLevel(parsed)
	} else {
		logger.Warnf(ctx, "Unknown log level %q, keeping %s", level, logger.Level())
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	classifier, err := camera.NewFakeClassifier(camera.Mode(cfg.Classifier), cfg.ClassifierSeed)
	if err != nil {
		closeStore(ctx, store)

		return nil, fmt.Errorf("create classifier: %w", err)
	}

	svc, err := security.NewService(store, classifier)
	if err != nil {
		closeStore(ctx, store)

		return nil, fmt.Errorf("create security service: %w", err)
	}

	s := &Session{
		cfg:     cfg,
		store:   store,
		service: svc,
		out:     out,
	}

	if err = s.attachListeners(ctx); err != nil {
		closeStore(ctx, store)

		return nil, err
	}

	logger.InfoKV(ctx, "Security controller ready",
		"store", cfg.Store,
		"state_file", cfg.StateFile,
		"classifier", cfg.Classifier,
	)

	return s, nil
}

// Service returns the alarm decision engine of the session.
func (s *Session) Service() *security.Service {
	return s.service
}

// Close writes the metrics file if configured and releases the store.
func (s *Session) Close(ctx context.Context) error {
	var errs []error

	if s.collector != nil {
		if err := s.collector.WriteTextfile(s.cfg.MetricsFile); err != nil {
			errs = append(errs, err)
		}
	}

	if closer, ok := s.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		logger.ErrorKV(ctx, "Failed to close session", "error", err)
	}

	return err
}

// attachListeners registers the display, the notification log and the metrics collector.
func (s *Session) attachListeners(ctx context.Context) error {
	listeners := []domain.StatusListener{
		display.NewConsole(s.out, s.service),
		&notificationLogger{ctx: ctx},
	}

	if s.cfg.MetricsFile != "" {
		collector, err := metrics.NewCollector()
		if err != nil {
			return err
		}

		status, err := s.service.AlarmStatus(ctx)
		if err != nil {
			return fmt.Errorf("get alarm status: %w", err)
		}

		collector.Observe(status)

		s.collector = collector
		listeners = append(listeners, collector)
	}

	for _, l := range listeners {
		if err := s.service.AddStatusListener(l); err != nil {
			return err
		}
	}

	return nil
}

// loadConfig returns the injected settings or reads them from disk.
func loadConfig(ctx context.Context, opts *Options) (*config.Config, error) {
	if opts.Config != nil {
		cfg := *opts.Config
		if err := config.Validate(&cfg); err != nil {
			return nil, fmt.Errorf("validate settings: %w", err)
		}

		return &cfg, nil
	}

	cfg, err := config.Load(opts.ConfigPath)
	switch {
	case err == nil:
		return cfg, nil
	case errors.Is(err, config.ErrNotFound) && !opts.ConfigRequired:
		logger.WarnKV(ctx, "Settings file not found, using defaults", "config", opts.ConfigPath)

		return config.Default(), nil
	default:
		return nil, fmt.Errorf("load settings: %w", err)
	}
}

// openStore opens the state store selected by the settings.
//
//nolint:ireturn // The backend is chosen at runtime.
func openStore(ctx context.Context, cfg *config.Config) (repo.Repository, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return repo.NewMemoryRepository(), nil
	case config.StoreFile:
		store, err := repo.OpenFileRepository(cfg.StateFile)
		if err != nil {
			return nil, fmt.Errorf("open state file: %w", err)
		}

		return store, nil
	case config.StoreSQLite:
		store, err := repo.OpenSQLiteRepository(ctx, cfg.StateFile)
		if err != nil {
			return nil, fmt.Errorf("open state database: %w", err)
		}

		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownStore, cfg.Store)
	}
}

// closeStore releases a store opened by a session that failed to start.
func closeStore(ctx context.Context, store repo.Repository) {
	if closer, ok := store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.ErrorKV(ctx, "Failed to close store", "error", err)
		}
	}
}

// notificationLogger logs every notification at debug level.
type notificationLogger struct {
	// ctx carries the session logger.
	ctx context.Context //nolint:containedctx // Listeners have no context parameter.
}

// Notify logs the alarm status.
func (l *notificationLogger) Notify(status domain.AlarmStatus) {
	logger.DebugKV(l.ctx, "Notified alarm status", "alarm_status", status)
}

// CatDetected logs the camera result.
func (l *notificationLogger) CatDetected(detected bool) {
	logger.DebugKV(l.ctx, "Notified camera result", "cat_detected", detected)
}

// SensorStatusChanged logs the refresh.
func (l *notificationLogger) SensorStatusChanged() {
	logger.Debug(l.ctx, "Notified sensor status change")
}
