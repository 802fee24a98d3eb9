package app

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/mileage-collector/internal/avapi"
	"github.com/Kamar-Folarin/mileage-collector/internal/catalog"
	"github.com/Kamar-Folarin/mileage-collector/internal/collector"
	"github.com/Kamar-Folarin/mileage-collector/internal/config"
	"github.com/Kamar-Folarin/mileage-collector/internal/db"
	"github.com/Kamar-Folarin/mileage-collector/internal/kv"
	"github.com/Kamar-Folarin/mileage-collector/internal/progress"
	"github.com/Kamar-Folarin/mileage-collector/internal/scrapestate"
	"github.com/Kamar-Folarin/mileage-collector/internal/state"
)

// App holds the wired components shared by the server and the one-shot collector
type App struct {
	Config     *config.Config
	Logger     *logrus.Logger
	Store      *db.PostgresStore
	States     *scrapestate.Manager
	Catalog    *catalog.Service
	Collection *collector.Service
	State      *state.AppState
	Progress   *progress.Tracker

	closers []func() error
}

// NewLogger returns the JSON logger used by the binaries
func NewLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	logger.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("Invalid log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// New connects to the database, runs migrations and wires every component
func New(cfg *config.Config, logger *logrus.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	// Postgres may still be starting when the container comes up
	if err := retry(3, 5*time.Second, func() error {
		store, err := db.NewPostgresStore(cfg.Database.DSN())
		if err != nil {
			return err
		}
		a.Store = store
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.closers = append(a.closers, a.Store.Close)

	if err := retry(3, 5*time.Second, a.Store.Migrate); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to run migrations after retries: %w", err)
	}

	store, err := a.openKV()
	if err != nil {
		a.Close()
		return nil, err
	}

	client := avapi.NewClient(cfg.AVAPI.BaseURL, cfg.AVAPI.Token, logger,
		avapi.WithTimeout(cfg.AVAPI.Timeout()),
		avapi.WithRateLimit(cfg.AVAPI.RatePerSecond, 1),
		avapi.WithRetryConfig(cfg.AVAPI.MaxRetries, cfg.AVAPI.InitialBackoff, cfg.AVAPI.MaxBackoff),
	)

	a.States = scrapestate.NewManager(store, logger)
	a.Catalog = catalog.NewService(client, a.States, logger)
	a.State = state.NewAppState(logger)
	a.Progress = progress.NewTracker()

	c := collector.NewCollector(client, a.Store, a.States, a.State, a.Progress, logger)
	a.Collection = collector.NewService(c, a.States, a.Store, logger)

	return a, nil
}

func (a *App) openKV() (kv.Store, error) {
	cfg := a.Config.KV
	a.Logger.WithField("driver", cfg.Driver).Info("Opening key-value store")

	switch cfg.Driver {
	case config.KVDriverMemory:
		return kv.NewMemoryStore(), nil
	case config.KVDriverSQLite:
		store, err := kv.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	default:
		return kv.NewSQLStore(a.Store.DB(), kv.DialectPostgres)
	}
}

// Close stops background collections and releases storage in reverse order of opening
func (a *App) Close() {
	if a.Collection != nil {
		a.Collection.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.WithError(err).Warn("Failed to close resource")
		}
	}
	a.closers = nil
}

// retry retries a function up to a certain number of attempts with a delay between attempts
func retry(attempts int, sleep time.Duration, fn func() error) error {
	if err := fn(); err != nil {
		if attempts--; attempts > 0 {
			time.Sleep(sleep)
			return retry(attempts, sleep, fn)
		}
		return err
	}
	return nil
}
