package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/concierge"
	"github.com/aretw0/concierge/internal/config"
	"github.com/aretw0/concierge/internal/logging"
	"github.com/aretw0/concierge/pkg/adapters/memory"
	"github.com/aretw0/concierge/pkg/adapters/mock"
	"github.com/aretw0/concierge/pkg/adapters/redis"
	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/observability"
	"github.com/aretw0/concierge/pkg/persistence/middleware"
	"github.com/aretw0/concierge/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrNeedsSharedStore is returned by session commands run against the memory store,
// which dies with the process that owns it.
var ErrNeedsSharedStore = errors.New("session commands need the redis store (store.driver: redis)")

// LoadConfig reads the config file and environment, applies the --debug
// override and validates the result.
func LoadConfig(path string, debug bool) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// NewLogger builds the logger described by cfg. Logs go to w, which is stderr
// for every command so stdout stays free for the chat or the MCP stream.
func NewLogger(cfg config.Config, w io.Writer) *slog.Logger {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	return logging.NewWithFormat(w, level, logging.Format(cfg.Log.Format))
}

// NewProvider builds the travel provider selected by cfg.
func NewProvider(cfg config.Config) (ports.TravelProvider, error) {
	if cfg.Provider.Mode != config.ProviderMock {
		return nil, fmt.Errorf("unsupported provider mode %q", cfg.Provider.Mode)
	}
	opts := []mock.Option{
		mock.WithSearchDelay(cfg.Provider.SearchDelay),
		mock.WithBookingDelay(cfg.Provider.BookingDelay),
	}
	if cfg.Provider.Seed != 0 {
		opts = append(opts, mock.WithSeed(cfg.Provider.Seed))
	}
	return mock.NewProvider(opts...), nil
}

// Storage is the session store selected by cfg, plus the lock shared by
// replicas when the store is redis and locking is on.
type Storage struct {
	Store  ports.StateStore
	Locker ports.DistributedLocker
	close  func() error
}

// Close releases the store connection, if any.
func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// NewStorage opens the store selected by cfg, wrapped with redaction and
// encryption when configured.
func NewStorage(cfg config.Config) (*Storage, error) {
	var s *Storage
	switch cfg.Store.Driver {
	case config.StoreMemory:
		s = &Storage{Store: memory.NewStore()}
	case config.StoreRedis:
		rc := cfg.Store.Redis
		store := redis.New(rc.Addr, rc.Password, rc.DB,
			redis.WithPrefix(rc.Prefix),
			redis.WithTTL(rc.TTL),
		)
		s = &Storage{Store: store, close: store.Close}
		if rc.Lock {
			s.Locker = redis.NewLocker(store.Client(), store.Prefix())
		}
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	mws, err := storeMiddlewares(cfg.Store)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Store = middleware.Chain(s.Store, mws...)
	return s, nil
}

// storeMiddlewares redacts before sealing, so the sealed copy is already masked.
func storeMiddlewares(sc config.StoreConfig) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if sc.Redact {
		mw, err := middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	if sc.Encryption.Enabled() {
		active, fallback, err := sc.Encryption.Keys()
		if err != nil {
			return nil, err
		}
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		})
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	return mws, nil
}

// App bundles what every command needs.
type App struct {
	Config    config.Config
	Logger    *slog.Logger
	Registry  *prometheus.Registry
	Storage   *Storage
	Concierge *concierge.Concierge
}

// NewApp wires the concierge from cfg. Extra hooks run after the logging and
// metrics hooks.
func NewApp(cfg config.Config, logOut io.Writer, extra ...domain.LifecycleHooks) (*App, error) {
	logger := NewLogger(cfg, logOut)

	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}

	storage, err := NewStorage(cfg)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(registry)
	if err != nil {
		storage.Close()
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	hooks := append([]domain.LifecycleHooks{
		observability.LoggingHooks(logger),
		metrics.Hooks(),
	}, extra...)

	opts := []concierge.Option{
		concierge.WithProvider(provider),
		concierge.WithStore(storage.Store),
		concierge.WithLogger(logger),
		concierge.WithLifecycleHooks(domain.ChainHooks(hooks...)),
		concierge.WithMaxInputSize(cfg.MaxInputSize),
	}
	if storage.Locker != nil {
		opts = append(opts, concierge.WithLocker(storage.Locker))
	}

	logger.Debug("Concierge configured",
		"provider", cfg.Provider.Mode,
		"store", cfg.Store.Driver,
		"distributed_lock", storage.Locker != nil,
	)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Registry:  registry,
		Storage:   storage,
		Concierge: concierge.New(opts...),
	}, nil
}

// Close releases the resources held by the app.
func (a *App) Close() error {
	return a.Storage.Close()
}
