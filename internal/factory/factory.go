package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/guesswho-go/internal/dependencies/clock"
	"github.com/mcoot/guesswho-go/internal/dependencies/random"
	"github.com/mcoot/guesswho-go/internal/services/registry"
	"github.com/mcoot/guesswho-go/internal/services/session"
	"github.com/mcoot/guesswho-go/internal/storage"
	"github.com/mcoot/guesswho-go/internal/storage/memory"
	redisstorage "github.com/mcoot/guesswho-go/internal/storage/redis"
	"github.com/mcoot/guesswho-go/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	RegistryService   *registry.Service
	SessionController *session.Controller
	HubManager        *ws.HubManager
	Broadcaster       *ws.Broadcaster
	WSHandler         *ws.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	hubManager := ws.NewHubManager(logger)
	broadcaster := ws.NewBroadcaster(hubManager, logger)

	registryService := registry.New(clk, logger)
	sessionController := session.NewController(store, registryService, clk, rnd, broadcaster, logger)
	wsHandler := ws.NewHandler(hubManager, sessionController, logger)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		RegistryService:   registryService,
		SessionController: sessionController,
		HubManager:        hubManager,
		Broadcaster:       broadcaster,
		WSHandler:         wsHandler,
	}
}
