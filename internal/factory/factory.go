package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/tilegame-go/internal/api/sse"
	"github.com/mcoot/tilegame-go/internal/config"
	"github.com/mcoot/tilegame-go/internal/dependencies/clock"
	"github.com/mcoot/tilegame-go/internal/dependencies/random"
	"github.com/mcoot/tilegame-go/internal/registry"
	"github.com/mcoot/tilegame-go/internal/services/board"
	"github.com/mcoot/tilegame-go/internal/services/bot"
	"github.com/mcoot/tilegame-go/internal/services/game"
	"github.com/mcoot/tilegame-go/internal/services/seeder"
	"github.com/mcoot/tilegame-go/internal/storage"
	"github.com/mcoot/tilegame-go/internal/storage/memory"
	redisstorage "github.com/mcoot/tilegame-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = config.StorageTypeMemory
	StorageTypeRedis  = config.StorageTypeRedis
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Variants
	Registry *registry.Registry

	// Services
	BoardService   *board.Service
	GameController *game.Controller
	BotService     *bot.Service

	// Event streaming
	HubManager  *sse.HubManager
	Broadcaster *sse.Broadcaster
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
	// Registry holds the playable variants (optional)
	// If nil, registry.Default() is used
	Registry *registry.Registry
}

// ConfigFromSettings maps process settings onto a factory Config
func ConfigFromSettings(settings *config.Settings, logger *slog.Logger) Config {
	cfg := Config{
		Logger:      logger,
		StorageType: settings.StorageType,
	}
	if settings.StorageType == StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = settings.RedisURL
		redisCfg.GameTTL = settings.RedisGameTTL
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

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

	reg := cfg.Registry
	if reg == nil {
		reg = registry.Default()
	}

	return newWithDependencies(store, clock.New(), random.New(), reg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, reg *registry.Registry, logger *slog.Logger) *App {
	gameController := game.NewController(store, reg, seeder.DefaultLimits(), clk, rnd, logger)
	botService := bot.NewService(gameController, bot.DefaultStrategies(rnd), logger)

	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)
	gameController.OnEvent(broadcaster.Publish)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Registry:       reg,
		BoardService:   board.New(),
		GameController: gameController,
		BotService:     botService,
		HubManager:     hubManager,
		Broadcaster:    broadcaster,
	}
}

// Close stops live sessions and event streams and releases the storage
// backend
func (a *App) Close() error {
	a.GameController.Shutdown()
	a.HubManager.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
