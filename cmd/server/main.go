package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/tilegame-go/internal/api"
	"github.com/mcoot/tilegame-go/internal/api/sse"
	"github.com/mcoot/tilegame-go/internal/config"
	"github.com/mcoot/tilegame-go/internal/factory"
	"github.com/mcoot/tilegame-go/internal/model"
)

func main() {
	settingsPath := flag.String("config", os.Getenv("TILEGAME_CONFIG"), "path to a settings file")
	flag.Parse()

	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		slog.Error("failed to load settings", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlerOpts := &slog.HandlerOptions{Level: settings.SlogLevel()}
	var logger *slog.Logger
	if settings.LogFormat == "text" {
		logger = slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	} else {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, handlerOpts))
	}
	slog.SetDefault(logger)

	// Default setup for games created without a body
	defaultGame := model.GameConfig{}
	defaultGame.Normalize()
	if settings.GameConfigPath != "" {
		cfg, err := config.LoadGameConfig(settings.GameConfigPath)
		if err != nil {
			logger.Error("failed to load game config", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defaultGame = *cfg
	}

	app, err := factory.New(factory.ConfigFromSettings(settings, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close application", slog.String("error", err.Error()))
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:            logger,
		Registry:          app.Registry,
		GameController:    app.GameController,
		BoardService:      app.BoardService,
		BotService:        app.BotService,
		HubManager:        app.HubManager,
		Broadcaster:       app.Broadcaster,
		DefaultGameConfig: defaultGame,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = settings.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go app.HubManager.RunCleanup(ctx, sse.CleanupInterval)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", settings.StorageType),
	)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
		}
	}

	logger.Info("server stopped")
}
