package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/thefirstspine/arena-server-go/internal/catalog"
	"github.com/thefirstspine/arena-server-go/internal/config"
	"github.com/thefirstspine/arena-server-go/internal/game"
	"github.com/thefirstspine/arena-server-go/internal/notify"
	"github.com/thefirstspine/arena-server-go/internal/rooms"
	"github.com/thefirstspine/arena-server-go/internal/server"
	"github.com/thefirstspine/arena-server-go/internal/wizard"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting arena server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Messaging broker
	natsConn, err := nats.Connect(cfg.Nats.URL)
	if err != nil {
		logger.Fatal("failed to connect to NATS", zap.Error(err))
	}
	defer natsConn.Close()
	logger.Info("NATS connection established", zap.String("url", cfg.Nats.URL))
	notifier := notify.NewNatsNotifier(natsConn, cfg.Nats.SubjectPrefix, logger)

	// Account store
	var accounts wizard.AccountStore
	if cfg.Database.URL != "" {
		pool, err := wizard.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()
		pgStore := wizard.NewPgStore(pool, logger)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to prepare database schema", zap.Error(err))
		}
		accounts = pgStore
		logger.Info("account store backed by postgres")
	} else {
		accounts = wizard.NewMemStore()
		logger.Warn("no database configured, accounts are in-memory only")
	}

	// Reference data
	var cards *catalog.Service
	if cfg.Catalog.URL != "" {
		cards = catalog.NewService(cfg.Catalog.URL, cfg.Catalog.Timeout, logger)
		logger.Info("catalog service initialized", zap.String("url", cfg.Catalog.URL))
	} else {
		cards = catalog.Static(catalog.DefaultCards(), catalog.DefaultGameTypes())
		logger.Warn("no catalog configured, using the built-in card set")
	}

	// Chat rooms
	var broadcaster *rooms.Broadcaster
	if cfg.Rooms.URL != "" {
		broadcaster = rooms.NewBroadcaster(cfg.Rooms.URL, cfg.Rooms.Timeout, logger)
		logger.Info("rooms broadcaster initialized", zap.String("url", cfg.Rooms.URL))
	}

	// Turn engine
	services := &game.Services{
		Log:             logger,
		Rooms:           broadcaster,
		Notify:          notifier,
		Catalog:         cards,
		Quests:          wizard.NewService(accounts, notifier, logger),
		Accounts:        accounts,
		ActionTimeout:   cfg.Game.ActionTimeout,
		ConfrontsWindow: cfg.Game.ConfrontsWindow,
	}
	services.Hooks = game.NewDispatcher(logger)
	services.Workers = game.NewRegistry()
	game.RegisterDefaults(services)

	manager := game.NewManager(services)
	logger.Info("game manager initialized")

	ticker := game.NewTicker(manager, cfg.Game.TickInterval, logger)
	go ticker.Run(ctx)

	// Push gateway
	hub := server.NewHub(logger)
	sub, err := hub.Subscribe(natsConn, cfg.Nats.SubjectPrefix)
	if err != nil {
		logger.Fatal("failed to subscribe to broker", zap.Error(err))
	}
	defer sub.Unsubscribe()
	go func() {
		if wsErr := hub.Run(ctx, cfg.Server.WebSocket.Address, cfg.Server.WebSocket.Path); wsErr != nil {
			logger.Error("websocket gateway error", zap.Error(wsErr))
		}
	}()

	// REST API
	handler := server.NewHandler(manager, logger)
	httpServer := &http.Server{
		Addr:    cfg.Server.HTTP.Address,
		Handler: handler.Router(),
	}
	go func() {
		logger.Info("REST API listening", zap.String("address", cfg.Server.HTTP.Address))
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			logger.Error("REST API error", zap.Error(serveErr))
		}
	}()

	logger.Info("arena server initialized",
		zap.String("version", version),
		zap.String("http_address", cfg.Server.HTTP.Address),
		zap.String("websocket_address", cfg.Server.WebSocket.Address),
	)

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("REST API shutdown error", zap.Error(err))
	}

	logger.Info("arena server stopped")
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
