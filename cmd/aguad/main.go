package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"water-billing-backend/config"
	"water-billing-backend/internal/db"
	"water-billing-backend/internal/logging"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Initialize the database, seed the administrator pin and exit")

func main() {
	flag.Parse()

	// A .env file is optional; the process environment wins.
	if err := godotenv.Load(); err == nil {
		log.Println("loaded environment from .env")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	if *migrateOnlyFlag {
		if err := migrateOnly(cfg, logger); err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}
		logger.Info("migrations completed successfully")
		return
	}

	app := fx.New(
		fx.Supply(cfg, logger),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),
		fx.Provide(
			ProvideDatabase,
			ProvideStore,
			ProvideSessions,
			ProvideExportPool,
			ProvideRefresher,
			ProvideHandler,
			ProvideRouter,
		),
		fx.Invoke(startServer),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startCancel()
	if err := app.Start(startCtx); err != nil {
		logger.Fatal("failed to start application", zap.Error(err))
	}

	<-ctx.Done()
	logger.Info("shutdown signal received, stopping services")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		logger.Error("error stopping application", zap.Error(err))
	}
}

// migrateOnly runs the same initialization as a normal start and exits.
func migrateOnly(cfg *config.Config, logger *zap.Logger) error {
	gormDB, err := db.Init(&cfg.Database, logger)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	s := newStore(gormDB, cfg, logger)
	return s.EnsureCredential(context.Background(), cfg.Admin.DefaultPIN)
}
