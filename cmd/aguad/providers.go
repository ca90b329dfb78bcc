package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"water-billing-backend/config"
	"water-billing-backend/internal/api"
	"water-billing-backend/internal/db"
	"water-billing-backend/internal/export"
	"water-billing-backend/internal/refresh"
	"water-billing-backend/internal/session"
	"water-billing-backend/internal/store"
)

// ProvideDatabase opens and migrates the database and closes it on stop.
func ProvideDatabase(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	gormDB, err := db.Init(&cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := gormDB.DB()
			if err != nil {
				return err
			}
			logger.Info("closing database")
			return sqlDB.Close()
		},
	})
	return gormDB, nil
}

// ProvideStore creates the record store and seeds the administrator pin.
func ProvideStore(gormDB *gorm.DB, cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	s := newStore(gormDB, cfg, logger)
	if err := s.EnsureCredential(context.Background(), cfg.Admin.DefaultPIN); err != nil {
		return nil, fmt.Errorf("failed to seed administrator credential: %w", err)
	}
	return s, nil
}

func newStore(gormDB *gorm.DB, cfg *config.Config, logger *zap.Logger) store.Store {
	return store.NewGormStore(gormDB,
		store.WithLogger(logger.Named("store")),
		store.WithLocation(cfg.Location),
		store.WithBcryptCost(cfg.Admin.BcryptCost),
	)
}

// ProvideSessions creates the clerk session manager.
func ProvideSessions(cfg *config.Config) *session.Manager {
	return session.NewManager(time.Duration(cfg.Admin.SessionTTLMinutes) * time.Minute)
}

// ProvideExportPool creates the report export workers, running for the
// lifetime of the application.
func ProvideExportPool(lc fx.Lifecycle, cfg *config.Config, s store.Store, logger *zap.Logger) *export.WorkerPool {
	pool := export.NewWorkerPool(cfg.Export.WorkerPoolSize, s, export.DirSink{Dir: cfg.Export.Dir},
		cfg.Location, logger.Named("export"))

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logger.Info("starting export workers",
				zap.Int("workers", cfg.Export.WorkerPoolSize), zap.String("dir", cfg.Export.Dir))
			pool.Start(ctx)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			return pool.Wait(stopCtx)
		},
	})
	return pool
}

// ProvideRefresher creates the dashboard refresher and runs it when enabled.
func ProvideRefresher(lc fx.Lifecycle, cfg *config.Config, s store.Store, logger *zap.Logger) *refresh.Service {
	svc := refresh.NewService(s, cfg.Refresh.Interval, logger.Named("refresh"))
	if !cfg.Refresh.Enabled {
		logger.Info("dashboard refresher is disabled")
		return svc
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			svc.Start(ctx)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			return svc.Wait(stopCtx)
		},
	})
	return svc
}

// ProvideHandler wires the API handlers.
func ProvideHandler(
	s store.Store,
	sessions *session.Manager,
	pool *export.WorkerPool,
	refresher *refresh.Service,
	cfg *config.Config,
	logger *zap.Logger,
) *api.Handler {
	return api.NewHandler(s, sessions, pool, refresher, cfg.Location, logger.Named("api"))
}

// ProvideRouter builds the gin engine.
func ProvideRouter(h *api.Handler, cfg *config.Config, logger *zap.Logger) *gin.Engine {
	return api.NewRouter(h, cfg.Server, logger.Named("http"))
}

// startServer binds the listener on start so a busy port fails the start,
// then serves until stop.
func startServer(lc fx.Lifecycle, router *gin.Engine, cfg *config.Config, logger *zap.Logger) {
	addr := net.JoinHostPort(cfg.Server.Host, fmt.Sprint(cfg.Server.Port))
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", addr, err)
			}
			logger.Info("HTTP server starting", zap.String("addr", addr))
			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("HTTP server stopped unexpectedly", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("HTTP server shutting down")
			return server.Shutdown(ctx)
		},
	})
}
