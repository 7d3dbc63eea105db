package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CompanyAPI/internal/auth"
	"CompanyAPI/internal/cache"
	"CompanyAPI/internal/config"
	"CompanyAPI/internal/db"
	"CompanyAPI/internal/events"
	"CompanyAPI/internal/handler"
	"CompanyAPI/internal/logger"
	"CompanyAPI/internal/mapping"
	"CompanyAPI/internal/repository"
	"CompanyAPI/internal/router"
	"CompanyAPI/internal/store/memory"
	"CompanyAPI/internal/store/postgres"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func loadMappings(path string) (*mapping.Registry, error) {
	if path == "" {
		return mapping.Default()
	}
	logger.Info("mappings_from_file", map[string]any{"path": path})
	return mapping.LoadFile(path)
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		store := memory.New()
		if err := store.Seed(ctx, memory.DemoCompanies()); err != nil {
			return nil, nil, fmt.Errorf("seed memory store: %w", err)
		}
		logger.Info("memory_store_seeded", nil)
		return store, func() {}, nil
	case config.StoreDriverPostgres:
		if cfg.AutoMigrate {
			if err := db.MigrateUp(cfg.MigrationsDir, cfg.PostgresDSN); err != nil {
				return nil, nil, err
			}
		}
		if err := db.InitPostgres(ctx, cfg.PostgresDSN); err != nil {
			return nil, nil, err
		}
		logger.Info("postgres_connected", nil)
		return postgres.New(db.Pool), db.ClosePostgres, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	reg, err := loadMappings(cfg.MappingsFile)
	if err != nil {
		logger.Error("mappings_init_failed", map[string]any{"error": err.Error()})
		return err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("store_init_failed", map[string]any{"driver": cfg.StoreDriver, "error": err.Error()})
		return err
	}
	defer closeStore()

	db.InitRedis(cfg.Cache.RedisAddr)
	defer db.CloseRedis()
	if err := db.PingRedis(ctx); err != nil {
		logger.Warn("redis_unreachable", map[string]any{"addr": cfg.Cache.RedisAddr, "error": err.Error()})
	}
	companies := cache.New(db.RDB, cfg.Cache.TTL)

	bus := events.New()
	if err := companies.Attach(bus); err != nil {
		return err
	}
	if err := events.AuditLog(bus); err != nil {
		return err
	}

	var validator *auth.JWTValidator
	if cfg.Auth.Enabled {
		validator, err = auth.NewJWTValidator(cfg.Auth.JWT)
		if err != nil {
			logger.Error("auth_init_failed", map[string]any{"error": err.Error()})
			return err
		}
		logger.Info("auth_enabled", map[string]any{"type": cfg.Auth.JWT.ValidationType})
	}

	h := handler.New(func() repository.CompanyRepository {
		return repository.New(store, reg, repository.WithCache(companies), repository.WithEvents(bus))
	}, reg, cfg.Paging)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.New(cfg, h, validator),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_start", map[string]any{"port": cfg.Port, "store": cfg.StoreDriver})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_error", map[string]any{"error": err.Error()})
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("server_shutdown", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	bus.WaitAsync()
	return nil
}
