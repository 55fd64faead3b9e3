package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/mcoot/steamgames/internal/api"
	"github.com/mcoot/steamgames/internal/factory"
	"github.com/mcoot/steamgames/internal/importer"
	redisstorage "github.com/mcoot/steamgames/internal/storage/redis"
)

func main() {
	// A missing .env file is not an error
	_ = godotenv.Load()

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(os.Getenv("LOG_LEVEL")),
	}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(logger *slog.Logger) error {
	// Build factory config from environment
	cfg := factory.Config{
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
		SQLitePath:  getEnvOrDefault("SQLITE_PATH", "data/steamgames.db"),
	}
	cfg.ImportConfig = importer.DefaultConfig()
	cfg.ImportConfig.MaxRows = getEnvInt(logger, "IMPORT_MAX_ROWS", cfg.ImportConfig.MaxRows)

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			return errors.New("REDIS_URL required when STORAGE_TYPE=redis")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if path := os.Getenv("USERS_FILE"); path != "" {
		n, err := app.AuthService.LoadUsersFile(ctx, path)
		if err != nil {
			return err
		}
		logger.Info("users loaded", slog.Int("count", n), slog.String("path", path))
	} else {
		logger.Warn("USERS_FILE not set, no user can authenticate")
	}

	if err := importIfEmpty(ctx, app, logger, os.Getenv("DATASET_PATH")); err != nil {
		return err
	}

	// Create API router and server
	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		CatalogService: app.CatalogService,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = getEnvInt(logger, "PORT", serverConfig.Port)
	server := api.NewServer(router, serverConfig, logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(server.Start)

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutdown signal received")
		return server.Shutdown(context.Background())
	})

	// Drop expired credential cache entries
	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				app.AuthService.CleanExpired()
			}
		}
	})

	return g.Wait()
}

// importIfEmpty loads the dataset into an empty catalog
func importIfEmpty(ctx context.Context, app *factory.App, logger *slog.Logger, path string) error {
	count, err := app.Storage.CountGames(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Info("catalog already loaded", slog.Int("games", count))
		return nil
	}
	if path == "" {
		logger.Warn("catalog is empty and DATASET_PATH is not set")
		return nil
	}

	n, err := app.Importer.ImportFile(ctx, path)
	if err != nil {
		return err
	}
	logger.Info("dataset imported", slog.Int("games", n), slog.String("path", path))
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(logger *slog.Logger, key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logger.Warn("ignoring invalid integer", slog.String("key", key), slog.String("value", value))
		return defaultValue
	}
	return n
}

func logLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
