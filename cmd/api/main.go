package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roombook/internal/api"
	"roombook/internal/auth"
	"roombook/internal/config"
	"roombook/internal/database"
	"roombook/internal/domain"
	"roombook/internal/events"
	"roombook/internal/logging"
	"roombook/internal/metrics"
	"roombook/internal/repository"
	"roombook/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, cfg.Database, &logger)
	if err != nil {
		logger.Error().Err(err).Str("driver", cfg.Database.Driver).Msg("init database")
		return err
	}
	defer store.Close()

	redisClient := initRedis(ctx, cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	tokens, err := auth.NewTokenManager(cfg.API.Auth.JWTSecret, cfg.API.Auth.Issuer, cfg.API.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("init token manager: %w", err)
	}

	eventBus := events.NewEventBus(&logger)
	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		metrics.SubscribeBookingEvents(eventBus)
	}

	resources := service.NewResourceService(store, initResourceCache(redisClient, &logger), cfg.Redis.CacheTTL, &logger)
	services := api.Services{
		Bookings:  service.NewBookingService(store, resources, eventBus, &logger),
		Resources: resources,
		Auth:      service.NewAuthService(store, tokens, &logger),
	}
	if cfg.API.DevSeed {
		services.Seed = service.NewSeedService(store, store, resources, &logger)
	}

	grpcServer, err := api.NewGRPCServer(&cfg.API, store, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("create grpc server")
		return err
	}

	httpServer := api.NewHTTPServer(cfg.API, services, tokens, store, &logger)

	startMetrics(ctx, cfg, &logger)
	startBackups(ctx, cfg, store, &logger)

	return startServers(ctx, grpcServer, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

func initRedis(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if !cfg.Redis.Enabled || cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		_ = redisClient.Close()
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// initResourceCache prefers Redis with an in-memory fallback.
func initResourceCache(redisClient *redis.Client, logger *zerolog.Logger) domain.ResourceCache {
	memory := repository.NewMemoryResourceCache()
	if redisClient == nil {
		return memory
	}
	return repository.NewFailoverResourceCache(repository.NewRedisResourceCache(redisClient), memory, logger)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startBackups(ctx context.Context, cfg *config.Config, store domain.Store, logger *zerolog.Logger) {
	if !cfg.Backup.Enabled {
		return
	}
	db, ok := store.(*database.DB)
	if !ok {
		logger.Warn().Str("driver", cfg.Database.Driver).Msg("backups are only supported for sqlite")
		return
	}
	go database.NewBackupService(db, cfg.Backup, logger).Start(ctx)
}

func startServers(
	ctx context.Context,
	grpcServer *api.GRPCServer,
	httpServer *api.HTTPServer,
	cfg *config.Config,
	logger *zerolog.Logger,
) error {
	if cfg.API.GRPC.Enabled {
		go grpcServer.WatchHealth(ctx)
		go func() {
			if err := grpcServer.Serve(); err != nil {
				logger.Error().Err(err).Msg("grpc server stopped")
			}
		}()
	}

	go func() {
		if !cfg.API.HTTP.Enabled {
			return
		}
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Str("grpc_addr", grpcServer.Addr()).Int("http_port", cfg.API.HTTP.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	grpcServer.Shutdown(shutdownCtx)
	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
