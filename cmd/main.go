package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"opsmanual/internal/caching"
	"opsmanual/internal/config"
	"opsmanual/internal/jobs"
	"opsmanual/internal/jobs/background"
	"opsmanual/internal/repositories"
	"opsmanual/internal/services"
	"opsmanual/pkg/database"
	"opsmanual/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, warnings, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load configuration")
	}
	logger.Init(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	for _, w := range warnings {
		logger.Log.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to connect to database")
	}
	defer pool.Close()

	var cacheSvc caching.CacheService
	if cfg.Redis.Addr != "" {
		cacheSvc = caching.NewRedisCacheService(
			caching.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB),
			cfg.Redis.AirlineTTL,
		)
	} else {
		logger.Log.Warn("REDIS_ADDR not set; airline cache disabled")
		cacheSvc = caching.NewNoopCache()
	}

	storageSvc := newStorage(ctx, cfg.Storage)

	userRepo := repositories.NewUserRepo(pool)
	refreshTokenRepo := repositories.NewRefreshTokenRepo(pool)
	airlineRepo := repositories.NewAirlineRepo(pool)
	chapterRepo := repositories.NewChapterRepo(pool)
	sectionRepo := repositories.NewSectionRepo(pool)
	contentRepo := repositories.NewContentRepo(pool)
	groupRepo := repositories.NewContactGroupRepo(pool)
	contactRepo := repositories.NewContactRepo(pool)
	searchRepo := repositories.NewSearchRepo(pool)

	tokenSvc, err := services.NewTokenService(services.TokenConfig{
		AccessSecret:  cfg.Auth.AccessSecret,
		RefreshSecret: cfg.Auth.RefreshSecret,
		AccessTTL:     cfg.Auth.AccessTokenTTL,
		RefreshTTL:    cfg.Auth.RefreshTokenTTL,
	})
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to initialize token service")
	}
	hasher := services.NewPasswordHasher(cfg.Auth.BcryptCost)
	notifier := services.NewNotificationService(cfg.Queue.URL, cfg.Queue.ResetQueue)

	authSvc := services.NewAuthService(userRepo, refreshTokenRepo, hasher, tokenSvc, notifier, services.AuthConfig{
		ResetTokenTTL: cfg.Auth.ResetTokenTTL,
		ResetURLBase:  cfg.Auth.ResetURLBase,
	})

	deps := &routeDeps{
		tokens:   tokenSvc,
		auth:     authSvc,
		airlines: services.NewAirlineService(airlineRepo, userRepo, cacheSvc, storageSvc),
		users:    services.NewUserService(userRepo, airlineRepo, refreshTokenRepo, hasher),
		manual:   services.NewManualService(chapterRepo, sectionRepo, contentRepo),
		contacts: services.NewContactService(groupRepo, contactRepo),
		search:   services.NewSearchService(searchRepo, chapterRepo),
		db:       pool,
		cache:    cacheSvc,
		storage:  storageSvc,
	}

	scheduler, err := background.NewJobScheduler(authSvc, cfg.Jobs.TokenPurgeInterval)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to initialize job scheduler")
	}
	scheduler.Start()

	if cfg.Queue.URL != "" {
		consumer := jobs.NewResetMailConsumer(cfg.Queue.URL, cfg.Queue.ResetQueue, jobs.LogMailer{})
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Log.WithError(err).Error("reset-mail consumer stopped")
			}
		}()
	}

	e := newServer(cfg, deps)

	go func() {
		logger.Log.WithField("port", cfg.Port).Infof("Starting opsmanual API %s", version)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("Server failed")
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("HTTP server shutdown failed")
	}
	if err := scheduler.Stop(); err != nil {
		logger.Log.WithError(err).Error("Job scheduler shutdown failed")
	}
	if err := notifier.Close(); err != nil {
		logger.Log.WithError(err).Warn("Message broker connection close failed")
	}
}

// newStorage returns nil when object storage is not configured or unreachable;
// logo uploads are then rejected.
func newStorage(ctx context.Context, cfg config.StorageConfig) services.StorageService {
	if cfg.Endpoint == "" {
		logger.Log.Warn("MINIO_ENDPOINT not set; logo uploads disabled")
		return nil
	}
	svc, err := services.NewMinioService(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, cfg.Bucket, cfg.UseSSL)
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to initialize MinIO; logo uploads disabled")
		return nil
	}
	bucketCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := svc.EnsureBucketExists(bucketCtx); err != nil {
		logger.Log.WithError(err).Warn("MinIO bucket unavailable; logo uploads disabled")
		return nil
	}
	return svc
}
