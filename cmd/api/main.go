package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"koryob-backend/config"
	_ "koryob-backend/docs" // Important for Swagger
	"koryob-backend/internal/delivery/http/middleware"
	v1 "koryob-backend/internal/delivery/http/v1"
	"koryob-backend/internal/metrics"
	"koryob-backend/internal/repository/kv"
	"koryob-backend/internal/usecase"
	"koryob-backend/pkg/auth"
	"koryob-backend/pkg/database"
	"koryob-backend/pkg/kvstore"
	"koryob-backend/pkg/logger"
	redisclient "koryob-backend/pkg/redis"
	"koryob-backend/pkg/security"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// backend is the durable storage chosen by STORAGE_DRIVER.
type backend struct {
	storage  kvstore.Storage
	probe    usecase.StorageProbe
	scripter goredis.Scripter // nil unless Redis is available for rate limiting
	close    func()
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.StorageDriver {
	case config.StorageRedis:
		client, err := redisclient.NewClient(ctx, redisclient.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			return nil, err
		}
		return &backend{
			storage:  kvstore.New(kvstore.NewRedisBackend(client, cfg.StoragePrefix)),
			probe:    func(ctx context.Context) error { return client.Ping(ctx).Err() },
			scripter: client,
			close:    func() { _ = client.Close() },
		}, nil

	case config.StoragePostgres:
		if err := database.RunMigrations(cfg.DBUrl); err != nil {
			return nil, err
		}
		pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return &backend{
			storage: kvstore.New(kvstore.NewPostgresBackend(pool, cfg.StoragePrefix)),
			probe:   pool.Ping,
			close:   pool.Close,
		}, nil

	case config.StorageS3:
		client, err := kvstore.NewS3Client(ctx, kvstore.S3ClientConfig{
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
		})
		if err != nil {
			return nil, err
		}
		bucket := cfg.S3Bucket
		return &backend{
			storage: kvstore.New(kvstore.NewS3Backend(client, bucket, cfg.StoragePrefix)),
			probe: func(ctx context.Context) error {
				_, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
				return err
			},
			close: func() {},
		}, nil

	default:
		logger.Log.Warn("Using in-memory storage; data is lost on restart")
		return &backend{storage: kvstore.NewMemory(), close: func() {}}, nil
	}
}

// @title           Koryob API
// @version         1.0
// @description     Job board backend: accounts, job postings, per-job messaging and saved jobs.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey ClientToken
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger and error reporting
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting koryob backend", "port", cfg.Port, "storage", cfg.StorageDriver)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			logger.Log.Error("Failed to initialize Sentry", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// 3. Setup Storage
	ctx := context.Background()
	store, err := openBackend(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to open storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer store.close()

	// 4. Setup Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	// 5. Setup Repositories
	userRepo := kv.NewUserRepository(store.storage, collector)
	jobRepo := kv.NewJobRepository(store.storage, collector)
	messageRepo := kv.NewMessageRepository(store.storage, collector)
	savedJobRepo := kv.NewSavedJobRepository(store.storage, collector)

	// 6. Setup UseCases
	// A store that cannot read its collection must not start and overwrite it.
	authUC, err := usecase.NewAuthUsecase(ctx, userRepo, bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("Failed to initialize auth store", "error", err)
		os.Exit(1)
	}
	jobUC, err := usecase.NewJobUsecase(ctx, jobRepo, authUC)
	if err != nil {
		logger.Log.Error("Failed to initialize job store", "error", err)
		os.Exit(1)
	}
	messageUC, err := usecase.NewMessageUsecase(ctx, messageRepo, authUC)
	if err != nil {
		logger.Log.Error("Failed to initialize message store", "error", err)
		os.Exit(1)
	}
	conversationUC := usecase.NewConversationUsecase(authUC, jobUC, messageUC)
	savedJobUC := usecase.NewSavedJobUsecase(savedJobRepo)
	healthUC := usecase.NewHealthUsecase(cfg.StorageDriver, store.probe)

	// 7. Setup client identity and rate limiting
	clientTokens := auth.NewClientTokens(cfg.ClientTokenSecret, time.Duration(cfg.ClientTokenTTLHours)*time.Hour)
	authLimiter := middleware.NewRateLimiter(middleware.AuthRateLimitConfig(cfg.AuthRatePerMinute, cfg.AuthRateBurst), store.scripter)
	defer authLimiter.Stop()

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:         authUC,
		JobUC:          jobUC,
		MessageUC:      messageUC,
		ConversationUC: conversationUC,
		SavedJobUC:     savedJobUC,
		HealthUC:       healthUC,
		ClientTokens:   clientTokens,
		AuthLimiter:    authLimiter,
		Sanitizer:      security.NewTextSanitizer(),
		Metrics:        collector,
		MetricsHandler: metrics.Handler(reg),
		Config:         cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
