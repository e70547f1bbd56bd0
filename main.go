package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"parkshare/internal/api"
	"parkshare/internal/api/handler"
	"parkshare/internal/api/middleware"
	"parkshare/internal/cache"
	"parkshare/internal/config"
	"parkshare/internal/events"
	"parkshare/internal/identity"
	"parkshare/internal/logging"
	"parkshare/internal/queue"
	"parkshare/internal/repository/postgresql"
	"parkshare/internal/service"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.NewLogger("error").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg.LogLevel)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// 2. Database
	db, err := postgresql.NewDB(cfg)
	if err != nil {
		logger.Error("connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := postgresql.Migrate(rootCtx, db); err != nil {
		logger.Error("migrate schema", "error", err)
		os.Exit(1)
	}
	logger.Info("database ready", "driver", cfg.DBDriver, "host", cfg.DBHost, "name", cfg.DBName)

	// 3. Identity provider
	var verifier identity.Verifier
	switch cfg.IdentityProvider {
	case "firebase":
		verifier, err = identity.NewFirebaseVerifier(rootCtx, identity.FirebaseConfig{
			ProjectID:          cfg.FirebaseProjectID,
			ServiceAccountJSON: cfg.FirebaseServiceAccount,
			CredentialsFile:    cfg.FirebaseCredentialsFile,
		}, logger)
		if err != nil {
			logger.Error("init firebase verifier", "error", err)
			os.Exit(1)
		}
	default:
		verifier = identity.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	}
	logger.Info("identity provider ready", "provider", cfg.IdentityProvider)

	// 4. Spot cache
	var spotCache cache.SpotCache = cache.NopSpotCache{}
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := redisClient.Ping(rootCtx).Err(); err != nil {
			logger.Warn("redis unreachable, spot cache will miss until it recovers", "addr", cfg.RedisAddr, "error", err)
		}
		spotCache = cache.NewRedisSpotCache(redisClient, cfg.SpotCacheTTL)
	}

	// 5. Booking event sinks
	wsManager := handler.NewWebSocketManager(logger)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		wsManager.Start(rootCtx)
	}()

	notifiers := events.Multi{wsManager}
	var kafkaPublisher *events.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger.With("component", "kafka"))
		notifiers = append(notifiers, kafkaPublisher)
		logger.Info("publishing booking events", "topic", cfg.KafkaTopic)
	}

	// 6. Repositories and services
	userRepo := postgresql.NewPgUserRepository(db)
	spotRepo := postgresql.NewPgParkingSpotRepository(db)
	bookingRepo := postgresql.NewPgBookingRepository(db)

	userService := service.NewUserService(userRepo, verifier, logger)
	spotService := service.NewSpotService(spotRepo, spotCache, logger)
	bookingService := service.NewBookingService(bookingRepo, spotRepo, notifiers, logger)

	// 7. Completion queue consumer
	if cfg.SQSCompletionQueueURL == "" {
		logger.Info("SQS_COMPLETION_QUEUE_URL not set, completion consumer disabled")
	} else {
		awsCfg, err := awsconfig.LoadDefaultConfig(rootCtx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("load aws config", "error", err)
			os.Exit(1)
		}
		consumer := queue.NewCompletionConsumer(sqs.NewFromConfig(awsCfg), cfg.SQSCompletionQueueURL, bookingService, logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			consumer.Start(rootCtx)
		}()
	}

	// 8. HTTP server
	router := api.SetupRouter(api.Dependencies{
		UserService:     userService,
		SpotService:     spotService,
		BookingService:  bookingService,
		AuthMiddleware:  middleware.NewAuthMiddleware(verifier),
		WSManager:       wsManager,
		Logger:          logger,
		CORSAllowOrigin: cfg.CORSAllowOrigin,
	})
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen", "error", err)
			stop()
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	case <-rootCtx.Done():
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		wg.Wait()
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("background workers did not stop in time")
	}

	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Warn("close kafka writer", "error", err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Warn("close redis client", "error", err)
		}
	}
	logger.Info("server stopped")
}
