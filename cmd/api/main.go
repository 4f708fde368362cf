package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"critique/internal/config"
	"critique/internal/handler"
	"critique/internal/httpserver"
	"critique/internal/queue"
	"critique/internal/repository"
	"critique/internal/service/auth"
	"critique/internal/service/review"
	"critique/internal/service/website"
	"critique/internal/storage"
	"critique/pkg/db"
	"critique/pkg/logger"
	redisclient "critique/pkg/redis"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logger.NewLogger(cfg.App.LogLevel)
	defer logger.Sync()

	if cfg.App.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init DB
	if err := db.Migrate(cfg.DB.DSN()); err != nil {
		logger.Fatal("DB migration failed", zap.Error(err))
	}
	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// Init Redis（连接失败会持续重试）
	rdb, err := redisclient.Connect(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("Redis initialization aborted", zap.Error(err))
	}
	defer rdb.Close()

	// Init Storage
	presigner, err := storage.NewS3Presigner(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Fatal("Storage initialization failed", zap.Error(err))
	}

	// Init Services
	queueClient := queue.NewClient(rdb)
	producer := queue.NewProducer(queueClient, logger)
	userRepo := repository.NewUserRepository(dbConn)
	websiteRepo := repository.NewWebsiteRepository(dbConn)
	reviewRepo := repository.NewReviewRepository(dbConn)
	authService := auth.NewService(userRepo, producer, cfg.JWT.Secret, logger)
	websiteService := website.NewService(websiteRepo, logger)
	reviewService := review.NewService(reviewRepo, userRepo, logger)

	// Init Handlers
	authHandler := handler.NewAuthHandler(authService, cfg.App.Production, logger)
	emailHandler := handler.NewEmailHandler(authService, logger)
	uploadHandler := handler.NewUploadHandler(presigner, logger)
	websiteHandler := handler.NewWebsiteHandler(websiteService, logger)
	reviewHandler := handler.NewReviewHandler(reviewService, logger)

	// Router
	router := httpserver.NewRouter(authHandler, emailHandler, uploadHandler, websiteHandler, reviewHandler, httpserver.Options{
		JWTSecret:   cfg.JWT.Secret,
		FrontendURL: cfg.App.FrontendURL,
		Checks: []httpserver.ReadinessCheck{
			{Name: "db", Check: dbConn.Ping},
			{Name: "redis", Check: queueClient.Ping},
		},
	})

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           router.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting API server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	<-ctx.Done()
	logger.Info("Shutting down API server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	logger.Info("API server shutdown complete")
}
