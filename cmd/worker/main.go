package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"critique/internal/config"
	"critique/internal/email"
	"critique/internal/httpserver"
	"critique/internal/mqhandler"
	"critique/internal/queue"
	"critique/internal/worker"
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

	logger.Info("Starting email worker...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init Redis（启动阶段连接失败会持续重试，不退出）
	rdb, err := redisclient.Connect(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Info("Shutdown requested before Redis became available", zap.Error(err))
		return
	}
	queueClient := queue.NewClient(rdb)

	// Init Email
	sender, err := email.NewSender(cfg.Email, logger)
	if err != nil {
		logger.Fatal("Email sender initialization failed", zap.Error(err))
	}
	emailService := email.NewService(sender, email.ServiceConfig{
		Provider:  cfg.Email.Provider,
		From:      cfg.Email.From,
		ServerURL: cfg.App.ServerURL,
		JWTSecret: cfg.JWT.Secret,
	}, logger)

	// Init Handlers
	verificationHandler := mqhandler.NewVerificationHandler(emailService, logger)
	welcomeHandler := mqhandler.NewWelcomeHandler(emailService, logger)

	// 每个队列一个独立循环
	opts := []worker.Option{
		worker.WithBackoff(cfg.Worker.Backoff),
		worker.WithPopTimeout(cfg.Worker.PopTimeout),
	}
	group := worker.NewGroup(logger,
		worker.NewLoop(queue.VerificationQueue, queueClient, verificationHandler.Handle, logger, opts...),
		worker.NewLoop(queue.WelcomeQueue, queueClient, welcomeHandler.Handle, logger, opts...),
	)
	group.Start(ctx)

	go worker.ReportDepth(ctx, queueClient,
		[]string{queue.VerificationQueue, queue.WelcomeQueue}, cfg.Worker.DepthInterval, logger)

	// HTTP Server (for health checks)
	srv := &http.Server{
		Addr: cfg.Worker.HealthPort,
		Handler: httpserver.HealthEngine([]httpserver.ReadinessCheck{
			{Name: "redis", Check: queueClient.Ping},
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Health server starting", zap.String("port", cfg.Worker.HealthPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health server failed", zap.Error(err))
		}
	}()

	logger.Info("Email worker is ready to process jobs")

	// Graceful shutdown
	<-ctx.Done()
	logger.Info("Shutting down email worker gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Health server shutdown error", zap.Error(err))
	}

	// 关闭客户端以打断无限期阻塞的 BLPOP；正在处理的任务会先完成
	if err := rdb.Close(); err != nil {
		logger.Warn("Redis close error", zap.Error(err))
	}
	group.Wait()

	logger.Info("Email worker shutdown complete")
}
