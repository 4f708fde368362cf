package redis

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"critique/pkg/config"
)

// DefaultConnectRetry 启动阶段连接失败后的固定重试间隔
const DefaultConnectRetry = 5 * time.Second

// NewRedisClient 创建 Redis 客户端（不检查连通性）
func NewRedisClient(cfg config.RedisConfig, logger *zap.Logger) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	rdb.AddHook(&connHook{logger: logger})
	return rdb
}

// Connect 创建客户端并等待 Redis 可用
// 连接失败不会退出进程，而是间隔 ConnectRetry 后重试，直到成功或 ctx 取消
func Connect(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	retry := cfg.ConnectRetry
	if retry <= 0 {
		retry = DefaultConnectRetry
	}

	rdb := NewRedisClient(cfg, logger)
	for attempt := 1; ; attempt++ {
		err := rdb.Ping(ctx).Err()
		if err == nil {
			logger.Info("Redis client connected", zap.String("addr", cfg.Addr))
			return rdb, nil
		}

		logger.Error("Redis connection failed, retrying",
			zap.String("addr", cfg.Addr),
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", retry),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			_ = rdb.Close()
			return nil, ctx.Err()
		case <-time.After(retry):
		}
	}
}

// connHook 记录连接丢失与恢复；重连本身交给 go-redis 连接池
type connHook struct {
	logger *zap.Logger
	down   atomic.Bool
}

func (h *connHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			if !h.down.Swap(true) {
				h.logger.Error("Redis client error", zap.String("addr", addr), zap.Error(err))
			}
			return nil, err
		}
		if h.down.Swap(false) {
			h.logger.Info("Redis client reconnected", zap.String("addr", addr))
		}
		return conn, nil
	}
}

func (h *connHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return next
}

func (h *connHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}
