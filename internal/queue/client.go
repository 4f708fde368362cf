package queue

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"critique/internal/domain"
	"critique/pkg/metrics"
)

// Queue names shared by the API (producer) and the worker (consumer).
const (
	VerificationQueue = "email_verification_queue"
	WelcomeQueue      = "user_welcome_email_queue"
)

// PopResult is the outcome of a blocking pop. Empty is set when the timeout
// elapsed before an element became available.
type PopResult struct {
	Queue   string
	Element string
	Empty   bool
}

// Client is a FIFO hand-off over Redis lists: RPUSH at the tail, BLPOP from the head.
// Reconnection is left to the go-redis connection pool.
type Client struct {
	rdb *redis.Client
}

func NewClient(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// Push appends payload to the tail of queue.
func (c *Client) Push(ctx context.Context, queue, payload string) error {
	err := c.rdb.RPush(ctx, queue, payload).Err()
	metrics.IncrementQueuePush(queue, err == nil)
	if err != nil {
		return domain.ConnectionError("queue.Push", err)
	}
	return nil
}

// BlockingPop removes and returns the head of queue, waiting up to timeout.
// A zero timeout waits indefinitely.
func (c *Client) BlockingPop(ctx context.Context, queue string, timeout time.Duration) (PopResult, error) {
	res, err := c.rdb.BLPop(ctx, timeout, queue).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return PopResult{Queue: queue, Empty: true}, nil
		}
		if ctx.Err() != nil {
			return PopResult{}, ctx.Err()
		}
		return PopResult{}, domain.ConnectionError("queue.BlockingPop", err)
	}

	// res[0] = key, res[1] = element
	if len(res) != 2 {
		return PopResult{}, domain.ConnectionError("queue.BlockingPop", errors.New("unexpected BLPOP reply"))
	}
	return PopResult{Queue: res[0], Element: res[1]}, nil
}

// Len returns the number of waiting elements and updates the depth gauge.
func (c *Client) Len(ctx context.Context, queue string) (int64, error) {
	n, err := c.rdb.LLen(ctx, queue).Result()
	if err != nil {
		return 0, domain.ConnectionError("queue.Len", err)
	}
	metrics.SetQueueDepth(queue, n)
	return n, nil
}

// Ping reports whether the queue store is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return domain.ConnectionError("queue.Ping", err)
	}
	return nil
}
