package worker

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"critique/internal/domain"
	"critique/internal/queue"
	"critique/pkg/metrics"
)

// DefaultBackoff is the fixed pause after a failed pop before waiting again.
const DefaultBackoff = 5 * time.Second

// DefaultPopTimeout bounds each blocking pop so a half-open connection hits a
// read deadline; an empty result just re-enters the wait.
const DefaultPopTimeout = 5 * time.Second

// State of a consumption loop.
type State int32

const (
	StateStarting State = iota
	StateWaiting
	StateProcessing
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateWaiting:
		return "waiting"
	case StateProcessing:
		return "processing"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Handler processes one popped element. Returned errors are logged by kind;
// they never stop the loop and the element is not re-queued.
type Handler func(ctx context.Context, element string) error

type Popper interface {
	BlockingPop(ctx context.Context, queue string, timeout time.Duration) (queue.PopResult, error)
}

// Loop pops from a single queue until its context is cancelled.
type Loop struct {
	queue      string
	popper     Popper
	handler    Handler
	backoff    time.Duration
	popTimeout time.Duration
	logger     *zap.Logger
	state      atomic.Int32
}

type Option func(*Loop)

// WithBackoff sets the pause after a failed pop.
func WithBackoff(d time.Duration) Option {
	return func(l *Loop) { l.backoff = d }
}

// WithPopTimeout bounds each blocking pop; zero waits indefinitely.
func WithPopTimeout(d time.Duration) Option {
	return func(l *Loop) { l.popTimeout = d }
}

func NewLoop(queueName string, popper Popper, handler Handler, logger *zap.Logger, opts ...Option) *Loop {
	l := &Loop{
		queue:      queueName,
		popper:     popper,
		handler:    handler,
		backoff:    DefaultBackoff,
		popTimeout: DefaultPopTimeout,
		logger:     logger.With(zap.String("queue", queueName)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loop) Queue() string { return l.queue }

func (l *Loop) State() State { return State(l.state.Load()) }

func (l *Loop) setState(s State) { l.state.Store(int32(s)) }

// Run blocks until ctx is cancelled. It should be called in its own goroutine.
func (l *Loop) Run(ctx context.Context) {
	l.logger.Info("Consumer loop started")
	defer func() {
		l.setState(StateStopped)
		l.logger.Info("Consumer loop stopped")
	}()

	for {
		if ctx.Err() != nil {
			return
		}

		l.setState(StateWaiting)
		res, err := l.popper.BlockingPop(ctx, l.queue, l.popTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			metrics.IncrementQueuePopError(l.queue)
			l.logger.Error("Error popping from queue, backing off",
				zap.String("error_kind", domain.KindOf(err).String()),
				zap.Duration("retry_in", l.backoff),
				zap.Error(err),
			)
			if !sleep(ctx, l.backoff) {
				return
			}
			continue
		}
		if res.Empty {
			continue
		}

		// 已出队的任务必须处理完，不受关闭信号影响
		l.process(context.WithoutCancel(ctx), res.Element)
	}
}

func (l *Loop) process(ctx context.Context, element string) {
	l.setState(StateProcessing)
	start := time.Now()
	outcome := "success"

	defer func() {
		// Panic 恢复：单个任务失败不能终止循环
		if r := recover(); r != nil {
			outcome = "panic"
			l.logger.Error("Handler panic recovered, job dropped",
				zap.String("element", element),
				zap.Any("panic", r),
			)
		}
		metrics.RecordJobProcessed(l.queue, outcome, time.Since(start))
	}()

	if err := l.handler(ctx, element); err != nil {
		kind := domain.KindOf(err)
		outcome = kind.String()
		l.logger.Error("Job failed, dropped",
			zap.String("error_kind", outcome),
			zap.String("element", element),
			zap.Error(err),
		)
	}
}

// sleep waits for d or until ctx is done; it reports whether the full delay elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
