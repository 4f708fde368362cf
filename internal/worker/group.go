package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Group runs each loop in its own goroutine so a stalled queue never blocks another.
type Group struct {
	loops  []*Loop
	wg     sync.WaitGroup
	logger *zap.Logger
}

func NewGroup(logger *zap.Logger, loops ...*Loop) *Group {
	return &Group{loops: loops, logger: logger}
}

// Start launches every loop. Cancel ctx to stop them, then call Wait.
func (g *Group) Start(ctx context.Context) {
	for _, l := range g.loops {
		g.wg.Add(1)
		go func(l *Loop) {
			defer g.wg.Done()
			l.Run(ctx)
		}(l)
	}
	g.logger.Info("All consumer loops started", zap.Int("count", len(g.loops)))
}

// Wait blocks until all loops have returned.
func (g *Group) Wait() {
	g.wg.Wait()
}

// Lengther reports queue depth.
type Lengther interface {
	Len(ctx context.Context, queue string) (int64, error)
}

// ReportDepth samples queue lengths every interval until ctx is cancelled.
func ReportDepth(ctx context.Context, l Lengther, queues []string, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, q := range queues {
				if _, err := l.Len(ctx, q); err != nil && ctx.Err() == nil {
					logger.Warn("Failed to sample queue depth", zap.String("queue", q), zap.Error(err))
				}
			}
		}
	}
}
