package queue

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"critique/pkg/logger"
)

// Pusher is the producer-side view of the queue store.
type Pusher interface {
	Push(ctx context.Context, queue, payload string) error
}

// Producer enqueues email jobs from the request path. A push is part of the
// request's success criteria: failures are returned, never swallowed.
type Producer struct {
	pusher Pusher
	logger *zap.Logger
}

func NewProducer(pusher Pusher, logger *zap.Logger) *Producer {
	return &Producer{pusher: pusher, logger: logger}
}

// EnqueueVerification pushes the bare email address onto the verification queue.
func (p *Producer) EnqueueVerification(ctx context.Context, email string) error {
	log := logger.WithTrace(ctx, p.logger).With(zap.String("queue", VerificationQueue))

	if err := p.pusher.Push(ctx, VerificationQueue, email); err != nil {
		log.Error("Failed to enqueue verification email", zap.Error(err))
		return err
	}

	log.Debug("Verification email enqueued")
	return nil
}

// EnqueueWelcome pushes {"email","name"} onto the welcome queue.
func (p *Producer) EnqueueWelcome(ctx context.Context, email, name string) error {
	log := logger.WithTrace(ctx, p.logger).With(zap.String("queue", WelcomeQueue))

	payload, err := EncodeWelcomeJob(WelcomeJob{Email: email, Name: name})
	if err != nil {
		return fmt.Errorf("encode welcome job: %w", err)
	}

	if err := p.pusher.Push(ctx, WelcomeQueue, payload); err != nil {
		log.Error("Failed to enqueue welcome email", zap.Error(err))
		return err
	}

	log.Debug("Welcome email enqueued")
	return nil
}
