package email

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitedSender blocks until the provider quota grants a token.
type RateLimitedSender struct {
	next    Sender
	limiter *rate.Limiter
}

func NewRateLimitedSender(next Sender, perSecond float64) *RateLimitedSender {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedSender{next: next, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (s *RateLimitedSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return s.next.Send(ctx, msg)
}

type timeoutSender struct {
	next    Sender
	timeout time.Duration
}

func (s *timeoutSender) Send(ctx context.Context, msg Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.next.Send(ctx, msg)
}
