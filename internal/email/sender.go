package email

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"critique/pkg/config"
)

// Message is a single outbound email handed to a provider.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Sender abstracts the transactional email provider. Implementations make one
// attempt and return the provider's message ID.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// NewSender builds the provider selected by cfg.Provider, wrapped in a rate
// limiter when cfg.RateLimitPerSecond is set.
func NewSender(cfg config.EmailConfig, logger *zap.Logger) (Sender, error) {
	var s Sender
	switch strings.ToLower(cfg.Provider) {
	case "", "resend":
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("RESEND_API_KEY is required")
		}
		s = NewResendSender(cfg.ResendAPIKey)
	case "mailgun":
		if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" {
			return nil, fmt.Errorf("MAILGUN_DOMAIN and MAILGUN_API_KEY are required")
		}
		s = NewMailgunSender(cfg.MailgunDomain, cfg.MailgunAPIKey)
	case "log":
		s = NewLogSender(logger)
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Provider)
	}

	if cfg.SendTimeout > 0 {
		s = &timeoutSender{next: s, timeout: cfg.SendTimeout}
	}
	if cfg.RateLimitPerSecond > 0 {
		s = NewRateLimitedSender(s, cfg.RateLimitPerSecond)
	}
	return s, nil
}
