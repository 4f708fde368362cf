package email

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"critique/internal/domain"
	"critique/internal/util"
	"critique/pkg/logger"
	"critique/pkg/metrics"
)

// Confirmation is returned when the provider accepted a send.
type Confirmation struct {
	MessageID string
	Message   string
}

type ServiceConfig struct {
	// Provider name, used only as a metrics label.
	Provider  string
	From      string
	ServerURL string
	JWTSecret string
}

// Service turns "send X to Y" intents into provider calls. Required fields are
// checked before any token is minted or any network call is made. No retries.
type Service struct {
	sender Sender
	cfg    ServiceConfig
	logger *zap.Logger
}

func NewService(sender Sender, cfg ServiceConfig, logger *zap.Logger) *Service {
	if cfg.Provider == "" {
		cfg.Provider = "resend"
	}
	return &Service{sender: sender, cfg: cfg, logger: logger}
}

// SendVerificationEmail mails a link carrying a 10 minute verification token.
func (s *Service) SendVerificationEmail(ctx context.Context, email string) (*Confirmation, error) {
	const op = "email.SendVerificationEmail"

	if email == "" {
		return nil, domain.ValidationError(op, "Email is required")
	}

	token, err := util.GenerateVerificationToken(email, s.cfg.JWTSecret, util.VerificationTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: sign token: %w", op, err)
	}

	verifyURL := strings.TrimRight(s.cfg.ServerURL, "/") + "/verify-email?token=" + url.QueryEscape(token)

	id, err := s.send(ctx, Message{
		From:    s.cfg.From,
		To:      []string{email},
		Subject: verificationSubject,
		HTML:    RenderVerificationEmail(verifyURL),
	})
	if err != nil {
		return nil, domain.DispatchError(op, err)
	}

	return &Confirmation{
		MessageID: id,
		Message:   "Verification email sent successfully",
	}, nil
}

// SendWelcomeEmail mails the static welcome message.
func (s *Service) SendWelcomeEmail(ctx context.Context, email, name string) (*Confirmation, error) {
	const op = "email.SendWelcomeEmail"

	if email == "" || name == "" {
		return nil, domain.ValidationError(op, "Email or username is required")
	}

	id, err := s.send(ctx, Message{
		From:    s.cfg.From,
		To:      []string{email},
		Subject: welcomeSubject,
		HTML:    RenderWelcomeEmail(name),
	})
	if err != nil {
		return nil, domain.DispatchError(op, err)
	}

	return &Confirmation{
		MessageID: id,
		Message:   "Welcome email sent successfully",
	}, nil
}

func (s *Service) send(ctx context.Context, msg Message) (string, error) {
	start := time.Now()
	id, err := s.sender.Send(ctx, msg)

	status := "success"
	if err != nil {
		status = "failed"
		logger.WithTrace(ctx, s.logger).Warn("Email provider rejected send",
			zap.String("provider", s.cfg.Provider),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
	}
	metrics.RecordEmailSendLatency(s.cfg.Provider, status, time.Since(start))

	return id, err
}
