package mqhandler

import (
	"context"

	"go.uber.org/zap"

	"critique/internal/email"
)

type VerificationSender interface {
	SendVerificationEmail(ctx context.Context, email string) (*email.Confirmation, error)
}

// VerificationHandler consumes verification-queue elements (bare email addresses).
type VerificationHandler struct {
	sender VerificationSender
	logger *zap.Logger
}

func NewVerificationHandler(sender VerificationSender, logger *zap.Logger) *VerificationHandler {
	return &VerificationHandler{sender: sender, logger: logger}
}

func (h *VerificationHandler) Handle(ctx context.Context, element string) error {
	conf, err := h.sender.SendVerificationEmail(ctx, element)
	if err != nil {
		return err
	}

	h.logger.Info("Email sent successfully",
		zap.String("kind", "verification"),
		zap.String("email", element),
		zap.String("message_id", conf.MessageID),
	)
	return nil
}
