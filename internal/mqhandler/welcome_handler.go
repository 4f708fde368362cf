package mqhandler

import (
	"context"

	"go.uber.org/zap"

	"critique/internal/email"
	"critique/internal/queue"
)

type WelcomeSender interface {
	SendWelcomeEmail(ctx context.Context, email, name string) (*email.Confirmation, error)
}

// WelcomeHandler consumes welcome-queue elements ({"email","name"} JSON).
type WelcomeHandler struct {
	sender WelcomeSender
	logger *zap.Logger
}

func NewWelcomeHandler(sender WelcomeSender, logger *zap.Logger) *WelcomeHandler {
	return &WelcomeHandler{sender: sender, logger: logger}
}

// Handle returns a parse error for malformed JSON; the loop logs and drops it.
func (h *WelcomeHandler) Handle(ctx context.Context, element string) error {
	job, err := queue.DecodeWelcomeJob(element)
	if err != nil {
		return err
	}

	conf, err := h.sender.SendWelcomeEmail(ctx, job.Email, job.Name)
	if err != nil {
		return err
	}

	h.logger.Info("Email sent successfully",
		zap.String("kind", "welcome"),
		zap.String("email", job.Email),
		zap.String("message_id", conf.MessageID),
	)
	return nil
}
