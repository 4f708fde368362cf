package email

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"critique/pkg/trace"
)

// LogSender writes emails to the log instead of delivering them. Local use only.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) (string, error) {
	id := trace.NewID()
	s.logger.Info("Email (log provider)",
		zap.String("message_id", id),
		zap.String("from", msg.From),
		zap.String("to", strings.Join(msg.To, ",")),
		zap.String("subject", msg.Subject),
		zap.Int("html_size", len(msg.HTML)),
	)
	return id, nil
}
