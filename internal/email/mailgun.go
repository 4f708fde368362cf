package email

import (
	"context"

	"github.com/mailgun/mailgun-go/v4"
)

// MailgunSender sends through the Mailgun API.
type MailgunSender struct {
	client *mailgun.MailgunImpl
}

func NewMailgunSender(domain, apiKey string) *MailgunSender {
	return &MailgunSender{client: mailgun.NewMailgun(domain, apiKey)}
}

func (s *MailgunSender) Send(ctx context.Context, msg Message) (string, error) {
	message := s.client.NewMessage(msg.From, msg.Subject, "", msg.To...)
	message.SetHtml(msg.HTML)

	_, id, err := s.client.Send(ctx, message)
	if err != nil {
		return "", err
	}
	return id, nil
}
