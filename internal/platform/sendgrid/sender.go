// Package sendgrid implements the email.Sender interface on the
// SendGrid v3 mail API.
package sendgrid

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/tasknest/tasknest-api/internal/email"
)

// Sender sends plain-text mail through SendGrid.
type Sender struct {
	client *sendgrid.Client
	logger *slog.Logger
}

// NewSender creates a SendGrid-backed sender with the given API key.
func NewSender(apiKey string, logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}

	return &Sender{
		client: sendgrid.NewSendClient(apiKey),
		logger: logger.With(slog.String("component", "sendgrid_sender")),
	}
}

// Ensure Sender implements email.Sender interface
var _ email.Sender = (*Sender)(nil)

// Send delivers the message. SendGrid acknowledges accepted mail with
// 202; any other status is reported as an error.
func (s *Sender) Send(ctx context.Context, msg email.Message) error {
	m := mail.NewSingleEmail(
		mail.NewEmail("", msg.From),
		msg.Subject,
		mail.NewEmail("", msg.To),
		msg.Text,
		"",
	)

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}

	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("sendgrid send rejected with status %d", resp.StatusCode)
	}

	s.logger.Debug("email accepted by sendgrid",
		slog.String("subject", msg.Subject))
	return nil
}

// LogSender is the no-delivery fallback used when no SendGrid key is
// configured: it records the message in the application log and drops
// it.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger.With(slog.String("component", "log_sender"))}
}

// Ensure LogSender implements email.Sender interface
var _ email.Sender = (*LogSender)(nil)

// Send logs the message instead of delivering it.
func (s *LogSender) Send(_ context.Context, msg email.Message) error {
	s.logger.Info("email delivery disabled, dropping message",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject))
	return nil
}
