package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// sendTimeout bounds a single delivery attempt. The goroutine carries
// its own context so a send outlives the originating request.
const sendTimeout = 30 * time.Second

// Notifier is the surface handlers use to trigger account emails.
// Both calls are fire-and-forget: they return before delivery is
// attempted and never report an outcome.
type Notifier interface {
	SendWelcome(email, name string)
	SendCancellation(email, name string)
}

// AccountNotifier composes the fixed welcome/cancellation templates and
// hands them to a Sender asynchronously. Delivery failures are logged
// and otherwise dropped; there are no retries and no confirmation.
type AccountNotifier struct {
	sender Sender
	from   string
	logger *slog.Logger
}

// NewAccountNotifier creates an AccountNotifier sending from the given
// address.
func NewAccountNotifier(sender Sender, from string, logger *slog.Logger) *AccountNotifier {
	if logger == nil {
		logger = slog.Default()
	}

	return &AccountNotifier{
		sender: sender,
		from:   from,
		logger: logger.With(slog.String("component", "account_notifier")),
	}
}

// Ensure AccountNotifier implements Notifier interface
var _ Notifier = (*AccountNotifier)(nil)

// SendWelcome dispatches the registration welcome email.
func (n *AccountNotifier) SendWelcome(email, name string) {
	n.dispatch(Message{
		To:      email,
		From:    n.from,
		Subject: "Welcome to the app!",
		Text:    fmt.Sprintf("Welcome %s, we're very happy to have you among us.", name),
	})
}

// SendCancellation dispatches the account-closure email.
func (n *AccountNotifier) SendCancellation(email, name string) {
	n.dispatch(Message{
		To:      email,
		From:    n.from,
		Subject: "We are sad to see you go",
		Text: fmt.Sprintf(
			"Hello %s, can you let us know how we disappointed you, so we can do better next time? Thank you for being with us so far.",
			name,
		),
	})
}

func (n *AccountNotifier) dispatch(msg Message) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := n.sender.Send(ctx, msg); err != nil {
			n.logger.Error("failed to send account email",
				slog.String("error", err.Error()),
				slog.String("subject", msg.Subject))
		}
	}()
}
