// Package email composes and dispatches the application's
// transactional account emails.
package email

import "context"

// Message is a single plain-text transactional email.
type Message struct {
	To      string
	From    string
	Subject string
	Text    string
}

// Sender delivers a message through a mail provider. Implementations
// live under internal/platform; tests substitute fakes.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
