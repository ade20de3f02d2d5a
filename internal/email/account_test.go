package email

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSender captures sent messages and signals each delivery so
// tests can wait for the fire-and-forget goroutine.
type recordingSender struct {
	mu       sync.Mutex
	messages []Message
	err      error
	sent     chan struct{}
}

func newRecordingSender(err error) *recordingSender {
	return &recordingSender{
		err:  err,
		sent: make(chan struct{}, 8),
	}
}

func (s *recordingSender) Send(_ context.Context, msg Message) error {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	s.sent <- struct{}{}
	return s.err
}

func (s *recordingSender) waitForSend(t *testing.T) Message {
	t.Helper()

	select {
	case <-s.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for email send")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.messages)
	return s.messages[len(s.messages)-1]
}

func TestSendWelcome(t *testing.T) {
	t.Parallel()

	sender := newRecordingSender(nil)
	notifier := NewAccountNotifier(sender, "noreply@tasknest.dev", nil)

	notifier.SendWelcome("ada@example.com", "Ada")

	msg := sender.waitForSend(t)
	assert.Equal(t, "ada@example.com", msg.To)
	assert.Equal(t, "noreply@tasknest.dev", msg.From)
	assert.Equal(t, "Welcome to the app!", msg.Subject)
	assert.Contains(t, msg.Text, "Welcome Ada")
}

func TestSendCancellation(t *testing.T) {
	t.Parallel()

	sender := newRecordingSender(nil)
	notifier := NewAccountNotifier(sender, "noreply@tasknest.dev", nil)

	notifier.SendCancellation("ada@example.com", "Ada")

	msg := sender.waitForSend(t)
	assert.Equal(t, "ada@example.com", msg.To)
	assert.Equal(t, "We are sad to see you go", msg.Subject)
	assert.Contains(t, msg.Text, "Hello Ada")
}

// A failing sender must never surface to the caller; the notifier only
// logs the failure.
func TestSendFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	sender := newRecordingSender(errors.New("smtp unavailable"))
	notifier := NewAccountNotifier(sender, "noreply@tasknest.dev", nil)

	assert.NotPanics(t, func() {
		notifier.SendWelcome("ada@example.com", "Ada")
		sender.waitForSend(t)
	})
}
