package notify

import (
	"context"
	"testing"

	"github.com/merial523/graduate-git/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFallsBackToLog(t *testing.T) {
	n := New(config.MailConfig{})
	_, ok := n.(LogNotifier)
	require.True(t, ok)
	assert.NoError(t, n.Send(context.Background(), "a@example.com", "subject", "body"))
}

func TestNewUsesSMTPWhenConfigured(t *testing.T) {
	n := New(config.MailConfig{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"})
	_, ok := n.(*SMTPNotifier)
	assert.True(t, ok)
}

func TestSMTPNotifierRejectsBadAddress(t *testing.T) {
	n := NewSMTPNotifier(config.MailConfig{Host: "localhost", Port: 2525, From: "noreply@example.com"})
	err := n.Send(context.Background(), "not an address", "s", "b")
	assert.Error(t, err)
}

func TestRecorder(t *testing.T) {
	r := &Recorder{FailFor: map[string]bool{"bad@example.com": true}}
	ctx := context.Background()

	assert.NoError(t, r.Send(ctx, "ok@example.com", "s", "b"))
	assert.Error(t, r.Send(ctx, "bad@example.com", "s", "b"))
	assert.Len(t, r.Sent(), 2)
}
