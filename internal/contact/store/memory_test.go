package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formgate/internal/contact/models"
)

func newTestMessage(t *testing.T) *models.Message {
	t.Helper()
	msg, err := models.NewMessage(
		"Jo", "jo@example.com", "Hello there, this is a test.",
		"203.0.113.0", "Chrome on macOS", time.Now(),
	)
	require.NoError(t, err)
	return msg
}

func TestInMemoryMessageStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create and find", func(t *testing.T) {
		s := NewInMemoryMessageStore()
		msg := newTestMessage(t)

		require.NoError(t, s.Create(ctx, msg))
		assert.Equal(t, 1, s.Count(ctx))

		found, err := s.FindByID(ctx, msg.ID)
		require.NoError(t, err)
		assert.Equal(t, msg, found)
	})

	t.Run("find missing returns ErrNotFound", func(t *testing.T) {
		s := NewInMemoryMessageStore()
		_, err := s.FindByID(ctx, "missing")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestNewMessageInvariants(t *testing.T) {
	_, err := models.NewMessage("", "jo@example.com", "body text here", "", "", time.Now())
	assert.Error(t, err)

	_, err = models.NewMessage("Jo", "jo@example.com", "body text here", "", "", time.Time{})
	assert.Error(t, err)
}
