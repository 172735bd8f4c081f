package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInMemoryDispatcher_Publish(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())

	var received []Event
	d.Subscribe(EventSessionSignedOut, func(context.Context, Event) error {
		return errors.New("first handler fails")
	})
	d.Subscribe(EventSessionSignedOut, func(_ context.Context, e Event) error {
		received = append(received, e)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventSessionSignedOut, Actor: Actor{UserID: "u1"}}))
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventSessionEstablished}))

	require.Len(t, received, 1)
	assert.NotEmpty(t, received[0].ID)
	assert.False(t, received[0].Timestamp.IsZero())
	assert.Equal(t, "u1", received[0].Actor.UserID)
}
