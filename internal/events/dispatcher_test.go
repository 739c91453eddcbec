package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInMemoryDispatcher(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers only to matching subscribers", func(t *testing.T) {
		d := NewInMemoryDispatcher()
		var got []EventType
		d.Subscribe(EventAgentStatusChanged, func(_ context.Context, e Event) error {
			got = append(got, e.Type)
			return nil
		})

		require.NoError(t, d.Publish(ctx, Event{Type: EventAgentPINChanged}))
		require.NoError(t, d.Publish(ctx, Event{Type: EventAgentStatusChanged, AgentID: 7}))
		require.Equal(t, []EventType{EventAgentStatusChanged}, got)
	})

	t.Run("failing handler does not stop the others", func(t *testing.T) {
		d := NewInMemoryDispatcher()
		boom := errors.New("boom")
		calls := 0
		d.Subscribe(EventAgentStatusChanged, func(context.Context, Event) error {
			calls++
			return boom
		})
		d.Subscribe(EventAgentStatusChanged, func(context.Context, Event) error {
			calls++
			return nil
		})

		err := d.Publish(ctx, Event{Type: EventAgentStatusChanged})
		require.ErrorIs(t, err, boom)
		require.Equal(t, 2, calls)
	})
}
