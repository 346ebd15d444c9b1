package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atvirokodosprendimai/eventdesk/internal/adapters/storetest"
	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
	"github.com/atvirokodosprendimai/eventdesk/internal/core/ports"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) ports.Store { return NewStore() })
}

func TestReadTXRejectsWrites(t *testing.T) {
	store := NewStore()
	err := store.ReadTX(context.Background(), func(c ports.Collections) error {
		return c.PrependEvent(storetest.SampleEvent("e1", "x"))
	})
	require.ErrorIs(t, err, errReadOnly)
}

func TestReadsAreDetachedCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.WriteTX(ctx, func(c ports.Collections) error {
		return c.PrependEvent(storetest.SampleEvent("e1", "Original"))
	}))

	var got domain.Event
	require.NoError(t, store.ReadTX(ctx, func(c ports.Collections) error {
		var err error
		got, err = c.Event("e1")
		return err
	}))
	got.Participants[0].Name = "Alterado"
	*got.MaxParticipants = 1

	require.NoError(t, store.ReadTX(ctx, func(c ports.Collections) error {
		again, err := c.Event("e1")
		require.NoError(t, err)
		require.Equal(t, "João", again.Participants[0].Name)
		require.Equal(t, 40, *again.MaxParticipants)
		return nil
	}))
}

func TestCanceledContext(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, store.WriteTX(ctx, func(ports.Collections) error { return nil }), context.Canceled)
	require.ErrorIs(t, store.ReadTX(ctx, func(ports.Collections) error { return nil }), context.Canceled)
}
