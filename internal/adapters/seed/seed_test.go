package seed

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atvirokodosprendimai/eventdesk/internal/adapters/memory"
	"github.com/atvirokodosprendimai/eventdesk/internal/core/ports"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func TestGenerateIsRepeatable(t *testing.T) {
	a := Generate(Config{Seed: 42, Events: 5, Now: now})
	b := Generate(Config{Seed: 42, Events: 5, Now: now})
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("same seed produced different data (-a +b):\n%s", diff)
	}
}

func TestGenerateShapesEvents(t *testing.T) {
	ds := Generate(Config{Seed: 7, Events: DefaultEvents, Now: now})

	require.Len(t, ds.Users, 4)
	require.Len(t, ds.Events, DefaultEvents)
	require.Len(t, ds.Notifications, DefaultNotifications)
	require.Len(t, ds.AuditLogs, DefaultAuditLogs)

	for _, e := range ds.Events {
		assert.False(t, e.StartDate.Before(now.AddDate(0, 0, -30).Truncate(time.Minute)), e.ID)
		assert.False(t, e.StartDate.After(now.AddDate(0, 0, 60)), e.ID)
		hours := e.EndDate.Sub(e.StartDate).Hours()
		assert.True(t, hours >= 1 && hours <= 8, "duration %v", hours)
		assert.True(t, len(e.Participants) >= 5 && len(e.Participants) <= 50)
		assert.True(t, len(e.Documents) >= 1 && len(e.Documents) <= 5)
		assert.True(t, e.Type.Valid())
		assert.True(t, e.Location.Valid())
		assert.True(t, e.Status.Valid())
		assert.NoError(t, e.Draft().Validate())
	}
	for _, n := range ds.Notifications {
		assert.Equal(t, Users[0].ID, n.UserID)
	}
	for i := 1; i < len(ds.AuditLogs); i++ {
		assert.False(t, ds.AuditLogs[i].Timestamp.After(ds.AuditLogs[i-1].Timestamp))
	}
}

func TestLoadKeepsPresentationOrder(t *testing.T) {
	ctx := context.Background()
	ds := Generate(Config{Seed: 3, Events: 4, Now: now})
	store := memory.NewStore()
	require.NoError(t, Load(ctx, store, ds))

	require.NoError(t, store.ReadTX(ctx, func(c ports.Collections) error {
		users, err := c.Users()
		require.NoError(t, err)
		assert.Equal(t, ds.Users, users)

		events, err := c.Events()
		require.NoError(t, err)
		require.Len(t, events, 4)
		assert.Equal(t, ds.Events[0].ID, events[0].ID)
		assert.Equal(t, ds.Events[3].ID, events[3].ID)

		logs, err := c.AuditLogs()
		require.NoError(t, err)
		assert.Equal(t, ds.AuditLogs, logs)

		ns, err := c.Notifications()
		require.NoError(t, err)
		assert.Equal(t, ds.Notifications, ns)
		return nil
	}))
}
