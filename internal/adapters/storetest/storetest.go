// Package storetest holds the behaviour every ports.Store backend must share.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
	"github.com/atvirokodosprendimai/eventdesk/internal/core/ports"
)

var errForced = errors.New("forced failure")

// Run exercises open() against the collection contract. open must return an
// empty store.
func Run(t *testing.T, open func(t *testing.T) ports.Store) {
	t.Run("events keep newest first and round trip", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		first := SampleEvent("e1", "Reunião de planejamento")
		second := SampleEvent("e2", "Audiência pública")

		require.NoError(t, store.WriteTX(ctx, func(c ports.Collections) error {
			if err := c.PrependEvent(first); err != nil {
				return err
			}
			return c.PrependEvent(second)
		}))

		var events []domain.Event
		require.NoError(t, store.ReadTX(ctx, func(c ports.Collections) error {
			var err error
			events, err = c.Events()
			return err
		}))
		require.Len(t, events, 2)
		require.Empty(t, cmp.Diff([]domain.Event{second, first}, events))
	})

	t.Run("missing identifiers", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		require.NoError(t, store.WriteTX(ctx, func(c ports.Collections) error {
			_, err := c.Event("nope")
			require.ErrorIs(t, err, domain.ErrNotFound)
			_, err = c.User("nope")
			require.ErrorIs(t, err, domain.ErrNotFound)
			_, err = c.Notification("nope")
			require.ErrorIs(t, err, domain.ErrNotFound)

			ok, err := c.ReplaceEvent(SampleEvent("nope", "x"))
			require.NoError(t, err)
			require.False(t, ok)
			ok, err = c.RemoveEvent("nope")
			require.NoError(t, err)
			require.False(t, ok)
			ok, err = c.ReplaceUser(domain.User{ID: "nope"})
			require.NoError(t, err)
			require.False(t, ok)
			ok, err = c.RemoveUser("nope")
			require.NoError(t, err)
			require.False(t, ok)
			ok, err = c.ReplaceNotification(domain.Notification{ID: "nope"})
			require.NoError(t, err)
			require.False(t, ok)
			ok, err = c.RemoveNotification("nope")
			require.NoError(t, err)
			require.False(t, ok)
			return nil
		}))
	})

	t.Run("replace and remove keep positions", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		users := []domain.User{
			{ID: "u1", Name: "Ana", Email: "ana@orgao.gov.br", Role: domain.UserRoleOrganizer, Sector: "Diretoria Técnica", Status: domain.UserStatusAtivo},
			{ID: "u2", Name: "Bruno", Email: "bruno@orgao.gov.br", Role: domain.UserRoleAdmin, Sector: "Presidência", Status: domain.UserStatusAtivo},
			{ID: "u3", Name: "Carla", Email: "carla@orgao.gov.br", Role: domain.UserRoleParticipant, Sector: "Recursos Humanos", Status: domain.UserStatusInativo},
		}
		require.NoError(t, store.WriteTX(ctx, func(c ports.Collections) error {
			for _, u := range users {
				if err := c.PrependUser(u); err != nil {
					return err
				}
			}
			return nil
		}))

		renamed := users[1]
		renamed.Name = "Bruno Lima"
		require.NoError(t, store.WriteTX(ctx, func(c ports.Collections) error {
			ok, err := c.ReplaceUser(renamed)
			require.True(t, ok)
			if err != nil {
				return err
			}
			ok, err = c.RemoveUser("u3")
			require.True(t, ok)
			return err
		}))

		var got []domain.User
		require.NoError(t, store.ReadTX(ctx, func(c ports.Collections) error {
			var err error
			got, err = c.Users()
			return err
		}))
		require.Empty(t, cmp.Diff([]domain.User{renamed, users[0]}, got))
	})

	t.Run("notifications keep insertion order", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
		ns := []domain.Notification{
			{ID: "n1", Title: "Um", Kind: domain.NotificationInfo, UserID: "u1", CreatedAt: at},
			{ID: "n2", Title: "Dois", Kind: domain.NotificationWarning, UserID: "u1", EventID: "e1", CreatedAt: at.Add(time.Hour)},
		}
		require.NoError(t, store.WriteTX(ctx, func(c ports.Collections) error {
			for _, n := range ns {
				if err := c.AppendNotification(n); err != nil {
					return err
				}
			}
			read := ns[0]
			read.Read = true
			ok, err := c.ReplaceNotification(read)
			require.True(t, ok)
			return err
		}))

		var got []domain.Notification
		require.NoError(t, store.ReadTX(ctx, func(c ports.Collections) error {
			var err error
			got, err = c.Notifications()
			return err
		}))
		require.Len(t, got, 2)
		require.Equal(t, "n1", got[0].ID)
		require.True(t, got[0].Read)
		require.Equal(t, "n2", got[1].ID)
	})

	t.Run("failed write leaves nothing behind", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		err := store.WriteTX(ctx, func(c ports.Collections) error {
			if err := c.PrependEvent(SampleEvent("e1", "Descartado")); err != nil {
				return err
			}
			if err := c.PrependAuditLog(domain.AuditLog{ID: "a1", Timestamp: time.Now().UTC(), Action: domain.ActionCreatedEvent}); err != nil {
				return err
			}
			return errForced
		})
		require.ErrorIs(t, err, errForced)

		require.NoError(t, store.ReadTX(ctx, func(c ports.Collections) error {
			events, err := c.Events()
			require.NoError(t, err)
			require.Empty(t, events)
			logs, err := c.AuditLogs()
			require.NoError(t, err)
			require.Empty(t, logs)
			return nil
		}))
	})

	t.Run("audit log newest first", func(t *testing.T) {
		store := open(t)
		ctx := context.Background()
		at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
		require.NoError(t, store.WriteTX(ctx, func(c ports.Collections) error {
			for i, id := range []string{"a1", "a2", "a3"} {
				entry := domain.AuditLog{ID: id, Timestamp: at.Add(time.Duration(i) * time.Minute), UserID: "u1", UserName: "Ana", Action: domain.ActionEditedEvent, Details: id}
				if err := c.PrependAuditLog(entry); err != nil {
					return err
				}
			}
			return nil
		}))
		require.NoError(t, store.ReadTX(ctx, func(c ports.Collections) error {
			logs, err := c.AuditLogs()
			require.NoError(t, err)
			require.Len(t, logs, 3)
			require.Equal(t, []string{"a3", "a2", "a1"}, []string{logs[0].ID, logs[1].ID, logs[2].ID})
			return nil
		}))
	})
}

// SampleEvent builds a fully populated event for backend tests.
func SampleEvent(id, title string) domain.Event {
	start := time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)
	checkedIn := start.Add(-10 * time.Minute)
	limit := 40
	return domain.Event{
		ID:              id,
		Title:           title,
		Description:     "Pauta: " + title,
		Type:            domain.EventTypeReuniao,
		Modality:        domain.ModalityHibrido,
		StartDate:       start,
		EndDate:         start.Add(2 * time.Hour),
		Location:        domain.LocationAuditorio,
		LocationDetails: "Bloco B",
		ResponsibleID:   "u1",
		Responsible:     "Maria Silva Santos",
		Sector:          "Presidência",
		Status:          domain.EventStatusAgendado,
		Participants: []domain.Participant{
			{ID: "p1", Name: "João", Email: "joao@orgao.gov.br", Role: domain.ParticipantRolePalestrante, Confirmed: true, CheckedIn: true, CheckedInAt: &checkedIn},
			{ID: "p2", Name: "Lia", Email: "lia@orgao.gov.br", Role: domain.ParticipantRoleConvidado},
		},
		Documents: []domain.Document{
			{ID: "d1", Name: "pauta.pdf", Type: "application/pdf", Size: 2048, URL: "/docs/pauta.pdf", UploadedAt: start.Add(-24 * time.Hour), UploadedBy: "Maria Silva Santos"},
		},
		IsPublic:        true,
		MaxParticipants: &limit,
		CreatedAt:       start.Add(-48 * time.Hour),
		UpdatedAt:       start.Add(-48 * time.Hour),
		Version:         1,
		Changes:         []domain.Change{},
	}
}
