package usecase

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
)

func TestDiffEvent(t *testing.T) {
	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	limit := 30
	before := domain.Event{
		Title:     "Seminário",
		StartDate: time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC),
		Status:    domain.EventStatusAgendado,
		Documents: []domain.Document{},
	}
	after := before
	after.StartDate = before.StartDate.Add(time.Hour)
	after.IsPublic = true
	after.MaxParticipants = &limit
	after.Documents = nil

	got := DiffEvent(before, after, "Ana", at, &sequenceIDs{})
	want := []domain.Change{
		{ID: "id-001", Field: "start_date", OldValue: "2024-03-15T14:00:00Z", NewValue: "2024-03-15T15:00:00Z", ChangedBy: "Ana", ChangedAt: at},
		{ID: "id-002", Field: "is_public", OldValue: "false", NewValue: "true", ChangedBy: "Ana", ChangedAt: at},
		{ID: "id-003", Field: "max_participants", OldValue: "", NewValue: "30", ChangedBy: "Ana", ChangedAt: at},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected changes (-want +got):\n%s", diff)
	}
}

func TestDiffEventIdenticalProducesNothing(t *testing.T) {
	e := domain.Event{Title: "A", Participants: []domain.Participant{{ID: "p1"}}}
	got := DiffEvent(e, e.Clone(), "Ana", time.Now(), &sequenceIDs{})
	if diff := cmp.Diff([]domain.Change(nil), got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("expected no changes:\n%s", diff)
	}
}
