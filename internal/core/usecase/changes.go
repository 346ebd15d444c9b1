package usecase

import (
	"strconv"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
	"github.com/atvirokodosprendimai/eventdesk/internal/core/ports"
)

type fieldDiff struct {
	field         string
	before, after string
}

// DiffEvent lists one Change per field that differs between before and after.
// Embedded participant and document lists are summarized by their length.
func DiffEvent(before, after domain.Event, changedBy string, at time.Time, ids ports.IDGenerator) []domain.Change {
	diffs := []fieldDiff{
		{"title", before.Title, after.Title},
		{"description", before.Description, after.Description},
		{"type", string(before.Type), string(after.Type)},
		{"modality", string(before.Modality), string(after.Modality)},
		{"start_date", formatTime(before.StartDate), formatTime(after.StartDate)},
		{"end_date", formatTime(before.EndDate), formatTime(after.EndDate)},
		{"location", string(before.Location), string(after.Location)},
		{"location_details", before.LocationDetails, after.LocationDetails},
		{"responsible_id", before.ResponsibleID, after.ResponsibleID},
		{"responsible", before.Responsible, after.Responsible},
		{"sector", before.Sector, after.Sector},
		{"status", string(before.Status), string(after.Status)},
		{"is_public", strconv.FormatBool(before.IsPublic), strconv.FormatBool(after.IsPublic)},
		{"max_participants", formatLimit(before.MaxParticipants), formatLimit(after.MaxParticipants)},
	}

	var changes []domain.Change
	for _, d := range diffs {
		if d.before == d.after {
			continue
		}
		changes = append(changes, newChange(ids, d.field, d.before, d.after, changedBy, at))
	}

	if !cmp.Equal(before.Participants, after.Participants, cmpopts.EquateEmpty()) {
		changes = append(changes, newChange(ids, "participants",
			strconv.Itoa(len(before.Participants)), strconv.Itoa(len(after.Participants)), changedBy, at))
	}
	if !cmp.Equal(before.Documents, after.Documents, cmpopts.EquateEmpty()) {
		changes = append(changes, newChange(ids, "documents",
			strconv.Itoa(len(before.Documents)), strconv.Itoa(len(after.Documents)), changedBy, at))
	}
	return changes
}

func newChange(ids ports.IDGenerator, field, oldValue, newValue, changedBy string, at time.Time) domain.Change {
	return domain.Change{
		ID:        ids.NewID(),
		Field:     field,
		OldValue:  oldValue,
		NewValue:  newValue,
		ChangedBy: changedBy,
		ChangedAt: at,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatLimit(limit *int) string {
	if limit == nil {
		return ""
	}
	return strconv.Itoa(*limit)
}
