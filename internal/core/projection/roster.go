package projection

import (
	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
)

const RosterPageSize = 10

// RosterEntry is one participant together with the event it belongs to.
type RosterEntry struct {
	domain.Participant
	EventTitle string `json:"event_title"`
	EventID    string `json:"event_id"`
}

type RosterPage struct {
	Entries    []RosterEntry `json:"entries"`
	Page       int           `json:"page"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
}

// Roster flattens the participants of every event, keeps those whose name,
// email or event title contains search, and returns the requested 1-based
// page. Pages outside the result are returned empty rather than clamped.
func Roster(events []domain.Event, search string, page int) RosterPage {
	needle := fold(search)
	var matches []RosterEntry
	for _, e := range events {
		titleMatches := needle == "" || containsFolded(e.Title, needle)
		for _, p := range e.Participants {
			if titleMatches || containsFolded(p.Name, needle) || containsFolded(p.Email, needle) {
				matches = append(matches, RosterEntry{Participant: p, EventTitle: e.Title, EventID: e.ID})
			}
		}
	}

	total := len(matches)
	totalPages := (total + RosterPageSize - 1) / RosterPageSize
	entries := []RosterEntry{}
	if page >= 1 && page <= totalPages {
		start := (page - 1) * RosterPageSize
		end := min(start+RosterPageSize, total)
		entries = append(entries, matches[start:end]...)
	}
	return RosterPage{
		Entries:    entries,
		Page:       page,
		Total:      total,
		TotalPages: totalPages,
	}
}
