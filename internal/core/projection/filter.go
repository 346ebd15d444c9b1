// Package projection derives read-only views from the store collections.
// Every function here is pure: inputs are never modified and no store is read.
package projection

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
)

// EventFilter narrows an event sequence. Zero fields match everything; set
// fields are AND-combined.
type EventFilter struct {
	Search   string
	Type     domain.EventType
	Location domain.Location
	Sector   string
	Status   domain.EventStatus
}

// Match reports whether e passes every set dimension of f. Search is a
// case-insensitive substring test over the title or the description.
func (f EventFilter) Match(e domain.Event) bool {
	return f.matcher().match(e)
}

func FilterEvents(events []domain.Event, f EventFilter) []domain.Event {
	m := f.matcher()
	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if m.match(e) {
			out = append(out, e)
		}
	}
	return out
}

// ScopeToSector keeps the events whose sector equals sector exactly, so an
// empty sector keeps the events that have none.
func ScopeToSector(events []domain.Event, sector string) []domain.Event {
	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if e.Sector == sector {
			out = append(out, e)
		}
	}
	return out
}

type eventMatcher struct {
	filter EventFilter
	needle string
}

func (f EventFilter) matcher() eventMatcher {
	return eventMatcher{filter: f, needle: fold(f.Search)}
}

func (m eventMatcher) match(e domain.Event) bool {
	f := m.filter
	if m.needle != "" && !containsFolded(e.Title, m.needle) && !containsFolded(e.Description, m.needle) {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.Location != "" && e.Location != f.Location {
		return false
	}
	if f.Sector != "" && e.Sector != f.Sector {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	return true
}

// fold applies Unicode case folding. A Caser keeps state, so each call gets its own.
func fold(s string) string {
	if s == "" {
		return ""
	}
	return cases.Fold().String(s)
}

func containsFolded(haystack, foldedNeedle string) bool {
	return strings.Contains(fold(haystack), foldedNeedle)
}
