package projection

import (
	"slices"

	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
)

// List returns the filtered events ordered by start time. Equal start times
// keep their collection order.
func List(events []domain.Event, f EventFilter) []domain.Event {
	out := FilterEvents(events, f)
	slices.SortStableFunc(out, func(a, b domain.Event) int {
		return a.StartDate.Compare(b.StartDate)
	})
	return out
}
