package projection

import (
	"time"

	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
)

// AuditFilter narrows the audit trail. Search matches the acting user's name
// or the action; Day, when set, keeps entries logged on that calendar day in
// Location (UTC when nil).
type AuditFilter struct {
	Search   string
	Day      time.Time
	Location *time.Location
}

func FilterAuditLogs(logs []domain.AuditLog, f AuditFilter) []domain.AuditLog {
	needle := fold(f.Search)
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	var day civilDate
	byDay := !f.Day.IsZero()
	if byDay {
		day = dateOf(f.Day, loc)
	}

	out := make([]domain.AuditLog, 0, len(logs))
	for _, l := range logs {
		if needle != "" && !containsFolded(l.UserName, needle) && !containsFolded(l.Action, needle) {
			continue
		}
		if byDay && dateOf(l.Timestamp, loc) != day {
			continue
		}
		out = append(out, l)
	}
	return out
}
