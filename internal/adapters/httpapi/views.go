package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
	"github.com/atvirokodosprendimai/eventdesk/internal/core/projection"
)

type calendarResponse struct {
	Range projection.DateRange `json:"range"`
	projection.CalendarView
}

func (h *Handler) calendar(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.parseRange(w, r)
	if !ok {
		return
	}
	if rng.End.Sub(rng.Start) > maxCalendarDays*24*time.Hour {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("calendar range is limited to %d days", maxCalendarDays))
		return
	}
	filter, ok := parseEventFilter(w, r)
	if !ok {
		return
	}
	events, ok := h.scopedEvents(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, calendarResponse{
		Range:        rng,
		CalendarView: projection.Calendar(events, rng, filter, h.loc),
	})
}

func (h *Handler) participants(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "page must be integer")
			return
		}
		page = parsed
	}

	events, ok := h.scopedEvents(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, projection.Roster(events, r.URL.Query().Get("search"), page))
}

func (h *Handler) auditLogs(w http.ResponseWriter, r *http.Request) {
	filter := projection.AuditFilter{Search: r.URL.Query().Get("search"), Location: h.loc}
	if raw := r.URL.Query().Get("day"); raw != "" {
		day, err := time.Parse(dayLayout, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "day must be YYYY-MM-DD")
			return
		}
		filter.Day = projection.CalendarRange(day, day, h.loc).Start
	}

	logs, err := h.store.AuditLogs(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"audit_logs": projection.FilterAuditLogs(logs, filter)})
}

type dashboardResponse struct {
	Summary             projection.Dashboard    `json:"summary"`
	EventsByType        []projection.TypeCount  `json:"events_by_type"`
	Timeline            []projection.MonthCount `json:"timeline"`
	RecentEvents        []domain.Event          `json:"recent_events"`
	UnreadNotifications int                     `json:"unread_notifications"`
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	events, err := h.store.Events(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	notifications, err := h.store.Notifications(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	if user, ok := h.session.Current(); ok {
		notifications = ownedBy(notifications, user.ID)
	}

	now := h.clock.Now()
	writeJSON(w, http.StatusOK, dashboardResponse{
		Summary:             projection.Summarize(events, now, h.loc),
		EventsByType:        projection.CountByType(events),
		Timeline:            projection.MonthlyTimeline(events, now, timelineMonths, h.loc),
		RecentEvents:        projection.RecentEvents(events, recentEvents),
		UnreadNotifications: countUnread(notifications),
	})
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.parseRange(w, r)
	if !ok {
		return
	}
	filter, ok := parseEventFilter(w, r)
	if !ok {
		return
	}
	events, ok := h.scopedEvents(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, projection.BuildReport(events, rng, filter, h.loc))
}

// parseRange reads month=YYYY-MM or from/to=YYYY-MM-DD. Without either it
// falls back to the current month.
func (h *Handler) parseRange(w http.ResponseWriter, r *http.Request) (projection.DateRange, bool) {
	q := r.URL.Query()
	month, from, to := q.Get("month"), q.Get("from"), q.Get("to")

	switch {
	case month != "" && (from != "" || to != ""):
		writeError(w, http.StatusBadRequest, "use either month or from/to")
		return projection.DateRange{}, false
	case month != "":
		t, err := time.Parse(monthLayout, month)
		if err != nil {
			writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
			return projection.DateRange{}, false
		}
		return projection.CalendarMonth(t.Year(), t.Month(), h.loc), true
	case from != "" || to != "":
		start, err := time.Parse(dayLayout, from)
		if err != nil {
			writeError(w, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return projection.DateRange{}, false
		}
		end, err := time.Parse(dayLayout, to)
		if err != nil {
			writeError(w, http.StatusBadRequest, "to must be YYYY-MM-DD")
			return projection.DateRange{}, false
		}
		if end.Before(start) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("range ends before it starts: %s > %s", from, to))
			return projection.DateRange{}, false
		}
		return projection.CalendarRange(start, end, h.loc), true
	default:
		return projection.MonthRange(h.clock.Now(), h.loc), true
	}
}
