package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
	"github.com/atvirokodosprendimai/eventdesk/internal/core/projection"
)

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseEventFilter(w, r)
	if !ok {
		return
	}
	events, ok := h.scopedEvents(w, r)
	if !ok {
		return
	}

	list := projection.List(events, filter)
	writeJSON(w, http.StatusOK, map[string]any{"events": list, "total": len(list)})
}

func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	var draft domain.EventDraft
	if !h.decode(w, r, schemaEventDraft, &draft) {
		return
	}
	if err := draft.Validate(); err != nil {
		handleDomainError(w, err)
		return
	}

	event, err := h.store.CreateEvent(r.Context(), draft)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (h *Handler) getEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.store.Event(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// updateEvent replaces the event named in the path. Identity, timestamps,
// version and history in the body are ignored; the store owns them.
func (h *Handler) updateEvent(w http.ResponseWriter, r *http.Request) {
	var event domain.Event
	if !h.decode(w, r, schemaEvent, &event) {
		return
	}
	if err := event.Draft().Validate(); err != nil {
		handleDomainError(w, err)
		return
	}
	event.ID = chi.URLParam(r, "id")

	updated, err := h.store.UpdateEvent(r.Context(), event)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	if !updated {
		writeJSON(w, http.StatusOK, map[string]bool{"updated": false})
		return
	}

	stored, err := h.store.Event(r.Context(), event.ID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated": true, "event": stored})
}

func (h *Handler) deleteEvent(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.store.DeleteEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// scopedEvents loads the events, restricted to the signed-in user's sector
// when the request asks for scope=sector.
func (h *Handler) scopedEvents(w http.ResponseWriter, r *http.Request) ([]domain.Event, bool) {
	scope := r.URL.Query().Get("scope")
	if scope != "" && scope != "sector" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown scope %q", scope))
		return nil, false
	}

	events, err := h.store.Events(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return nil, false
	}
	if scope == "" {
		return events, true
	}

	user, ok := h.session.Current()
	if !ok {
		writeError(w, http.StatusUnauthorized, "sign in to scope events by sector")
		return nil, false
	}
	return projection.ScopeToSector(events, user.Sector), true
}

func parseEventFilter(w http.ResponseWriter, r *http.Request) (projection.EventFilter, bool) {
	q := r.URL.Query()
	f := projection.EventFilter{
		Search:   q.Get("search"),
		Type:     domain.EventType(q.Get("type")),
		Location: domain.Location(q.Get("location")),
		Sector:   q.Get("sector"),
		Status:   domain.EventStatus(q.Get("status")),
	}
	switch {
	case f.Type != "" && !f.Type.Valid():
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown type %q", f.Type))
		return projection.EventFilter{}, false
	case f.Location != "" && !f.Location.Valid():
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown location %q", f.Location))
		return projection.EventFilter{}, false
	case f.Status != "" && !f.Status.Valid():
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", f.Status))
		return projection.EventFilter{}, false
	}
	return f, true
}
