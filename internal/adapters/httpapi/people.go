package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
)

type loginRequest struct {
	Email string `json:"email"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, schemaLogin, &req) {
		return
	}
	user, err := h.session.Login(r.Context(), req.Email)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) currentSession(w http.ResponseWriter, _ *http.Request) {
	user, ok := h.session.Current()
	if !ok {
		writeError(w, http.StatusNotFound, "not signed in")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) logout(w http.ResponseWriter, _ *http.Request) {
	h.session.Logout()
	writeJSON(w, http.StatusOK, map[string]bool{"signed_out": true})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.Users(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var draft domain.UserDraft
	if !h.decode(w, r, schemaUserDraft, &draft) {
		return
	}
	if err := draft.Validate(); err != nil {
		handleDomainError(w, err)
		return
	}

	user, err := h.store.CreateUser(r.Context(), draft)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var user domain.User
	if !h.decode(w, r, schemaUser, &user) {
		return
	}
	if err := user.Draft().Validate(); err != nil {
		handleDomainError(w, err)
		return
	}
	user.ID = chi.URLParam(r, "id")

	updated, err := h.store.UpdateUser(r.Context(), user)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": updated})
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.store.DeleteUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

// listNotifications returns the signed-in user's notifications, or all of
// them when nobody is signed in.
func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	all, err := h.store.Notifications(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	notifications := all
	if user, ok := h.session.Current(); ok {
		notifications = ownedBy(all, user.ID)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": notifications,
		"unread":        countUnread(notifications),
	})
}

func (h *Handler) patchNotification(w http.ResponseWriter, r *http.Request) {
	var patch domain.NotificationPatch
	if !h.decode(w, r, schemaNotificationPatch, &patch) {
		return
	}
	if err := patch.Validate(); err != nil {
		handleDomainError(w, err)
		return
	}

	updated, err := h.store.SetNotificationFields(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": updated})
}

func (h *Handler) deleteNotification(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.store.DeleteNotification(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

func ownedBy(notifications []domain.Notification, userID string) []domain.Notification {
	out := []domain.Notification{}
	for _, n := range notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func countUnread(notifications []domain.Notification) int {
	n := 0
	for _, x := range notifications {
		if !x.Read {
			n++
		}
	}
	return n
}
