package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
	"github.com/atvirokodosprendimai/eventdesk/internal/core/ports"
)

var ErrUnknownUser = errors.New("unknown user")

// SessionHolder keeps a copy of the signed-in user. Sign-in is a lookup by
// e-mail against the users collection; there are no credentials.
type SessionHolder struct {
	store ports.Store

	mu   sync.RWMutex
	user *domain.User
}

func NewSessionHolder(store ports.Store) *SessionHolder {
	return &SessionHolder{store: store}
}

func (h *SessionHolder) Login(ctx context.Context, email string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.User{}, ErrUnknownUser
	}

	var found *domain.User
	err := h.store.ReadTX(ctx, func(c ports.Collections) error {
		users, err := c.Users()
		if err != nil {
			return err
		}
		for _, u := range users {
			if strings.EqualFold(u.Email, email) {
				found = &u
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if found == nil {
		return domain.User{}, ErrUnknownUser
	}

	h.Refresh(*found)
	return *found, nil
}

func (h *SessionHolder) Logout() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.user = nil
}

func (h *SessionHolder) Current() (domain.User, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.user == nil {
		return domain.User{}, false
	}
	return *h.user, true
}

func (h *SessionHolder) Refresh(user domain.User) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.user = &user
}

var _ ports.Session = (*SessionHolder)(nil)
