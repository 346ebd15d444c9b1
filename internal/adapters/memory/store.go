package memory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
	"github.com/atvirokodosprendimai/eventdesk/internal/core/ports"
)

var errReadOnly = errors.New("write inside read transaction")

type state struct {
	events        []domain.Event
	users         []domain.User
	notifications []domain.Notification
	auditLogs     []domain.AuditLog
}

func (s state) clone() state {
	return state{
		events:        slices.Clone(s.events),
		users:         slices.Clone(s.users),
		notifications: slices.Clone(s.notifications),
		auditLogs:     slices.Clone(s.auditLogs),
	}
}

// Store keeps the collections in process memory. Writers work on a copy of the
// collection slices that replaces the live state only when the callback
// succeeds, so a failed transaction leaves no trace.
type Store struct {
	mu    sync.RWMutex
	state state
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) ReadTX(ctx context.Context, fn func(c ports.Collections) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&collections{state: &s.state, readOnly: true})
}

func (s *Store) WriteTX(ctx context.Context, fn func(c ports.Collections) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.state.clone()
	if err := fn(&collections{state: &draft}); err != nil {
		return err
	}
	s.state = draft
	return nil
}

var _ ports.Store = (*Store)(nil)

type collections struct {
	state    *state
	readOnly bool
}

func (c *collections) writable() error {
	if c.readOnly {
		return errReadOnly
	}
	return nil
}

func (c *collections) Events() ([]domain.Event, error) {
	out := make([]domain.Event, 0, len(c.state.events))
	for _, e := range c.state.events {
		out = append(out, e.Clone())
	}
	return out, nil
}

func (c *collections) Event(id string) (domain.Event, error) {
	i := slices.IndexFunc(c.state.events, func(e domain.Event) bool { return e.ID == id })
	if i < 0 {
		return domain.Event{}, domain.ErrNotFound
	}
	return c.state.events[i].Clone(), nil
}

func (c *collections) PrependEvent(event domain.Event) error {
	if err := c.writable(); err != nil {
		return err
	}
	c.state.events = slices.Insert(c.state.events, 0, event.Clone())
	return nil
}

func (c *collections) ReplaceEvent(event domain.Event) (bool, error) {
	if err := c.writable(); err != nil {
		return false, err
	}
	i := slices.IndexFunc(c.state.events, func(e domain.Event) bool { return e.ID == event.ID })
	if i < 0 {
		return false, nil
	}
	c.state.events[i] = event.Clone()
	return true, nil
}

func (c *collections) RemoveEvent(id string) (bool, error) {
	if err := c.writable(); err != nil {
		return false, err
	}
	before := len(c.state.events)
	c.state.events = slices.DeleteFunc(c.state.events, func(e domain.Event) bool { return e.ID == id })
	return len(c.state.events) < before, nil
}

func (c *collections) Users() ([]domain.User, error) {
	return slices.Clone(c.state.users), nil
}

func (c *collections) User(id string) (domain.User, error) {
	i := slices.IndexFunc(c.state.users, func(u domain.User) bool { return u.ID == id })
	if i < 0 {
		return domain.User{}, domain.ErrNotFound
	}
	return c.state.users[i], nil
}

func (c *collections) PrependUser(user domain.User) error {
	if err := c.writable(); err != nil {
		return err
	}
	c.state.users = slices.Insert(c.state.users, 0, user)
	return nil
}

func (c *collections) ReplaceUser(user domain.User) (bool, error) {
	if err := c.writable(); err != nil {
		return false, err
	}
	i := slices.IndexFunc(c.state.users, func(u domain.User) bool { return u.ID == user.ID })
	if i < 0 {
		return false, nil
	}
	c.state.users[i] = user
	return true, nil
}

func (c *collections) RemoveUser(id string) (bool, error) {
	if err := c.writable(); err != nil {
		return false, err
	}
	before := len(c.state.users)
	c.state.users = slices.DeleteFunc(c.state.users, func(u domain.User) bool { return u.ID == id })
	return len(c.state.users) < before, nil
}

func (c *collections) Notifications() ([]domain.Notification, error) {
	return slices.Clone(c.state.notifications), nil
}

func (c *collections) Notification(id string) (domain.Notification, error) {
	i := slices.IndexFunc(c.state.notifications, func(n domain.Notification) bool { return n.ID == id })
	if i < 0 {
		return domain.Notification{}, domain.ErrNotFound
	}
	return c.state.notifications[i], nil
}

func (c *collections) AppendNotification(n domain.Notification) error {
	if err := c.writable(); err != nil {
		return err
	}
	c.state.notifications = append(c.state.notifications, n)
	return nil
}

func (c *collections) ReplaceNotification(n domain.Notification) (bool, error) {
	if err := c.writable(); err != nil {
		return false, err
	}
	i := slices.IndexFunc(c.state.notifications, func(x domain.Notification) bool { return x.ID == n.ID })
	if i < 0 {
		return false, nil
	}
	c.state.notifications[i] = n
	return true, nil
}

func (c *collections) RemoveNotification(id string) (bool, error) {
	if err := c.writable(); err != nil {
		return false, err
	}
	before := len(c.state.notifications)
	c.state.notifications = slices.DeleteFunc(c.state.notifications, func(n domain.Notification) bool { return n.ID == id })
	return len(c.state.notifications) < before, nil
}

func (c *collections) AuditLogs() ([]domain.AuditLog, error) {
	return slices.Clone(c.state.auditLogs), nil
}

func (c *collections) PrependAuditLog(entry domain.AuditLog) error {
	if err := c.writable(); err != nil {
		return err
	}
	c.state.auditLogs = slices.Insert(c.state.auditLogs, 0, entry)
	return nil
}
