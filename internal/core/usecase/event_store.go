package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
	"github.com/atvirokodosprendimai/eventdesk/internal/core/ports"
)

const (
	OpCreateEvent        = "create_event"
	OpUpdateEvent        = "update_event"
	OpDeleteEvent        = "delete_event"
	OpCreateUser         = "create_user"
	OpUpdateUser         = "update_user"
	OpDeleteUser         = "delete_user"
	OpUpdateNotification = "update_notification"
	OpDeleteNotification = "delete_notification"
)

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type IDFunc func() string

func (f IDFunc) NewID() string { return f() }

type Option func(*EventStore)

func WithClock(clock ports.Clock) Option {
	return func(s *EventStore) { s.clock = clock }
}

func WithIDGenerator(ids ports.IDGenerator) Option {
	return func(s *EventStore) { s.ids = ids }
}

func WithRecorder(recorder ports.MutationRecorder) Option {
	return func(s *EventStore) { s.recorder = recorder }
}

// WithAuditPublisher forwards every committed audit entry to publisher.
func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(s *EventStore) { s.publisher = publisher }
}

// EventStore is the single owner of the event, user, notification and audit
// collections. Every event or user mutation appends exactly one audit entry in
// the same transaction. Mutations that reference a missing identifier report
// false and leave everything untouched.
type EventStore struct {
	store     ports.Store
	session   ports.Session
	clock     ports.Clock
	ids       ports.IDGenerator
	recorder  ports.MutationRecorder
	publisher ports.AuditPublisher

	// userMu spans the user commit and the session refresh so overlapping
	// updates reach the session in commit order.
	userMu sync.Mutex
}

func NewEventStore(store ports.Store, session ports.Session, opts ...Option) *EventStore {
	s := &EventStore{
		store:   store,
		session: session,
		clock:   ClockFunc(func() time.Time { return time.Now().UTC() }),
		ids:     IDFunc(uuid.NewString),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *EventStore) Events(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	err := s.store.ReadTX(ctx, func(c ports.Collections) error {
		var err error
		events, err = c.Events()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *EventStore) Event(ctx context.Context, id string) (domain.Event, error) {
	var event domain.Event
	err := s.store.ReadTX(ctx, func(c ports.Collections) error {
		var err error
		event, err = c.Event(id)
		return err
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("get event %s: %w", id, err)
	}
	return event, nil
}

func (s *EventStore) Users(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := s.store.ReadTX(ctx, func(c ports.Collections) error {
		var err error
		users, err = c.Users()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *EventStore) User(ctx context.Context, id string) (domain.User, error) {
	var user domain.User
	err := s.store.ReadTX(ctx, func(c ports.Collections) error {
		var err error
		user, err = c.User(id)
		return err
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return user, nil
}

func (s *EventStore) Notifications(ctx context.Context) ([]domain.Notification, error) {
	var notifications []domain.Notification
	err := s.store.ReadTX(ctx, func(c ports.Collections) error {
		var err error
		notifications, err = c.Notifications()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

func (s *EventStore) AuditLogs(ctx context.Context) ([]domain.AuditLog, error) {
	var logs []domain.AuditLog
	err := s.store.ReadTX(ctx, func(c ports.Collections) error {
		var err error
		logs, err = c.AuditLogs()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}

func (s *EventStore) CreateEvent(ctx context.Context, draft domain.EventDraft) (domain.Event, error) {
	actor := s.actor()
	now := s.clock.Now()
	event := draft.Event(s.ids.NewID(), now)

	var entry domain.AuditLog
	err := s.store.WriteTX(ctx, func(c ports.Collections) error {
		err := c.PrependEvent(event)
		if err != nil {
			return err
		}
		entry, err = s.appendAudit(c, actor, now, domain.ActionCreatedEvent, event.Title)
		return err
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("create event: %w", err)
	}
	s.observe(OpCreateEvent, true)
	s.publish(ctx, entry)
	return event.Clone(), nil
}

// UpdateEvent replaces the stored event with the supplied fields. The stored
// record stays authoritative for CreatedAt, Version and Changes: the version
// is bumped by one and one Change is appended per edited field.
func (s *EventStore) UpdateEvent(ctx context.Context, event domain.Event) (bool, error) {
	actor := s.actor()
	now := s.clock.Now()
	updated := false

	var entry domain.AuditLog
	err := s.store.WriteTX(ctx, func(c ports.Collections) error {
		stored, err := c.Event(event.ID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		at := now
		if at.Before(stored.UpdatedAt) {
			at = stored.UpdatedAt
		}

		next := event.Clone()
		next.CreatedAt = stored.CreatedAt
		next.UpdatedAt = at
		next.Version = stored.Version + 1
		next.Changes = append(stored.Clone().Changes, DiffEvent(stored, next, actor.Name, at, s.ids)...)
		if next.Changes == nil {
			next.Changes = []domain.Change{}
		}

		ok, err := c.ReplaceEvent(next)
		if err != nil || !ok {
			return err
		}
		updated = true
		entry, err = s.appendAudit(c, actor, at, domain.ActionEditedEvent, next.Title)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("update event %s: %w", event.ID, err)
	}
	s.observe(OpUpdateEvent, updated)
	if updated {
		s.publish(ctx, entry)
	}
	return updated, nil
}

func (s *EventStore) DeleteEvent(ctx context.Context, id string) (bool, error) {
	actor := s.actor()
	now := s.clock.Now()
	deleted := false

	var entry domain.AuditLog
	err := s.store.WriteTX(ctx, func(c ports.Collections) error {
		stored, err := c.Event(id)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		ok, err := c.RemoveEvent(id)
		if err != nil || !ok {
			return err
		}
		deleted = true
		entry, err = s.appendAudit(c, actor, now, domain.ActionDeletedEvent, stored.Title)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("delete event %s: %w", id, err)
	}
	s.observe(OpDeleteEvent, deleted)
	if deleted {
		s.publish(ctx, entry)
	}
	return deleted, nil
}

func (s *EventStore) CreateUser(ctx context.Context, draft domain.UserDraft) (domain.User, error) {
	actor := s.actor()
	now := s.clock.Now()
	user := draft.User(s.ids.NewID())

	var entry domain.AuditLog
	err := s.store.WriteTX(ctx, func(c ports.Collections) error {
		err := c.PrependUser(user)
		if err != nil {
			return err
		}
		entry, err = s.appendAudit(c, actor, now, domain.ActionCreatedUser, user.Name)
		return err
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	s.observe(OpCreateUser, true)
	s.publish(ctx, entry)
	return user, nil
}

// UpdateUser replaces the stored user. When the edited user is the one signed
// in, the session is refreshed with the same values before returning.
func (s *EventStore) UpdateUser(ctx context.Context, user domain.User) (bool, error) {
	s.userMu.Lock()
	defer s.userMu.Unlock()

	actor := s.actor()
	now := s.clock.Now()
	updated := false

	var entry domain.AuditLog
	err := s.store.WriteTX(ctx, func(c ports.Collections) error {
		ok, err := c.ReplaceUser(user)
		if err != nil || !ok {
			return err
		}
		updated = true
		entry, err = s.appendAudit(c, actor, now, domain.ActionEditedUser, user.Name)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("update user %s: %w", user.ID, err)
	}
	if updated && s.session != nil {
		if current, ok := s.session.Current(); ok && current.ID == user.ID {
			s.session.Refresh(user)
		}
	}
	s.observe(OpUpdateUser, updated)
	if updated {
		s.publish(ctx, entry)
	}
	return updated, nil
}

func (s *EventStore) DeleteUser(ctx context.Context, id string) (bool, error) {
	actor := s.actor()
	now := s.clock.Now()
	deleted := false

	var entry domain.AuditLog
	err := s.store.WriteTX(ctx, func(c ports.Collections) error {
		stored, err := c.User(id)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		ok, err := c.RemoveUser(id)
		if err != nil || !ok {
			return err
		}
		deleted = true
		entry, err = s.appendAudit(c, actor, now, domain.ActionDeletedUser, stored.Name)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("delete user %s: %w", id, err)
	}
	s.observe(OpDeleteUser, deleted)
	if deleted {
		s.publish(ctx, entry)
	}
	return deleted, nil
}

// SetNotificationFields merges patch into the notification. Notifications are
// not audited.
func (s *EventStore) SetNotificationFields(ctx context.Context, id string, patch domain.NotificationPatch) (bool, error) {
	updated := false
	err := s.store.WriteTX(ctx, func(c ports.Collections) error {
		stored, err := c.Notification(id)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		next := patch.Apply(stored)
		next.ID = stored.ID
		updated, err = c.ReplaceNotification(next)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("update notification %s: %w", id, err)
	}
	s.observe(OpUpdateNotification, updated)
	return updated, nil
}

func (s *EventStore) DeleteNotification(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := s.store.WriteTX(ctx, func(c ports.Collections) error {
		var err error
		deleted, err = c.RemoveNotification(id)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("delete notification %s: %w", id, err)
	}
	s.observe(OpDeleteNotification, deleted)
	return deleted, nil
}

func (s *EventStore) actor() domain.User {
	if s.session != nil {
		if user, ok := s.session.Current(); ok {
			return user
		}
	}
	return domain.SystemActor
}

func (s *EventStore) appendAudit(c ports.Collections, actor domain.User, at time.Time, action, details string) (domain.AuditLog, error) {
	entry := domain.AuditLog{
		ID:        s.ids.NewID(),
		Timestamp: at,
		UserID:    actor.ID,
		UserName:  actor.Name,
		Action:    action,
		Details:   details,
	}
	return entry, c.PrependAuditLog(entry)
}

// publish hands a committed audit entry to the publisher. The mutation has
// already been applied, so a delivery failure is only logged.
func (s *EventStore) publish(ctx context.Context, entry domain.AuditLog) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, entry); err != nil {
		log.WithError(err).WithField("action", entry.Action).Warn("publish audit entry")
	}
}

func (s *EventStore) observe(op string, applied bool) {
	if s.recorder != nil {
		s.recorder.ObserveMutation(op, applied)
	}
}
