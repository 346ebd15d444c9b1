package ports

import (
	"context"

	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
)

// Collections is the view of the domain collections inside one transaction.
// Ordered reads return Events, Users and AuditLogs newest first and
// Notifications in insertion order. Single-record lookups return
// domain.ErrNotFound when the identifier is absent.
type Collections interface {
	Events() ([]domain.Event, error)
	Event(id string) (domain.Event, error)
	PrependEvent(event domain.Event) error
	ReplaceEvent(event domain.Event) (bool, error)
	RemoveEvent(id string) (bool, error)

	Users() ([]domain.User, error)
	User(id string) (domain.User, error)
	PrependUser(user domain.User) error
	ReplaceUser(user domain.User) (bool, error)
	RemoveUser(id string) (bool, error)

	Notifications() ([]domain.Notification, error)
	Notification(id string) (domain.Notification, error)
	AppendNotification(n domain.Notification) error
	ReplaceNotification(n domain.Notification) (bool, error)
	RemoveNotification(id string) (bool, error)

	AuditLogs() ([]domain.AuditLog, error)
	PrependAuditLog(entry domain.AuditLog) error
}

// Store runs callbacks against the collections. Everything a WriteTX callback
// does is applied atomically: if it returns an error nothing is kept.
type Store interface {
	ReadTX(ctx context.Context, fn func(c Collections) error) error
	WriteTX(ctx context.Context, fn func(c Collections) error) error
}
