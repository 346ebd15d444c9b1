package domain

import (
	"fmt"
	"time"
)

type NotificationKind string

const (
	NotificationInfo    NotificationKind = "info"
	NotificationWarning NotificationKind = "warning"
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

var NotificationKinds = []NotificationKind{NotificationInfo, NotificationWarning, NotificationSuccess, NotificationError}

func (k NotificationKind) Valid() bool {
	switch k {
	case NotificationInfo, NotificationWarning, NotificationSuccess, NotificationError:
		return true
	}
	return false
}

type Notification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Kind      NotificationKind `json:"type"`
	UserID    string           `json:"user_id"`
	EventID   string           `json:"event_id,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

// NotificationPatch lists the mutable notification fields. Nil fields are left untouched.
type NotificationPatch struct {
	Title   *string           `json:"title,omitempty"`
	Message *string           `json:"message,omitempty"`
	Kind    *NotificationKind `json:"type,omitempty"`
	EventID *string           `json:"event_id,omitempty"`
	Read    *bool             `json:"read,omitempty"`
}

func (p NotificationPatch) Validate() error {
	if p.Kind != nil && !p.Kind.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidPatch, *p.Kind)
	}
	if p.Title == nil && p.Message == nil && p.Kind == nil && p.EventID == nil && p.Read == nil {
		return fmt.Errorf("%w: no fields to update", ErrInvalidPatch)
	}
	return nil
}

func (p NotificationPatch) Apply(n Notification) Notification {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Message != nil {
		n.Message = *p.Message
	}
	if p.Kind != nil {
		n.Kind = *p.Kind
	}
	if p.EventID != nil {
		n.EventID = *p.EventID
	}
	if p.Read != nil {
		n.Read = *p.Read
	}
	return n
}
