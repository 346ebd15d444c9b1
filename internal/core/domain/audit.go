package domain

import "time"

const (
	ActionCreatedEvent = "created event"
	ActionEditedEvent  = "edited event"
	ActionDeletedEvent = "deleted event"
	ActionCreatedUser  = "created user"
	ActionEditedUser   = "edited user"
	ActionDeletedUser  = "deleted user"
)

// SystemActor stamps audit entries written while nobody is signed in.
var SystemActor = User{ID: "system", Name: "Sistema"}

type AuditLog struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}

func (l AuditLog) Summary() string {
	if l.Details == "" {
		return l.Action
	}
	return l.Action + ": " + l.Details
}
