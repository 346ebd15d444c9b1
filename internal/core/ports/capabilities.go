package ports

import (
	"context"
	"time"

	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID() string
}

// Session holds the signed-in user. The store refreshes it whenever that
// user's record is edited.
type Session interface {
	Current() (domain.User, bool)
	Refresh(user domain.User)
}

type MutationRecorder interface {
	ObserveMutation(op string, applied bool)
}

// AuditPublisher receives audit entries once their mutation has committed.
type AuditPublisher interface {
	Publish(ctx context.Context, entry domain.AuditLog) error
}
