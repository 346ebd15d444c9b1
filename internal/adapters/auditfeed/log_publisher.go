package auditfeed

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/atvirokodosprendimai/eventdesk/internal/core/domain"
)

// LogPublisher writes committed audit entries to the process log.
type LogPublisher struct {
	logger log.FieldLogger
}

func NewLogPublisher(logger log.FieldLogger) *LogPublisher {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, entry domain.AuditLog) error {
	p.logger.WithFields(log.Fields{
		"audit_id": entry.ID,
		"user_id":  entry.UserID,
		"user":     entry.UserName,
		"action":   entry.Action,
		"details":  entry.Details,
	}).Info("audit")
	return nil
}
