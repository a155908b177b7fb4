package auditlog

import (
	"go.uber.org/zap"

	"github.com/AsonyaGh/Bina/pkg/models"
)

type LogPersister interface {
	PersistLog(entry models.AuditLog) error
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

type Auditlog struct {
	r      LogPersister
	logger *zap.Logger
}

func NewAuditLog(r LogPersister, logger *zap.Logger) *Auditlog {
	return &Auditlog{r: r, logger: logger}
}

// Log appends an immutable audit entry for item. Failures are logged and
// swallowed, an audit write never fails the mutation it describes.
func (a *Auditlog) Log(action, userID, details string, item Auditable) {
	entry := item.CreateLogView()
	entry.Action = action
	entry.UserID = userID
	entry.Details = details

	if err := a.r.PersistLog(entry); err != nil {
		a.logger.Warn("unable to create audit log entry",
			zap.String("resource_id", entry.ResourceID),
			zap.String("resource_type", entry.ResourceType),
			zap.Error(err),
		)
		return
	}

	a.logger.Debug("audit log entry created",
		zap.String("resource_id", entry.ResourceID),
		zap.String("action", action),
	)
}
