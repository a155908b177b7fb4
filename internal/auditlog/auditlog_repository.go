package auditlog

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/AsonyaGh/Bina/internal/repository"
	"github.com/AsonyaGh/Bina/pkg/models"
)

type AuditLogRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *AuditLogRepository {
	return &AuditLogRepository{repository: r}
}

func (r *AuditLogRepository) PersistLog(entry models.AuditLog) error {
	query := r.repository.GoquDBWrapper.Insert("audit_logs").
		Rows(goqu.Record{
			"resource_id":   entry.ResourceID,
			"resource_type": entry.ResourceType,
			"action":        entry.Action,
			"user_id":       entry.UserID,
			"details":       entry.Details,
		})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

// GetLogs returns the newest entries first.
func (r *AuditLogRepository) GetLogs(limit uint) ([]models.AuditLog, error) {
	query := r.repository.GoquDBWrapper.
		From("audit_logs").
		Select("id", "resource_id", "resource_type", "action", "user_id", "details", "created_at").
		Order(goqu.I("created_at").Desc()).
		Limit(limit)

	var flatLogs []models.FlatAuditLogRecord
	if err := query.Executor().ScanStructs(&flatLogs); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	logs := make([]models.AuditLog, 0, len(flatLogs))
	for i := range flatLogs {
		logs = append(logs, flatLogs[i].TransformToAuditLog())
	}

	return logs, nil
}

func (r *AuditLogRepository) GetResourceLog(resourceID, resourceType string) ([]models.AuditLog, error) {
	query := r.repository.GoquDBWrapper.
		From("audit_logs").
		Select("id", "resource_id", "resource_type", "action", "user_id", "details", "created_at").
		Where(goqu.Ex{
			"resource_id":   resourceID,
			"resource_type": resourceType,
		}).
		Order(goqu.I("created_at").Desc())

	var flatLogs []models.FlatAuditLogRecord
	if err := query.Executor().ScanStructs(&flatLogs); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	logs := make([]models.AuditLog, 0, len(flatLogs))
	for i := range flatLogs {
		logs = append(logs, flatLogs[i].TransformToAuditLog())
	}

	return logs, nil
}
