package models

import (
	"database/sql"
	"time"
)

type AuditLog struct {
	ID           int64     `json:"id" db:"id"`
	ResourceID   string    `json:"resource_id" db:"resource_id"`
	ResourceType string    `json:"resource_type" db:"resource_type"`
	Action       string    `json:"action" db:"action"` // create, update, delete, approve, receive, cancel...
	UserID       string    `json:"user_id" db:"user_id"`
	Details      string    `json:"details" db:"details"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type FlatAuditLogRecord struct {
	ID           int64          `db:"id"`
	ResourceID   string         `db:"resource_id"`
	ResourceType string         `db:"resource_type"`
	Action       string         `db:"action"`
	UserID       sql.NullString `db:"user_id"`
	Details      string         `db:"details"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (fl *FlatAuditLogRecord) TransformToAuditLog() AuditLog {
	entry := AuditLog{
		ID:           fl.ID,
		ResourceID:   fl.ResourceID,
		ResourceType: fl.ResourceType,
		Action:       fl.Action,
		Details:      fl.Details,
		CreatedAt:    fl.CreatedAt,
	}
	if fl.UserID.Valid {
		entry.UserID = fl.UserID.String
	}
	return entry
}
