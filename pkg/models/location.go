package models

import (
	"github.com/AsonyaGh/Bina/pkg/metadata"
)

type Location struct {
	ID      string                `json:"id" db:"id"`
	Name    string                `json:"name" db:"name"`
	Type    metadata.LocationType `json:"type" db:"type"`
	Address string                `json:"address" db:"address"`
}

func (l *Location) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   l.ID,
		ResourceType: "location",
	}
}

type CreateLocationRequest struct {
	Name    string `json:"name" binding:"required"`
	Type    string `json:"type" binding:"required"`
	Address string `json:"address"`
}

// UpdateLocationRequest deliberately has no type field: a location's type is
// immutable after creation, stock status reconciliation depends on it.
type UpdateLocationRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
}
