package models

import (
	"database/sql"
	"time"

	"github.com/AsonyaGh/Bina/pkg/metadata"
)

type Transfer struct {
	ID             string                  `json:"id"`
	Reference      string                  `json:"reference"`
	FromLocationID string                  `json:"from_location_id"`
	ToLocationID   string                  `json:"to_location_id"`
	ChassisNumbers []string                `json:"chassis_numbers"`
	Status         metadata.TransferStatus `json:"status"`
	StatusLabel    string                  `json:"status_label"`
	InitiatedBy    string                  `json:"initiated_by"`
	ReceivedBy     *string                 `json:"received_by,omitempty"`
	DateInitiated  time.Time               `json:"date_initiated"`
	DateCompleted  *time.Time              `json:"date_completed,omitempty"`
}

func (t *Transfer) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   t.ID,
		ResourceType: "transfer",
	}
}

type FlatTransferRecord struct {
	ID             string         `db:"id"`
	Reference      string         `db:"reference"`
	FromLocationID string         `db:"from_location_id"`
	ToLocationID   string         `db:"to_location_id"`
	Status         string         `db:"status"`
	InitiatedBy    string         `db:"initiated_by"`
	ReceivedBy     sql.NullString `db:"received_by"`
	DateInitiated  time.Time      `db:"date_initiated"`
	DateCompleted  sql.NullTime   `db:"date_completed"`
}

func (ft *FlatTransferRecord) TransformToTransfer() Transfer {
	status := metadata.TransferStatus(ft.Status)
	transfer := Transfer{
		ID:             ft.ID,
		Reference:      ft.Reference,
		FromLocationID: ft.FromLocationID,
		ToLocationID:   ft.ToLocationID,
		Status:         status,
		StatusLabel:    status.DisplayLabel(),
		InitiatedBy:    ft.InitiatedBy,
		DateInitiated:  ft.DateInitiated,
	}
	if ft.ReceivedBy.Valid {
		receivedBy := ft.ReceivedBy.String
		transfer.ReceivedBy = &receivedBy
	}
	if ft.DateCompleted.Valid {
		dateCompleted := ft.DateCompleted.Time
		transfer.DateCompleted = &dateCompleted
	}
	return transfer
}

type TransferRequest struct {
	FromLocationID string   `json:"from_location_id"`
	ToLocationID   string   `json:"to_location_id" binding:"required"`
	ChassisNumbers []string `json:"chassis_numbers" binding:"required"`
}
