package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	custom_error "github.com/AsonyaGh/Bina/pkg/errors"
	"github.com/AsonyaGh/Bina/pkg/metadata"
)

type Motorcycle struct {
	ChassisNumber     string                    `json:"chassis_number"`
	Type              string                    `json:"type"`
	Color             string                    `json:"color"`
	Status            metadata.MotorcycleStatus `json:"status"`
	CurrentLocationID string                    `json:"current_location_id"`
	ImportDate        time.Time                 `json:"import_date"`
	SoldDate          *time.Time                `json:"sold_date,omitempty"`
	Price             *decimal.Decimal          `json:"price,omitempty"`
}

// Validate enforces the status/location/sale-field consistency rules. Every
// write of a motorcycle record goes through this, so an inconsistent
// combination (IN_TRANSIT at a real location, SOLD without a price) never
// reaches the store.
func (m *Motorcycle) Validate() error {
	if !m.Status.IsValid() {
		return custom_error.NewValidation("invalid motorcycle status: %s", m.Status)
	}

	inTransit := m.Status == metadata.MotorcycleInTransit
	atTransit := m.CurrentLocationID == metadata.LocationIDTransit
	if inTransit != atTransit {
		return custom_error.NewValidation(
			"motorcycle %s: status %s does not match location %s",
			m.ChassisNumber, m.Status, m.CurrentLocationID,
		)
	}

	if m.Status == metadata.MotorcycleSold {
		if m.SoldDate == nil || m.Price == nil {
			return custom_error.NewValidation(
				"motorcycle %s: sold without sold date or price", m.ChassisNumber,
			)
		}
	} else if m.SoldDate != nil || m.Price != nil {
		return custom_error.NewValidation(
			"motorcycle %s: sale fields set while status is %s", m.ChassisNumber, m.Status,
		)
	}

	return nil
}

func (m *Motorcycle) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   m.ChassisNumber,
		ResourceType: "motorcycle",
	}
}

type FlatMotorcycleRecord struct {
	ChassisNumber     string              `db:"chassis_number"`
	Type              string              `db:"type"`
	Color             string              `db:"color"`
	Status            string              `db:"status"`
	CurrentLocationID string              `db:"current_location_id"`
	ImportDate        time.Time           `db:"import_date"`
	SoldDate          sql.NullTime        `db:"sold_date"`
	Price             decimal.NullDecimal `db:"price"`
}

func (fm *FlatMotorcycleRecord) TransformToMotorcycle() Motorcycle {
	motorcycle := Motorcycle{
		ChassisNumber:     fm.ChassisNumber,
		Type:              fm.Type,
		Color:             fm.Color,
		Status:            metadata.MotorcycleStatus(fm.Status),
		CurrentLocationID: fm.CurrentLocationID,
		ImportDate:        fm.ImportDate,
	}
	if fm.SoldDate.Valid {
		soldDate := fm.SoldDate.Time
		motorcycle.SoldDate = &soldDate
	}
	if fm.Price.Valid {
		price := fm.Price.Decimal
		motorcycle.Price = &price
	}
	return motorcycle
}

type ImportMotorcycleRequest struct {
	ChassisNumber string `json:"chassis_number" binding:"required"`
	Type          string `json:"type" binding:"required"`
	Color         string `json:"color" binding:"required"`
	LocationID    string `json:"location_id" binding:"required"`
}

type BulkImportMotorcycleRequest struct {
	ChassisNumbers []string `json:"chassis_numbers" binding:"required,min=1"`
	Type           string   `json:"type" binding:"required"`
	Color          string   `json:"color" binding:"required"`
	LocationID     string   `json:"location_id" binding:"required"`
}

// UpdateMotorcycleRequest covers the only fields a form may edit directly.
// Status and location belong to the transfer and sale workflows.
type UpdateMotorcycleRequest struct {
	Type  *string `json:"type"`
	Color *string `json:"color"`
}
