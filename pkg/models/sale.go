package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID             string          `json:"id" db:"id"`
	ChassisNumber  string          `json:"chassis_number" db:"chassis_number"`
	CustomerName   string          `json:"customer_name" db:"customer_name"`
	CustomerPhone  string          `json:"customer_phone" db:"customer_phone"`
	Price          decimal.Decimal `json:"price" db:"price"`
	SalesOfficerID string          `json:"sales_officer_id" db:"sales_officer_id"`
	BranchID       string          `json:"branch_id" db:"branch_id"`
	Date           time.Time       `json:"date" db:"date"`
}

func (s *Sale) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   s.ID,
		ResourceType: "sale",
	}
}

type RecordSaleRequest struct {
	ChassisNumber string          `json:"chassis_number" binding:"required"`
	CustomerName  string          `json:"customer_name" binding:"required"`
	CustomerPhone string          `json:"customer_phone" binding:"required"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	// BranchID is only honored for admins; everyone else sells at their
	// assigned branch.
	BranchID string `json:"branch_id"`
}

// UpdateSaleRequest cannot change the chassis number: swapping the bike on
// an existing sale would need the status transitions unwound and reapplied.
type UpdateSaleRequest struct {
	CustomerName  *string          `json:"customer_name"`
	CustomerPhone *string          `json:"customer_phone"`
	Price         *decimal.Decimal `json:"price"`
}

type SaleChanges struct {
	CustomerName  *string
	CustomerPhone *string
	Price         *decimal.Decimal
}

func (c SaleChanges) HasChanges() bool {
	return c.CustomerName != nil || c.CustomerPhone != nil || c.Price != nil
}
