package sales

import (
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	custom_error "github.com/AsonyaGh/Bina/pkg/errors"
	"github.com/AsonyaGh/Bina/pkg/metadata"
	"github.com/AsonyaGh/Bina/pkg/models"
	"github.com/AsonyaGh/Bina/pkg/roles"
)

// MotorcycleSeller is the slice of the motorcycle repository the sale
// lifecycle needs: the stock transitions that mirror a sale record.
type MotorcycleSeller interface {
	MarkSold(tx *goqu.TxDatabase, chassisNumber, branchID string, soldDate time.Time, price decimal.Decimal) error
	RevertSale(tx *goqu.TxDatabase, chassisNumber string, revertStatus metadata.MotorcycleStatus) error
	UpdatePrice(tx *goqu.TxDatabase, chassisNumber string, price decimal.Decimal) error
}

type txRunner interface {
	WithTransaction(fn func(tx *goqu.TxDatabase) error) error
}

type SaleService struct {
	db    txRunner
	sales SaleRepository
	bikes MotorcycleSeller
}

func NewSaleService(db txRunner, sales SaleRepository, bikes MotorcycleSeller) *SaleService {
	return &SaleService{
		db:    db,
		sales: sales,
		bikes: bikes,
	}
}

// Record creates a sale and flips the motorcycle to SOLD in one transaction.
// The conditional stock update is the guard: if the bike is not AT_BRANCH at
// the selling branch, everything rolls back.
func (s *SaleService) Record(actor models.Actor, req models.RecordSaleRequest) (*models.Sale, error) {
	if !actor.Role.CanRecordSale() {
		return nil, custom_error.NewForbidden("role %s cannot record sales", actor.Role)
	}

	branchID := req.BranchID
	if actor.Role.ScopedToLocation() {
		branchID = actor.LocationID
	}
	if branchID == "" {
		return nil, custom_error.NewValidation("selling branch is required")
	}
	if !req.Price.IsPositive() {
		return nil, custom_error.NewValidation("sale price must be positive")
	}

	sale := &models.Sale{
		ID:             "sale_" + uuid.NewString(),
		ChassisNumber:  req.ChassisNumber,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		Price:          req.Price,
		SalesOfficerID: actor.UserID,
		BranchID:       branchID,
		Date:           time.Now(),
	}

	err := s.db.WithTransaction(func(tx *goqu.TxDatabase) error {
		if err := s.sales.InsertSale(tx, sale); err != nil {
			return err
		}

		return s.bikes.MarkSold(tx, sale.ChassisNumber, sale.BranchID, sale.Date, sale.Price)
	})
	if err != nil {
		return nil, err
	}

	return sale, nil
}

// Update edits customer details or the price of an existing sale. A price
// change propagates to the sold motorcycle so the two never disagree.
func (s *SaleService) Update(actor models.Actor, saleID string, req models.UpdateSaleRequest) (*models.Sale, error) {
	sale, err := s.sales.GetSale(saleID)
	if err != nil {
		return nil, err
	}

	if !roles.CanManageSale(actor.Role, actor.UserID, actor.LocationID, sale.SalesOfficerID, sale.BranchID) {
		return nil, custom_error.NewForbidden("not permitted to modify sale %s", sale.ID)
	}

	changes := models.SaleChanges{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Price:         req.Price,
	}
	if !changes.HasChanges() {
		return nil, custom_error.NewValidation("no changes submitted")
	}
	if changes.Price != nil && !changes.Price.IsPositive() {
		return nil, custom_error.NewValidation("sale price must be positive")
	}

	err = s.db.WithTransaction(func(tx *goqu.TxDatabase) error {
		if err := s.sales.UpdateSale(tx, sale.ID, changes); err != nil {
			return err
		}

		if changes.Price != nil {
			return s.bikes.UpdatePrice(tx, sale.ChassisNumber, *changes.Price)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if changes.CustomerName != nil {
		sale.CustomerName = *changes.CustomerName
	}
	if changes.CustomerPhone != nil {
		sale.CustomerPhone = *changes.CustomerPhone
	}
	if changes.Price != nil {
		sale.Price = *changes.Price
	}
	return sale, nil
}

// Delete voids a sale and puts the motorcycle back on the branch floor.
// Sold bikes never leave their selling branch, so the revert target is
// always AT_BRANCH.
func (s *SaleService) Delete(actor models.Actor, saleID string) (*models.Sale, error) {
	sale, err := s.sales.GetSale(saleID)
	if err != nil {
		return nil, err
	}

	if !roles.CanManageSale(actor.Role, actor.UserID, actor.LocationID, sale.SalesOfficerID, sale.BranchID) {
		return nil, custom_error.NewForbidden("not permitted to delete sale %s", sale.ID)
	}

	err = s.db.WithTransaction(func(tx *goqu.TxDatabase) error {
		if err := s.sales.DeleteSale(tx, sale.ID); err != nil {
			return err
		}

		return s.bikes.RevertSale(tx, sale.ChassisNumber, metadata.MotorcycleAtBranch)
	})
	if err != nil {
		return nil, err
	}

	return sale, nil
}

func (s *SaleService) GetSale(actor models.Actor, saleID string) (*models.Sale, error) {
	sale, err := s.sales.GetSale(saleID)
	if err != nil {
		return nil, err
	}

	if actor.Role.ScopedToLocation() && actor.LocationID != sale.BranchID {
		return nil, custom_error.NewForbidden("sale %s was not made at your location", sale.ID)
	}

	return sale, nil
}

func (s *SaleService) GetSales(actor models.Actor) ([]models.Sale, error) {
	return s.sales.GetSales(actor.Scope())
}
