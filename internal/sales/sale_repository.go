package sales

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/AsonyaGh/Bina/internal/repository"
	custom_error "github.com/AsonyaGh/Bina/pkg/errors"
	"github.com/AsonyaGh/Bina/pkg/models"
)

type SaleRepository interface {
	InsertSale(tx *goqu.TxDatabase, sale *models.Sale) error
	GetSale(saleID string) (*models.Sale, error)
	GetSales(locationID string) ([]models.Sale, error)
	UpdateSale(tx *goqu.TxDatabase, saleID string, changes models.SaleChanges) error
	DeleteSale(tx *goqu.TxDatabase, saleID string) error
}

type saleRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) SaleRepository {
	return &saleRepositoryImpl{repository: r}
}

var saleColumns = []interface{}{
	"id", "chassis_number", "customer_name", "customer_phone",
	"price", "sales_officer_id", "branch_id", "date",
}

func (r *saleRepositoryImpl) InsertSale(tx *goqu.TxDatabase, sale *models.Sale) error {
	query := tx.Insert("sales").
		Rows(goqu.Record{
			"id":               sale.ID,
			"chassis_number":   sale.ChassisNumber,
			"customer_name":    sale.CustomerName,
			"customer_phone":   sale.CustomerPhone,
			"price":            sale.Price,
			"sales_officer_id": sale.SalesOfficerID,
			"branch_id":        sale.BranchID,
			"date":             sale.Date,
		})

	if _, err := query.Executor().Exec(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("motorcycle already has a recorded sale", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert sale: %w", err)
	}

	return nil
}

func (r *saleRepositoryImpl) GetSale(saleID string) (*models.Sale, error) {
	query := r.repository.GoquDBWrapper.
		From("sales").
		Select(saleColumns...).
		Where(goqu.Ex{"id": saleID})

	var sale models.Sale
	found, err := query.Executor().ScanStruct(&sale)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("sale", saleID)
	}

	return &sale, nil
}

// GetSales lists newest first, optionally restricted to one branch.
func (r *saleRepositoryImpl) GetSales(locationID string) ([]models.Sale, error) {
	query := r.repository.GoquDBWrapper.
		From("sales").
		Select(saleColumns...).
		Order(goqu.I("date").Desc())

	if locationID != "" {
		query = query.Where(goqu.Ex{"branch_id": locationID})
	}

	var sales []models.Sale
	if err := query.Executor().ScanStructs(&sales); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return sales, nil
}

func (r *saleRepositoryImpl) UpdateSale(tx *goqu.TxDatabase, saleID string, changes models.SaleChanges) error {
	record := goqu.Record{}
	if changes.CustomerName != nil {
		record["customer_name"] = *changes.CustomerName
	}
	if changes.CustomerPhone != nil {
		record["customer_phone"] = *changes.CustomerPhone
	}
	if changes.Price != nil {
		record["price"] = *changes.Price
	}

	result, err := tx.Update("sales").
		Set(record).
		Where(goqu.Ex{"id": saleID}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update sale: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("sale", saleID)
	}

	return nil
}

func (r *saleRepositoryImpl) DeleteSale(tx *goqu.TxDatabase, saleID string) error {
	result, err := tx.Delete("sales").
		Where(goqu.Ex{"id": saleID}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewNotFound("sale", saleID)
	}

	return nil
}
