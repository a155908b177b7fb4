package motorcycles

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/AsonyaGh/Bina/internal/repository"
	custom_error "github.com/AsonyaGh/Bina/pkg/errors"
	"github.com/AsonyaGh/Bina/pkg/metadata"
	"github.com/AsonyaGh/Bina/pkg/models"
)

var motorcycleColumns = []interface{}{
	"chassis_number", "type", "color", "status", "current_location_id",
	"import_date", "sold_date", "price",
}

type MotorcycleRepository struct {
	Repository *repository.Repository
}

func NewRepository(r *repository.Repository) *MotorcycleRepository {
	return &MotorcycleRepository{Repository: r}
}

// GetMotorcycles lists undeleted stock, optionally narrowed to one location.
func (r *MotorcycleRepository) GetMotorcycles(locationID string) ([]models.Motorcycle, error) {
	query := r.Repository.GoquDBWrapper.
		From("motorcycles").
		Select(motorcycleColumns...).
		Where(goqu.C("deleted_at").IsNull()).
		Order(goqu.I("chassis_number").Asc())

	if locationID != "" {
		query = query.Where(goqu.Ex{"current_location_id": locationID})
	}

	var flatRecords []models.FlatMotorcycleRecord
	if err := query.Executor().ScanStructs(&flatRecords); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	bikes := make([]models.Motorcycle, 0, len(flatRecords))
	for i := range flatRecords {
		bikes = append(bikes, flatRecords[i].TransformToMotorcycle())
	}

	return bikes, nil
}

func (r *MotorcycleRepository) GetMotorcycle(chassisNumber string) (*models.Motorcycle, error) {
	query := r.Repository.GoquDBWrapper.
		From("motorcycles").
		Select(motorcycleColumns...).
		Where(goqu.Ex{"chassis_number": chassisNumber}).
		Where(goqu.C("deleted_at").IsNull())

	var flat models.FlatMotorcycleRecord
	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to get motorcycle: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("motorcycle", chassisNumber)
	}

	bike := flat.TransformToMotorcycle()
	return &bike, nil
}

func (r *MotorcycleRepository) PersistMotorcycle(bike *models.Motorcycle) error {
	query := r.Repository.GoquDBWrapper.Insert("motorcycles").
		Rows(goqu.Record{
			"chassis_number":      bike.ChassisNumber,
			"type":                bike.Type,
			"color":               bike.Color,
			"status":              bike.Status,
			"current_location_id": bike.CurrentLocationID,
			"import_date":         bike.ImportDate,
		})

	if _, err := query.Executor().Exec(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError(
				fmt.Sprintf("chassis number %s already registered", bike.ChassisNumber),
				string(pqErr.Code),
			)
		}
		return fmt.Errorf("failed to insert motorcycle: %w", err)
	}

	return nil
}

func (r *MotorcycleRepository) PersistMotorcycleBatch(tx *goqu.TxDatabase, bikes []models.Motorcycle) error {
	rows := make([]interface{}, 0, len(bikes))
	for _, bike := range bikes {
		rows = append(rows, goqu.Record{
			"chassis_number":      bike.ChassisNumber,
			"type":                bike.Type,
			"color":               bike.Color,
			"status":              bike.Status,
			"current_location_id": bike.CurrentLocationID,
			"import_date":         bike.ImportDate,
		})
	}

	query := tx.Insert("motorcycles").Rows(rows...)

	if _, err := query.Executor().Exec(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("chassis number already registered", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert motorcycle batch: %w", err)
	}

	return nil
}

// UpdateDetails edits type and color only. Status and location are owned by
// the transfer and sale engines.
func (r *MotorcycleRepository) UpdateDetails(chassisNumber string, req models.UpdateMotorcycleRequest) (*models.Motorcycle, error) {
	updates := goqu.Record{}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if len(updates) == 0 {
		return nil, custom_error.NewValidation("no fields to update")
	}

	result, err := r.Repository.GoquDBWrapper.
		Update("motorcycles").
		Set(updates).
		Where(goqu.Ex{"chassis_number": chassisNumber}).
		Where(goqu.C("deleted_at").IsNull()).
		Executor().Exec()
	if err != nil {
		return nil, fmt.Errorf("failed to update motorcycle: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, custom_error.NewNotFound("motorcycle", chassisNumber)
	}

	return r.GetMotorcycle(chassisNumber)
}

// SoftDelete retires a motorcycle record without losing its history. Bikes
// in transit stay untouched, removing one mid-transfer would strand the
// transfer's bookkeeping.
func (r *MotorcycleRepository) SoftDelete(chassisNumber string) error {
	result, err := r.Repository.GoquDBWrapper.
		Update("motorcycles").
		Set(goqu.Record{"deleted_at": time.Now()}).
		Where(goqu.Ex{"chassis_number": chassisNumber}).
		Where(goqu.C("deleted_at").IsNull()).
		Where(goqu.C("status").Neq(metadata.MotorcycleInTransit)).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to delete motorcycle: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewPrecondition(
			"motorcycle %s not found or currently in transit", chassisNumber,
		)
	}

	return nil
}

// MoveMotorcycles flips status and location for the whole batch in one
// conditional update. The WHERE clause re-checks the expected source state
// at commit time: if another actor already moved any of the bikes, the row
// count comes up short and the caller's transaction must roll back.
func (r *MotorcycleRepository) MoveMotorcycles(
	tx *goqu.TxDatabase,
	chassisNumbers []string,
	fromStatus metadata.MotorcycleStatus, fromLocationID string,
	toStatus metadata.MotorcycleStatus, toLocationID string,
) error {
	result, err := tx.
		Update("motorcycles").
		Set(goqu.Record{
			"status":              toStatus,
			"current_location_id": toLocationID,
		}).
		Where(goqu.C("chassis_number").In(chassisNumbers)).
		Where(goqu.Ex{
			"status":              fromStatus,
			"current_location_id": fromLocationID,
		}).
		Where(goqu.C("deleted_at").IsNull()).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to move motorcycles: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected != int64(len(chassisNumbers)) {
		return custom_error.NewPrecondition(
			"expected to move %d motorcycles from %s, moved %d; selection is stale",
			len(chassisNumbers), fromLocationID, rowsAffected,
		)
	}

	return nil
}

// CountAtLocation reports how many of the listed bikes currently stand at
// the location in the given status. Used as a selection-time stock check;
// the authoritative check is the conditional update in MoveMotorcycles.
func (r *MotorcycleRepository) CountAtLocation(chassisNumbers []string, status metadata.MotorcycleStatus, locationID string) (int64, error) {
	var count int64
	query := r.Repository.GoquDBWrapper.
		From("motorcycles").
		Select(goqu.COUNT("chassis_number")).
		Where(goqu.C("chassis_number").In(chassisNumbers)).
		Where(goqu.Ex{
			"status":              status,
			"current_location_id": locationID,
		}).
		Where(goqu.C("deleted_at").IsNull())

	if _, err := query.Executor().ScanVal(&count); err != nil {
		return 0, fmt.Errorf("failed to count motorcycles at location: %w", err)
	}

	return count, nil
}

// MarkSold transitions one bike AT_BRANCH -> SOLD, stamping the sale fields.
// Conditional on the bike still standing at the selling branch.
func (r *MotorcycleRepository) MarkSold(
	tx *goqu.TxDatabase,
	chassisNumber, branchID string,
	soldDate time.Time, price decimal.Decimal,
) error {
	result, err := tx.
		Update("motorcycles").
		Set(goqu.Record{
			"status":    metadata.MotorcycleSold,
			"sold_date": soldDate,
			"price":     price,
		}).
		Where(goqu.Ex{
			"chassis_number":      chassisNumber,
			"status":              metadata.MotorcycleAtBranch,
			"current_location_id": branchID,
		}).
		Where(goqu.C("deleted_at").IsNull()).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to mark motorcycle sold: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewPrecondition(
			"motorcycle %s is not available at branch %s", chassisNumber, branchID,
		)
	}

	return nil
}

// RevertSale undoes MarkSold, restoring the status implied by the bike's
// current location and clearing the sale fields.
func (r *MotorcycleRepository) RevertSale(
	tx *goqu.TxDatabase,
	chassisNumber string,
	revertStatus metadata.MotorcycleStatus,
) error {
	result, err := tx.
		Update("motorcycles").
		Set(goqu.Record{
			"status":    revertStatus,
			"sold_date": nil,
			"price":     nil,
		}).
		Where(goqu.Ex{
			"chassis_number": chassisNumber,
			"status":         metadata.MotorcycleSold,
		}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to revert motorcycle sale: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewPrecondition("motorcycle %s is not sold", chassisNumber)
	}

	return nil
}

// UpdatePrice mirrors a sale price change onto the sold motorcycle.
func (r *MotorcycleRepository) UpdatePrice(tx *goqu.TxDatabase, chassisNumber string, price decimal.Decimal) error {
	result, err := tx.
		Update("motorcycles").
		Set(goqu.Record{"price": price}).
		Where(goqu.Ex{
			"chassis_number": chassisNumber,
			"status":         metadata.MotorcycleSold,
		}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update motorcycle price: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewPrecondition("motorcycle %s is not sold", chassisNumber)
	}

	return nil
}
