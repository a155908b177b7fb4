package transfers

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/AsonyaGh/Bina/internal/repository"
	custom_error "github.com/AsonyaGh/Bina/pkg/errors"
	"github.com/AsonyaGh/Bina/pkg/metadata"
	"github.com/AsonyaGh/Bina/pkg/models"
)

type transferRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) TransferRepository {
	return &transferRepositoryImpl{repository: r}
}

func (r *transferRepositoryImpl) InsertTransfer(tx *goqu.TxDatabase, transfer *models.Transfer) error {
	query := tx.Insert("transfers").
		Rows(goqu.Record{
			"id":               transfer.ID,
			"reference":        transfer.Reference,
			"from_location_id": transfer.FromLocationID,
			"to_location_id":   transfer.ToLocationID,
			"status":           transfer.Status,
			"initiated_by":     transfer.InitiatedBy,
			"date_initiated":   transfer.DateInitiated,
		})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert transfer: %w", err)
	}

	manifestRows := make([]interface{}, 0, len(transfer.ChassisNumbers))
	for _, chassisNumber := range transfer.ChassisNumbers {
		manifestRows = append(manifestRows, goqu.Record{
			"transfer_id":    transfer.ID,
			"chassis_number": chassisNumber,
		})
	}

	manifestQuery := tx.Insert("transfer_motorcycles").Rows(manifestRows...)
	if _, err := manifestQuery.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert transfer manifest: %w", err)
	}

	return nil
}

func (r *transferRepositoryImpl) GetTransfer(transferID string) (*models.Transfer, error) {
	var flat models.FlatTransferRecord
	query := r.repository.GoquDBWrapper.
		From("transfers").
		Select("id", "reference", "from_location_id", "to_location_id", "status",
			"initiated_by", "received_by", "date_initiated", "date_completed").
		Where(goqu.Ex{"id": transferID})

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer: %w", err)
	}
	if !found {
		return nil, custom_error.NewNotFound("transfer", transferID)
	}

	transfer := flat.TransformToTransfer()

	transfer.ChassisNumbers, err = r.getManifest(transferID)
	if err != nil {
		return nil, err
	}

	return &transfer, nil
}

// GetTransfers lists transfers newest first, narrowed to those touching the
// location when one is given.
func (r *transferRepositoryImpl) GetTransfers(locationID string) ([]models.Transfer, error) {
	query := r.repository.GoquDBWrapper.
		From("transfers").
		Select("id", "reference", "from_location_id", "to_location_id", "status",
			"initiated_by", "received_by", "date_initiated", "date_completed").
		Order(goqu.I("date_initiated").Desc())

	if locationID != "" {
		query = query.Where(goqu.Or(
			goqu.Ex{"from_location_id": locationID},
			goqu.Ex{"to_location_id": locationID},
		))
	}

	var flatTransfers []models.FlatTransferRecord
	if err := query.Executor().ScanStructs(&flatTransfers); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	transfers := make([]models.Transfer, 0, len(flatTransfers))
	for i := range flatTransfers {
		transfer := flatTransfers[i].TransformToTransfer()

		manifest, err := r.getManifest(transfer.ID)
		if err != nil {
			return nil, err
		}
		transfer.ChassisNumbers = manifest

		transfers = append(transfers, transfer)
	}

	return transfers, nil
}

// UpdateStatus performs the state transition conditionally: zero affected
// rows means the transfer was no longer in the expected state, which the
// caller surfaces as a retryable precondition failure.
func (r *transferRepositoryImpl) UpdateStatus(tx *goqu.TxDatabase, transferID string, from, to metadata.TransferStatus) error {
	result, err := tx.
		Update("transfers").
		Set(goqu.Record{"status": to}).
		Where(goqu.Ex{
			"id":     transferID,
			"status": from,
		}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update transfer status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewPrecondition("transfer %s is no longer %s", transferID, from)
	}

	return nil
}

func (r *transferRepositoryImpl) CompleteTransfer(tx *goqu.TxDatabase, transferID, receivedBy string, completedAt time.Time) error {
	result, err := tx.
		Update("transfers").
		Set(goqu.Record{
			"status":         metadata.TransferCompleted,
			"received_by":    receivedBy,
			"date_completed": completedAt,
		}).
		Where(goqu.Ex{
			"id":     transferID,
			"status": metadata.TransferPending,
		}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to complete transfer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return custom_error.NewPrecondition("transfer %s is not pending receipt", transferID)
	}

	return nil
}

func (r *transferRepositoryImpl) getManifest(transferID string) ([]string, error) {
	var chassisNumbers []string
	query := r.repository.GoquDBWrapper.
		From("transfer_motorcycles").
		Select("chassis_number").
		Where(goqu.Ex{"transfer_id": transferID}).
		Order(goqu.I("chassis_number").Asc())

	if err := query.Executor().ScanVals(&chassisNumbers); err != nil {
		return nil, fmt.Errorf("failed to load transfer manifest: %w", err)
	}

	return chassisNumbers, nil
}
