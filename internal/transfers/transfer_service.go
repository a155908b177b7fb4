package transfers

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	custom_error "github.com/AsonyaGh/Bina/pkg/errors"
	"github.com/AsonyaGh/Bina/pkg/metadata"
	"github.com/AsonyaGh/Bina/pkg/models"
	"github.com/AsonyaGh/Bina/pkg/roles"
)

type TransferRepository interface {
	InsertTransfer(tx *goqu.TxDatabase, transfer *models.Transfer) error
	GetTransfer(transferID string) (*models.Transfer, error)
	GetTransfers(locationID string) ([]models.Transfer, error)
	UpdateStatus(tx *goqu.TxDatabase, transferID string, from, to metadata.TransferStatus) error
	CompleteTransfer(tx *goqu.TxDatabase, transferID, receivedBy string, completedAt time.Time) error
}

// MotorcycleMover is the slice of the motorcycle repository the transfer
// engine drives. MoveMotorcycles re-checks the expected source state inside
// the transaction, so a stale selection fails the whole batch at commit
// time instead of double-moving a bike.
type MotorcycleMover interface {
	MoveMotorcycles(tx *goqu.TxDatabase, chassisNumbers []string,
		fromStatus metadata.MotorcycleStatus, fromLocationID string,
		toStatus metadata.MotorcycleStatus, toLocationID string) error
	CountAtLocation(chassisNumbers []string, status metadata.MotorcycleStatus, locationID string) (int64, error)
}

type LocationDirectory interface {
	GetLocation(locationID string) (*models.Location, error)
}

type txRunner interface {
	WithTransaction(fn func(tx *goqu.TxDatabase) error) error
}

type TransferService struct {
	db        txRunner
	tr        TransferRepository
	bikes     MotorcycleMover
	locations LocationDirectory
}

func NewTransferService(db txRunner, tr TransferRepository, bikes MotorcycleMover, locations LocationDirectory) *TransferService {
	return &TransferService{
		db:        db,
		tr:        tr,
		bikes:     bikes,
		locations: locations,
	}
}

// Initiate creates a transfer of the listed motorcycles. Branch-manager
// requests start in PENDING_APPROVAL with the bikes untouched; everyone
// else's start in PENDING with the bikes moved to the TRANSIT sentinel in
// the same transaction.
func (s *TransferService) Initiate(actor models.Actor, req models.TransferRequest) (*models.Transfer, error) {
	if !actor.Role.CanInitiateTransfer() {
		return nil, custom_error.NewForbidden("role %s cannot initiate transfers", actor.Role)
	}

	fromLocationID := req.FromLocationID
	if actor.Role.ScopedToLocation() {
		fromLocationID = actor.LocationID
	}

	if fromLocationID == "" {
		return nil, custom_error.NewValidation("origin location is required")
	}
	if len(req.ChassisNumbers) == 0 {
		return nil, custom_error.NewValidation("cannot create an empty transfer")
	}
	if fromLocationID == req.ToLocationID {
		return nil, custom_error.NewValidation("origin and destination must differ")
	}
	if duplicated := firstDuplicate(req.ChassisNumbers); duplicated != "" {
		return nil, custom_error.NewValidation("chassis number %s listed twice", duplicated)
	}

	origin, err := s.locations.GetLocation(fromLocationID)
	if err != nil {
		return nil, err
	}
	destination, err := s.locations.GetLocation(req.ToLocationID)
	if err != nil {
		return nil, err
	}
	if destination.Type != metadata.LocationBranch {
		return nil, custom_error.NewValidation("destination must be a branch")
	}

	requiredStatus := origin.Type.ExpectedStatus()

	available, err := s.bikes.CountAtLocation(req.ChassisNumbers, requiredStatus, origin.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify stock: %w", err)
	}
	if available != int64(len(req.ChassisNumbers)) {
		return nil, custom_error.NewPrecondition(
			"only %d of %d selected motorcycles are available at %s",
			available, len(req.ChassisNumbers), origin.Name,
		)
	}

	initialStatus := metadata.TransferPending
	if actor.Role.RequiresTransferApproval() {
		initialStatus = metadata.TransferPendingApproval
	}

	transfer := &models.Transfer{
		ID:             "tr_" + uuid.NewString(),
		Reference:      fmt.Sprintf("TR-%04d", rand.Intn(10000)),
		FromLocationID: origin.ID,
		ToLocationID:   destination.ID,
		ChassisNumbers: req.ChassisNumbers,
		Status:         initialStatus,
		StatusLabel:    initialStatus.DisplayLabel(),
		InitiatedBy:    actor.UserID,
		DateInitiated:  time.Now(),
	}

	err = s.db.WithTransaction(func(tx *goqu.TxDatabase) error {
		if err := s.tr.InsertTransfer(tx, transfer); err != nil {
			return fmt.Errorf("failed to insert transfer record: %w", err)
		}

		// Bikes only leave the origin once the transfer is operational.
		if transfer.Status == metadata.TransferPending {
			return s.bikes.MoveMotorcycles(tx, transfer.ChassisNumbers,
				requiredStatus, origin.ID,
				metadata.MotorcycleInTransit, metadata.LocationIDTransit)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return transfer, nil
}

// Approve moves a PENDING_APPROVAL transfer to PENDING and executes the
// deferred bike move.
func (s *TransferService) Approve(actor models.Actor, transferID string) (*models.Transfer, error) {
	if !actor.Role.CanApproveTransfer() {
		return nil, custom_error.NewForbidden("role %s cannot approve transfers", actor.Role)
	}

	transfer, err := s.tr.GetTransfer(transferID)
	if err != nil {
		return nil, err
	}

	if actor.Role.ScopedToLocation() && actor.LocationID != transfer.FromLocationID {
		return nil, custom_error.NewForbidden("transfer %s does not originate at your location", transfer.Reference)
	}

	origin, err := s.locations.GetLocation(transfer.FromLocationID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithTransaction(func(tx *goqu.TxDatabase) error {
		if err := s.tr.UpdateStatus(tx, transfer.ID, metadata.TransferPendingApproval, metadata.TransferPending); err != nil {
			return err
		}

		return s.bikes.MoveMotorcycles(tx, transfer.ChassisNumbers,
			origin.Type.ExpectedStatus(), origin.ID,
			metadata.MotorcycleInTransit, metadata.LocationIDTransit)
	})
	if err != nil {
		return nil, err
	}

	transfer.Status = metadata.TransferPending
	transfer.StatusLabel = transfer.Status.DisplayLabel()
	return transfer, nil
}

// Receive confirms delivery at the destination: the transfer completes and
// every bike lands AT_BRANCH at the destination.
func (s *TransferService) Receive(actor models.Actor, transferID string) (*models.Transfer, error) {
	if !actor.Role.CanReceiveTransfer() {
		return nil, custom_error.NewForbidden("role %s cannot receive transfers", actor.Role)
	}

	transfer, err := s.tr.GetTransfer(transferID)
	if err != nil {
		return nil, err
	}

	if actor.Role.ScopedToLocation() && actor.LocationID != transfer.ToLocationID {
		return nil, custom_error.NewForbidden("transfer %s is not destined for your location", transfer.Reference)
	}

	receivedAt := time.Now()
	err = s.db.WithTransaction(func(tx *goqu.TxDatabase) error {
		if err := s.tr.CompleteTransfer(tx, transfer.ID, actor.UserID, receivedAt); err != nil {
			return err
		}

		return s.bikes.MoveMotorcycles(tx, transfer.ChassisNumbers,
			metadata.MotorcycleInTransit, metadata.LocationIDTransit,
			metadata.MotorcycleAtBranch, transfer.ToLocationID)
	})
	if err != nil {
		return nil, err
	}

	transfer.Status = metadata.TransferCompleted
	transfer.StatusLabel = transfer.Status.DisplayLabel()
	transfer.ReceivedBy = &actor.UserID
	transfer.DateCompleted = &receivedAt
	return transfer, nil
}

// Cancel aborts a transfer that has not completed. Bikes already pulled
// into transit are returned to the origin with the status its location type
// implies; a PENDING_APPROVAL cancellation has nothing to revert.
func (s *TransferService) Cancel(actor models.Actor, transferID string) (*models.Transfer, error) {
	transfer, err := s.tr.GetTransfer(transferID)
	if err != nil {
		return nil, err
	}

	if !s.mayCancel(actor, transfer) {
		return nil, custom_error.NewForbidden("not permitted to cancel transfer %s", transfer.Reference)
	}

	if !transfer.Status.IsCancellable() {
		return nil, custom_error.NewPrecondition(
			"transfer %s is %s and can no longer be cancelled", transfer.Reference, transfer.Status,
		)
	}

	origin, err := s.locations.GetLocation(transfer.FromLocationID)
	if err != nil {
		return nil, err
	}

	// The conditional status update re-checks the state read above, so a
	// concurrent receive loses the race cleanly.
	frozenStatus := transfer.Status
	err = s.db.WithTransaction(func(tx *goqu.TxDatabase) error {
		if err := s.tr.UpdateStatus(tx, transfer.ID, frozenStatus, metadata.TransferCancelled); err != nil {
			return err
		}

		if frozenStatus == metadata.TransferPending {
			return s.bikes.MoveMotorcycles(tx, transfer.ChassisNumbers,
				metadata.MotorcycleInTransit, metadata.LocationIDTransit,
				origin.Type.ExpectedStatus(), origin.ID)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	transfer.Status = metadata.TransferCancelled
	transfer.StatusLabel = transfer.Status.DisplayLabel()
	return transfer, nil
}

func (s *TransferService) GetTransfer(actor models.Actor, transferID string) (*models.Transfer, error) {
	transfer, err := s.tr.GetTransfer(transferID)
	if err != nil {
		return nil, err
	}

	if actor.Role.ScopedToLocation() &&
		actor.LocationID != transfer.FromLocationID && actor.LocationID != transfer.ToLocationID {
		return nil, custom_error.NewForbidden("transfer %s does not involve your location", transfer.Reference)
	}

	return transfer, nil
}

func (s *TransferService) GetTransfers(actor models.Actor) ([]models.Transfer, error) {
	return s.tr.GetTransfers(actor.Scope())
}

func (s *TransferService) mayCancel(actor models.Actor, transfer *models.Transfer) bool {
	if actor.Role == roles.Admin {
		return true
	}
	if !actor.Role.CanInitiateTransfer() {
		return false
	}
	return actor.UserID == transfer.InitiatedBy || actor.LocationID == transfer.FromLocationID
}

func firstDuplicate(chassisNumbers []string) string {
	seen := make(map[string]struct{}, len(chassisNumbers))
	for _, chassisNumber := range chassisNumbers {
		if _, ok := seen[chassisNumber]; ok {
			return chassisNumber
		}
		seen[chassisNumber] = struct{}{}
	}
	return ""
}
