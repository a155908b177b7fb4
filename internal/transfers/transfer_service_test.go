package transfers

import (
	"testing"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	custom_error "github.com/AsonyaGh/Bina/pkg/errors"
	"github.com/AsonyaGh/Bina/pkg/metadata"
	"github.com/AsonyaGh/Bina/pkg/models"
	"github.com/AsonyaGh/Bina/pkg/roles"
)

type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) InsertTransfer(tx *goqu.TxDatabase, transfer *models.Transfer) error {
	args := m.Called(tx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) GetTransfer(transferID string) (*models.Transfer, error) {
	args := m.Called(transferID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transfer), args.Error(1)
}

func (m *MockTransferRepository) GetTransfers(locationID string) ([]models.Transfer, error) {
	args := m.Called(locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transfer), args.Error(1)
}

func (m *MockTransferRepository) UpdateStatus(tx *goqu.TxDatabase, transferID string, from, to metadata.TransferStatus) error {
	args := m.Called(tx, transferID, from, to)
	return args.Error(0)
}

func (m *MockTransferRepository) CompleteTransfer(tx *goqu.TxDatabase, transferID, receivedBy string, completedAt time.Time) error {
	args := m.Called(tx, transferID, receivedBy, completedAt)
	return args.Error(0)
}

type MockMotorcycleMover struct {
	mock.Mock
}

func (m *MockMotorcycleMover) MoveMotorcycles(tx *goqu.TxDatabase, chassisNumbers []string,
	fromStatus metadata.MotorcycleStatus, fromLocationID string,
	toStatus metadata.MotorcycleStatus, toLocationID string) error {
	args := m.Called(tx, chassisNumbers, fromStatus, fromLocationID, toStatus, toLocationID)
	return args.Error(0)
}

func (m *MockMotorcycleMover) CountAtLocation(chassisNumbers []string, status metadata.MotorcycleStatus, locationID string) (int64, error) {
	args := m.Called(chassisNumbers, status, locationID)
	return args.Get(0).(int64), args.Error(1)
}

type MockLocationDirectory struct {
	mock.Mock
}

func (m *MockLocationDirectory) GetLocation(locationID string) (*models.Location, error) {
	args := m.Called(locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Location), args.Error(1)
}

// passthroughTxRunner hands the transaction callback a nil tx, the mocks do
// not care.
type passthroughTxRunner struct{}

func (passthroughTxRunner) WithTransaction(fn func(tx *goqu.TxDatabase) error) error {
	return fn(nil)
}

var (
	warehouse = &models.Location{ID: "loc_wh_1", Name: "Central Warehouse", Type: metadata.LocationWarehouse}
	branchOne = &models.Location{ID: "loc_br_1", Name: "Downtown Branch", Type: metadata.LocationBranch}
	branchTwo = &models.Location{ID: "loc_br_2", Name: "Northside Branch", Type: metadata.LocationBranch}
)

func newTestService() (*TransferService, *MockTransferRepository, *MockMotorcycleMover, *MockLocationDirectory) {
	tr := new(MockTransferRepository)
	bikes := new(MockMotorcycleMover)
	locations := new(MockLocationDirectory)
	service := NewTransferService(passthroughTxRunner{}, tr, bikes, locations)
	return service, tr, bikes, locations
}

func TestInitiateFromWarehouseStartsPending(t *testing.T) {
	service, tr, bikes, locations := newTestService()

	chassisNumbers := []string{"BW-1000", "BW-1001"}
	locations.On("GetLocation", "loc_wh_1").Return(warehouse, nil)
	locations.On("GetLocation", "loc_br_1").Return(branchOne, nil)
	bikes.On("CountAtLocation", chassisNumbers, metadata.MotorcycleInWarehouse, "loc_wh_1").Return(int64(2), nil)
	tr.On("InsertTransfer", mock.Anything, mock.Anything).Return(nil)
	bikes.On("MoveMotorcycles", mock.Anything, chassisNumbers,
		metadata.MotorcycleInWarehouse, "loc_wh_1",
		metadata.MotorcycleInTransit, metadata.LocationIDTransit).Return(nil)

	actor := models.Actor{UserID: "u_wh", Role: roles.WarehouseManager, LocationID: "loc_wh_1"}
	transfer, err := service.Initiate(actor, models.TransferRequest{
		ToLocationID:   "loc_br_1",
		ChassisNumbers: chassisNumbers,
	})

	assert.NoError(t, err)
	assert.Equal(t, metadata.TransferPending, transfer.Status)
	assert.Equal(t, "IN TRANSIT", transfer.StatusLabel)
	assert.Equal(t, "loc_wh_1", transfer.FromLocationID)
	assert.Equal(t, "loc_br_1", transfer.ToLocationID)
	assert.Equal(t, "u_wh", transfer.InitiatedBy)
	assert.Regexp(t, `^TR-\d{4}$`, transfer.Reference)

	tr.AssertExpectations(t)
	bikes.AssertExpectations(t)
}

func TestInitiateByBranchManagerWaitsForApproval(t *testing.T) {
	service, tr, bikes, locations := newTestService()

	chassisNumbers := []string{"BW-1010"}
	locations.On("GetLocation", "loc_br_1").Return(branchOne, nil)
	locations.On("GetLocation", "loc_br_2").Return(branchTwo, nil)
	bikes.On("CountAtLocation", chassisNumbers, metadata.MotorcycleAtBranch, "loc_br_1").Return(int64(1), nil)
	tr.On("InsertTransfer", mock.Anything, mock.Anything).Return(nil)

	actor := models.Actor{UserID: "u_br1", Role: roles.BranchManager, LocationID: "loc_br_1"}
	transfer, err := service.Initiate(actor, models.TransferRequest{
		ToLocationID:   "loc_br_2",
		ChassisNumbers: chassisNumbers,
	})

	assert.NoError(t, err)
	assert.Equal(t, metadata.TransferPendingApproval, transfer.Status)

	// Bikes stay at the branch until someone approves.
	bikes.AssertNotCalled(t, "MoveMotorcycles",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	tr.AssertExpectations(t)
}

func TestInitiateEmptySelectionRejectedWithoutWrites(t *testing.T) {
	service, tr, bikes, _ := newTestService()

	actor := models.Actor{UserID: "u_wh", Role: roles.WarehouseManager, LocationID: "loc_wh_1"}
	_, err := service.Initiate(actor, models.TransferRequest{
		ToLocationID:   "loc_br_1",
		ChassisNumbers: []string{},
	})

	assert.Error(t, err)
	assert.True(t, custom_error.IsValidation(err))
	tr.AssertNotCalled(t, "InsertTransfer", mock.Anything, mock.Anything)
	bikes.AssertNotCalled(t, "MoveMotorcycles",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInitiateValidation(t *testing.T) {
	tests := []struct {
		name  string
		actor models.Actor
		req   models.TransferRequest
		setup func(bikes *MockMotorcycleMover, locations *MockLocationDirectory)
		check func(t *testing.T, err error)
	}{
		{
			name:  "sales officer forbidden",
			actor: models.Actor{UserID: "u_sales1", Role: roles.SalesOfficer, LocationID: "loc_br_1"},
			req:   models.TransferRequest{ToLocationID: "loc_br_2", ChassisNumbers: []string{"BW-1000"}},
			check: func(t *testing.T, err error) {
				assert.True(t, custom_error.IsForbidden(err))
			},
		},
		{
			name:  "destination equals origin",
			actor: models.Actor{UserID: "u_wh", Role: roles.WarehouseManager, LocationID: "loc_wh_1"},
			req:   models.TransferRequest{ToLocationID: "loc_wh_1", ChassisNumbers: []string{"BW-1000"}},
			check: func(t *testing.T, err error) {
				assert.True(t, custom_error.IsValidation(err))
			},
		},
		{
			name:  "destination must be a branch",
			actor: models.Actor{UserID: "u_br1", Role: roles.BranchManager, LocationID: "loc_br_1"},
			req:   models.TransferRequest{ToLocationID: "loc_wh_1", ChassisNumbers: []string{"BW-1000"}},
			setup: func(bikes *MockMotorcycleMover, locations *MockLocationDirectory) {
				locations.On("GetLocation", "loc_br_1").Return(branchOne, nil)
				locations.On("GetLocation", "loc_wh_1").Return(warehouse, nil)
			},
			check: func(t *testing.T, err error) {
				assert.True(t, custom_error.IsValidation(err))
			},
		},
		{
			name:  "duplicate chassis number",
			actor: models.Actor{UserID: "u_wh", Role: roles.WarehouseManager, LocationID: "loc_wh_1"},
			req:   models.TransferRequest{ToLocationID: "loc_br_1", ChassisNumbers: []string{"BW-1000", "BW-1000"}},
			check: func(t *testing.T, err error) {
				assert.True(t, custom_error.IsValidation(err))
			},
		},
		{
			name:  "stale selection",
			actor: models.Actor{UserID: "u_wh", Role: roles.WarehouseManager, LocationID: "loc_wh_1"},
			req:   models.TransferRequest{ToLocationID: "loc_br_1", ChassisNumbers: []string{"BW-1000", "BW-1001"}},
			setup: func(bikes *MockMotorcycleMover, locations *MockLocationDirectory) {
				locations.On("GetLocation", "loc_wh_1").Return(warehouse, nil)
				locations.On("GetLocation", "loc_br_1").Return(branchOne, nil)
				bikes.On("CountAtLocation", mock.Anything, metadata.MotorcycleInWarehouse, "loc_wh_1").Return(int64(1), nil)
			},
			check: func(t *testing.T, err error) {
				assert.True(t, custom_error.IsPrecondition(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, tr, bikes, locations := newTestService()
			if tt.setup != nil {
				tt.setup(bikes, locations)
			}

			_, err := service.Initiate(tt.actor, tt.req)

			assert.Error(t, err)
			tt.check(t, err)
			tr.AssertNotCalled(t, "InsertTransfer", mock.Anything, mock.Anything)
		})
	}
}

func TestApproveMovesBikesIntoTransit(t *testing.T) {
	service, tr, bikes, locations := newTestService()

	pending := &models.Transfer{
		ID:             "tr_1",
		Reference:      "TR-0001",
		FromLocationID: "loc_br_1",
		ToLocationID:   "loc_br_2",
		ChassisNumbers: []string{"BW-1010"},
		Status:         metadata.TransferPendingApproval,
	}

	tr.On("GetTransfer", "tr_1").Return(pending, nil)
	locations.On("GetLocation", "loc_br_1").Return(branchOne, nil)
	tr.On("UpdateStatus", mock.Anything, "tr_1",
		metadata.TransferPendingApproval, metadata.TransferPending).Return(nil)
	bikes.On("MoveMotorcycles", mock.Anything, []string{"BW-1010"},
		metadata.MotorcycleAtBranch, "loc_br_1",
		metadata.MotorcycleInTransit, metadata.LocationIDTransit).Return(nil)

	actor := models.Actor{UserID: "u_admin", Role: roles.Admin}
	transfer, err := service.Approve(actor, "tr_1")

	assert.NoError(t, err)
	assert.Equal(t, metadata.TransferPending, transfer.Status)
	tr.AssertExpectations(t)
	bikes.AssertExpectations(t)
}

func TestReceiveCompletesAtDestination(t *testing.T) {
	service, tr, bikes, locations := newTestService()

	inTransit := &models.Transfer{
		ID:             "tr_1",
		Reference:      "TR-0001",
		FromLocationID: "loc_br_1",
		ToLocationID:   "loc_br_2",
		ChassisNumbers: []string{"BW-1010"},
		Status:         metadata.TransferPending,
	}

	tr.On("GetTransfer", "tr_1").Return(inTransit, nil)
	tr.On("CompleteTransfer", mock.Anything, "tr_1", "u_br2", mock.Anything).Return(nil)
	bikes.On("MoveMotorcycles", mock.Anything, []string{"BW-1010"},
		metadata.MotorcycleInTransit, metadata.LocationIDTransit,
		metadata.MotorcycleAtBranch, "loc_br_2").Return(nil)

	actor := models.Actor{UserID: "u_br2", Role: roles.BranchManager, LocationID: "loc_br_2"}
	transfer, err := service.Receive(actor, "tr_1")

	assert.NoError(t, err)
	assert.Equal(t, metadata.TransferCompleted, transfer.Status)
	assert.Equal(t, "u_br2", *transfer.ReceivedBy)
	assert.NotNil(t, transfer.DateCompleted)
	locations.AssertNotCalled(t, "GetLocation", mock.Anything)
	tr.AssertExpectations(t)
	bikes.AssertExpectations(t)
}

func TestReceiveAtWrongBranchForbidden(t *testing.T) {
	service, tr, bikes, _ := newTestService()

	inTransit := &models.Transfer{
		ID:             "tr_1",
		Reference:      "TR-0001",
		FromLocationID: "loc_br_1",
		ToLocationID:   "loc_br_2",
		ChassisNumbers: []string{"BW-1010"},
		Status:         metadata.TransferPending,
	}
	tr.On("GetTransfer", "tr_1").Return(inTransit, nil)

	actor := models.Actor{UserID: "u_br1", Role: roles.BranchManager, LocationID: "loc_br_1"}
	_, err := service.Receive(actor, "tr_1")

	assert.Error(t, err)
	assert.True(t, custom_error.IsForbidden(err))
	bikes.AssertNotCalled(t, "MoveMotorcycles",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReceiveTwiceFailsPrecondition(t *testing.T) {
	service, tr, bikes, _ := newTestService()

	inTransit := &models.Transfer{
		ID:             "tr_1",
		Reference:      "TR-0001",
		FromLocationID: "loc_wh_1",
		ToLocationID:   "loc_br_1",
		ChassisNumbers: []string{"BW-1000"},
		Status:         metadata.TransferPending,
	}

	tr.On("GetTransfer", "tr_1").Return(inTransit, nil)
	tr.On("CompleteTransfer", mock.Anything, "tr_1", "u_admin", mock.Anything).Return(nil).Once()
	tr.On("CompleteTransfer", mock.Anything, "tr_1", "u_admin", mock.Anything).
		Return(custom_error.NewPrecondition("transfer tr_1 is not pending receipt")).Once()
	bikes.On("MoveMotorcycles", mock.Anything, []string{"BW-1000"},
		metadata.MotorcycleInTransit, metadata.LocationIDTransit,
		metadata.MotorcycleAtBranch, "loc_br_1").Return(nil).Once()

	actor := models.Actor{UserID: "u_admin", Role: roles.Admin}

	_, err := service.Receive(actor, "tr_1")
	assert.NoError(t, err)

	_, err = service.Receive(actor, "tr_1")
	assert.Error(t, err)
	assert.True(t, custom_error.IsPrecondition(err))

	tr.AssertExpectations(t)
	bikes.AssertExpectations(t)
}

func TestCancelPendingRevertsBikesToOrigin(t *testing.T) {
	service, tr, bikes, locations := newTestService()

	chassisNumbers := []string{"BW-1000", "BW-1001", "BW-1002"}
	inTransit := &models.Transfer{
		ID:             "tr_1",
		Reference:      "TR-0001",
		FromLocationID: "loc_wh_1",
		ToLocationID:   "loc_br_1",
		ChassisNumbers: chassisNumbers,
		Status:         metadata.TransferPending,
		InitiatedBy:    "u_wh",
	}

	tr.On("GetTransfer", "tr_1").Return(inTransit, nil)
	locations.On("GetLocation", "loc_wh_1").Return(warehouse, nil)
	tr.On("UpdateStatus", mock.Anything, "tr_1",
		metadata.TransferPending, metadata.TransferCancelled).Return(nil)
	bikes.On("MoveMotorcycles", mock.Anything, chassisNumbers,
		metadata.MotorcycleInTransit, metadata.LocationIDTransit,
		metadata.MotorcycleInWarehouse, "loc_wh_1").Return(nil)

	actor := models.Actor{UserID: "u_wh", Role: roles.WarehouseManager, LocationID: "loc_wh_1"}
	transfer, err := service.Cancel(actor, "tr_1")

	assert.NoError(t, err)
	assert.Equal(t, metadata.TransferCancelled, transfer.Status)
	tr.AssertExpectations(t)
	bikes.AssertExpectations(t)
}

func TestCancelPendingApprovalLeavesBikesAlone(t *testing.T) {
	service, tr, bikes, locations := newTestService()

	waiting := &models.Transfer{
		ID:             "tr_1",
		Reference:      "TR-0001",
		FromLocationID: "loc_br_1",
		ToLocationID:   "loc_br_2",
		ChassisNumbers: []string{"BW-1010"},
		Status:         metadata.TransferPendingApproval,
		InitiatedBy:    "u_br1",
	}

	tr.On("GetTransfer", "tr_1").Return(waiting, nil)
	locations.On("GetLocation", "loc_br_1").Return(branchOne, nil)
	tr.On("UpdateStatus", mock.Anything, "tr_1",
		metadata.TransferPendingApproval, metadata.TransferCancelled).Return(nil)

	actor := models.Actor{UserID: "u_br1", Role: roles.BranchManager, LocationID: "loc_br_1"}
	transfer, err := service.Cancel(actor, "tr_1")

	assert.NoError(t, err)
	assert.Equal(t, metadata.TransferCancelled, transfer.Status)
	// Nothing moved: the bikes never left the origin.
	bikes.AssertNotCalled(t, "MoveMotorcycles",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelCompletedRejected(t *testing.T) {
	service, tr, bikes, _ := newTestService()

	receivedBy := "u_br1"
	done := &models.Transfer{
		ID:             "tr_1",
		Reference:      "TR-0001",
		FromLocationID: "loc_wh_1",
		ToLocationID:   "loc_br_1",
		ChassisNumbers: []string{"BW-1000"},
		Status:         metadata.TransferCompleted,
		ReceivedBy:     &receivedBy,
	}
	tr.On("GetTransfer", "tr_1").Return(done, nil)

	actor := models.Actor{UserID: "u_admin", Role: roles.Admin}
	_, err := service.Cancel(actor, "tr_1")

	assert.Error(t, err)
	assert.True(t, custom_error.IsPrecondition(err))
	tr.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	bikes.AssertNotCalled(t, "MoveMotorcycles",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetTransfersScopesToActorLocation(t *testing.T) {
	service, tr, _, _ := newTestService()

	tr.On("GetTransfers", "loc_br_1").Return([]models.Transfer{}, nil)

	actor := models.Actor{UserID: "u_br1", Role: roles.BranchManager, LocationID: "loc_br_1"}
	_, err := service.GetTransfers(actor)

	assert.NoError(t, err)
	tr.AssertExpectations(t)
}
