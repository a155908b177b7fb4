package sales

import (
	"testing"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	custom_error "github.com/AsonyaGh/Bina/pkg/errors"
	"github.com/AsonyaGh/Bina/pkg/metadata"
	"github.com/AsonyaGh/Bina/pkg/models"
	"github.com/AsonyaGh/Bina/pkg/roles"
)

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) InsertSale(tx *goqu.TxDatabase, sale *models.Sale) error {
	args := m.Called(tx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) GetSale(saleID string) (*models.Sale, error) {
	args := m.Called(saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Sale), args.Error(1)
}

func (m *MockSaleRepository) GetSales(locationID string) ([]models.Sale, error) {
	args := m.Called(locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Sale), args.Error(1)
}

func (m *MockSaleRepository) UpdateSale(tx *goqu.TxDatabase, saleID string, changes models.SaleChanges) error {
	args := m.Called(tx, saleID, changes)
	return args.Error(0)
}

func (m *MockSaleRepository) DeleteSale(tx *goqu.TxDatabase, saleID string) error {
	args := m.Called(tx, saleID)
	return args.Error(0)
}

type MockMotorcycleSeller struct {
	mock.Mock
}

func (m *MockMotorcycleSeller) MarkSold(tx *goqu.TxDatabase, chassisNumber, branchID string, soldDate time.Time, price decimal.Decimal) error {
	args := m.Called(tx, chassisNumber, branchID, soldDate, price)
	return args.Error(0)
}

func (m *MockMotorcycleSeller) RevertSale(tx *goqu.TxDatabase, chassisNumber string, revertStatus metadata.MotorcycleStatus) error {
	args := m.Called(tx, chassisNumber, revertStatus)
	return args.Error(0)
}

func (m *MockMotorcycleSeller) UpdatePrice(tx *goqu.TxDatabase, chassisNumber string, price decimal.Decimal) error {
	args := m.Called(tx, chassisNumber, price)
	return args.Error(0)
}

type passthroughTxRunner struct{}

func (passthroughTxRunner) WithTransaction(fn func(tx *goqu.TxDatabase) error) error {
	return fn(nil)
}

func newTestService() (*SaleService, *MockSaleRepository, *MockMotorcycleSeller) {
	sr := new(MockSaleRepository)
	bikes := new(MockMotorcycleSeller)
	service := NewSaleService(passthroughTxRunner{}, sr, bikes)
	return service, sr, bikes
}

func TestRecordSaleMarksBikeSold(t *testing.T) {
	service, sr, bikes := newTestService()

	price := decimal.NewFromInt(8500)
	sr.On("InsertSale", mock.Anything, mock.Anything).Return(nil)
	bikes.On("MarkSold", mock.Anything, "BW-1010", "loc_br_1", mock.Anything, price).Return(nil)

	actor := models.Actor{UserID: "u_sales1", Role: roles.SalesOfficer, LocationID: "loc_br_1"}
	sale, err := service.Record(actor, models.RecordSaleRequest{
		ChassisNumber: "BW-1010",
		CustomerName:  "Kwame Mensah",
		CustomerPhone: "+233201234567",
		Price:         price,
	})

	assert.NoError(t, err)
	assert.Equal(t, "BW-1010", sale.ChassisNumber)
	assert.Equal(t, "loc_br_1", sale.BranchID)
	assert.Equal(t, "u_sales1", sale.SalesOfficerID)
	assert.True(t, price.Equal(sale.Price))

	sr.AssertExpectations(t)
	bikes.AssertExpectations(t)
}

func TestRecordSaleIgnoresBranchOverrideForScopedRoles(t *testing.T) {
	service, sr, bikes := newTestService()

	price := decimal.NewFromInt(9000)
	sr.On("InsertSale", mock.Anything, mock.Anything).Return(nil)
	// The sale lands at the officer's own branch, not the one in the payload.
	bikes.On("MarkSold", mock.Anything, "BW-1010", "loc_br_1", mock.Anything, price).Return(nil)

	actor := models.Actor{UserID: "u_sales1", Role: roles.SalesOfficer, LocationID: "loc_br_1"}
	sale, err := service.Record(actor, models.RecordSaleRequest{
		ChassisNumber: "BW-1010",
		CustomerName:  "Ama Owusu",
		CustomerPhone: "+233209876543",
		Price:         price,
		BranchID:      "loc_br_2",
	})

	assert.NoError(t, err)
	assert.Equal(t, "loc_br_1", sale.BranchID)
	bikes.AssertExpectations(t)
}

func TestRecordSaleBikeNotAtBranchRollsBack(t *testing.T) {
	service, sr, bikes := newTestService()

	price := decimal.NewFromInt(8500)
	sr.On("InsertSale", mock.Anything, mock.Anything).Return(nil)
	bikes.On("MarkSold", mock.Anything, "BW-2000", "loc_br_1", mock.Anything, price).
		Return(custom_error.NewPrecondition("motorcycle BW-2000 is not available at branch loc_br_1"))

	actor := models.Actor{UserID: "u_sales1", Role: roles.SalesOfficer, LocationID: "loc_br_1"}
	_, err := service.Record(actor, models.RecordSaleRequest{
		ChassisNumber: "BW-2000",
		CustomerName:  "Kwame Mensah",
		CustomerPhone: "+233201234567",
		Price:         price,
	})

	assert.Error(t, err)
	assert.True(t, custom_error.IsPrecondition(err))
}

func TestRecordSaleValidation(t *testing.T) {
	tests := []struct {
		name  string
		actor models.Actor
		req   models.RecordSaleRequest
		check func(t *testing.T, err error)
	}{
		{
			name:  "warehouse manager forbidden",
			actor: models.Actor{UserID: "u_wh", Role: roles.WarehouseManager, LocationID: "loc_wh_1"},
			req: models.RecordSaleRequest{
				ChassisNumber: "BW-1010", CustomerName: "x", CustomerPhone: "y",
				Price: decimal.NewFromInt(100),
			},
			check: func(t *testing.T, err error) {
				assert.True(t, custom_error.IsForbidden(err))
			},
		},
		{
			name:  "admin without branch",
			actor: models.Actor{UserID: "u_admin", Role: roles.Admin},
			req: models.RecordSaleRequest{
				ChassisNumber: "BW-1010", CustomerName: "x", CustomerPhone: "y",
				Price: decimal.NewFromInt(100),
			},
			check: func(t *testing.T, err error) {
				assert.True(t, custom_error.IsValidation(err))
			},
		},
		{
			name:  "zero price",
			actor: models.Actor{UserID: "u_sales1", Role: roles.SalesOfficer, LocationID: "loc_br_1"},
			req: models.RecordSaleRequest{
				ChassisNumber: "BW-1010", CustomerName: "x", CustomerPhone: "y",
				Price: decimal.Zero,
			},
			check: func(t *testing.T, err error) {
				assert.True(t, custom_error.IsValidation(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, sr, _ := newTestService()

			_, err := service.Record(tt.actor, tt.req)

			assert.Error(t, err)
			tt.check(t, err)
			sr.AssertNotCalled(t, "InsertSale", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateSalePricePropagatesToBike(t *testing.T) {
	service, sr, bikes := newTestService()

	existing := &models.Sale{
		ID:             "sale_1",
		ChassisNumber:  "BW-1010",
		CustomerName:   "Kwame Mensah",
		CustomerPhone:  "+233201234567",
		Price:          decimal.NewFromInt(8500),
		SalesOfficerID: "u_sales1",
		BranchID:       "loc_br_1",
		Date:           time.Now(),
	}
	newPrice := decimal.NewFromInt(8200)

	sr.On("GetSale", "sale_1").Return(existing, nil)
	sr.On("UpdateSale", mock.Anything, "sale_1", mock.Anything).Return(nil)
	bikes.On("UpdatePrice", mock.Anything, "BW-1010", newPrice).Return(nil)

	actor := models.Actor{UserID: "u_sales1", Role: roles.SalesOfficer, LocationID: "loc_br_1"}
	sale, err := service.Update(actor, "sale_1", models.UpdateSaleRequest{Price: &newPrice})

	assert.NoError(t, err)
	assert.True(t, newPrice.Equal(sale.Price))
	bikes.AssertExpectations(t)
}

func TestUpdateCustomerDetailsLeavesBikeAlone(t *testing.T) {
	service, sr, bikes := newTestService()

	existing := &models.Sale{
		ID:             "sale_1",
		ChassisNumber:  "BW-1010",
		SalesOfficerID: "u_sales1",
		BranchID:       "loc_br_1",
		Price:          decimal.NewFromInt(8500),
	}
	newName := "Ama Owusu"

	sr.On("GetSale", "sale_1").Return(existing, nil)
	sr.On("UpdateSale", mock.Anything, "sale_1", mock.Anything).Return(nil)

	actor := models.Actor{UserID: "u_admin", Role: roles.Admin}
	sale, err := service.Update(actor, "sale_1", models.UpdateSaleRequest{CustomerName: &newName})

	assert.NoError(t, err)
	assert.Equal(t, "Ama Owusu", sale.CustomerName)
	bikes.AssertNotCalled(t, "UpdatePrice", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateForeignSaleForbidden(t *testing.T) {
	service, sr, _ := newTestService()

	existing := &models.Sale{
		ID:             "sale_1",
		ChassisNumber:  "BW-1010",
		SalesOfficerID: "u_sales1",
		BranchID:       "loc_br_1",
	}
	newName := "Someone Else"

	sr.On("GetSale", "sale_1").Return(existing, nil)

	// Another sales officer at the same branch cannot touch it.
	actor := models.Actor{UserID: "u_sales2", Role: roles.SalesOfficer, LocationID: "loc_br_1"}
	_, err := service.Update(actor, "sale_1", models.UpdateSaleRequest{CustomerName: &newName})

	assert.Error(t, err)
	assert.True(t, custom_error.IsForbidden(err))
	sr.AssertNotCalled(t, "UpdateSale", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteSaleRestoresBikeToBranch(t *testing.T) {
	service, sr, bikes := newTestService()

	existing := &models.Sale{
		ID:             "sale_1",
		ChassisNumber:  "BW-1010",
		SalesOfficerID: "u_sales1",
		BranchID:       "loc_br_1",
		Price:          decimal.NewFromInt(8500),
	}

	sr.On("GetSale", "sale_1").Return(existing, nil)
	sr.On("DeleteSale", mock.Anything, "sale_1").Return(nil)
	bikes.On("RevertSale", mock.Anything, "BW-1010", metadata.MotorcycleAtBranch).Return(nil)

	actor := models.Actor{UserID: "u_br1", Role: roles.BranchManager, LocationID: "loc_br_1"}
	sale, err := service.Delete(actor, "sale_1")

	assert.NoError(t, err)
	assert.Equal(t, "BW-1010", sale.ChassisNumber)
	sr.AssertExpectations(t)
	bikes.AssertExpectations(t)
}

func TestGetSalesScopesToActorLocation(t *testing.T) {
	service, sr, _ := newTestService()

	sr.On("GetSales", "loc_br_1").Return([]models.Sale{}, nil)

	actor := models.Actor{UserID: "u_br1", Role: roles.BranchManager, LocationID: "loc_br_1"}
	_, err := service.GetSales(actor)

	assert.NoError(t, err)
	sr.AssertExpectations(t)
}
