package reports

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"

	"github.com/AsonyaGh/Bina/internal/repository"
)

type ReportRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ReportRepository {
	return &ReportRepository{repository: r}
}

// StockSummaryRow is one (location, status) bucket of the stock report.
// Bikes in transit fall into the TRANSIT pseudo-location, which has no
// locations row, hence the coalesced name.
type StockSummaryRow struct {
	LocationID   string `json:"location_id" db:"location_id"`
	LocationName string `json:"location_name" db:"location_name"`
	Status       string `json:"status" db:"status"`
	Count        int64  `json:"count" db:"count"`
}

type SalesSummaryRow struct {
	BranchID   string          `json:"branch_id" db:"branch_id"`
	BranchName string          `json:"branch_name" db:"branch_name"`
	SaleCount  int64           `json:"sale_count" db:"sale_count"`
	Revenue    decimal.Decimal `json:"revenue" db:"revenue"`
}

func (r *ReportRepository) GetStockSummary(locationID string) ([]StockSummaryRow, error) {
	query := r.repository.GoquDBWrapper.
		From(goqu.T("motorcycles").As("m")).
		LeftJoin(
			goqu.T("locations").As("l"),
			goqu.On(goqu.Ex{"m.current_location_id": goqu.I("l.id")}),
		).
		Select(
			goqu.I("m.current_location_id").As("location_id"),
			goqu.COALESCE(goqu.I("l.name"), goqu.I("m.current_location_id")).As("location_name"),
			goqu.I("m.status").As("status"),
			goqu.COUNT("*").As("count"),
		).
		Where(goqu.I("m.deleted_at").IsNull()).
		GroupBy(goqu.I("m.current_location_id"), goqu.I("l.name"), goqu.I("m.status")).
		Order(goqu.I("location_name").Asc(), goqu.I("status").Asc())

	if locationID != "" {
		query = query.Where(goqu.I("m.current_location_id").Eq(locationID))
	}

	var rows []StockSummaryRow
	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return rows, nil
}

func (r *ReportRepository) GetSalesSummary(locationID string, from, to time.Time) ([]SalesSummaryRow, error) {
	query := r.repository.GoquDBWrapper.
		From(goqu.T("sales").As("s")).
		Join(
			goqu.T("locations").As("l"),
			goqu.On(goqu.Ex{"s.branch_id": goqu.I("l.id")}),
		).
		Select(
			goqu.I("s.branch_id").As("branch_id"),
			goqu.I("l.name").As("branch_name"),
			goqu.COUNT("*").As("sale_count"),
			goqu.SUM(goqu.I("s.price")).As("revenue"),
		).
		Where(
			goqu.I("s.date").Gte(from),
			goqu.I("s.date").Lt(to),
		).
		GroupBy(goqu.I("s.branch_id"), goqu.I("l.name")).
		Order(goqu.I("revenue").Desc())

	if locationID != "" {
		query = query.Where(goqu.I("s.branch_id").Eq(locationID))
	}

	var rows []SalesSummaryRow
	if err := query.Executor().ScanStructs(&rows); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return rows, nil
}
