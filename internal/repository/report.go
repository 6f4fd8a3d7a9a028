package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tnvu/storefront/internal/model"
	"github.com/tnvu/storefront/internal/storage/db"
)

// ReportRepository answers the read-only sale aggregates. All queries are
// owner-scoped and read committed data only; snapshot prices on sale items
// make results stable against later product price changes.
type ReportRepository interface {
	WithDB(db db.DB) ReportRepository
	// DailyTotals counts sales and sums totals for sales created in
	// [start, end).
	DailyTotals(ctx context.Context, ownerID uuid.UUID, start, end time.Time) (model.DailySales, error)
	// PeriodRows returns one row per sale item for sales created in
	// [start, end), ordered by sale creation time ascending.
	PeriodRows(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]model.PeriodSaleRow, error)
	// BestSellers ranks products by total quantity sold descending, product
	// id ascending on ties.
	BestSellers(ctx context.Context, ownerID uuid.UUID, limit int) ([]model.BestSeller, error)
}

type reportRepository struct {
	db db.DB
}

func NewReportRepository(db db.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r reportRepository) WithDB(db db.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r reportRepository) DailyTotals(ctx context.Context, ownerID uuid.UUID, start, end time.Time) (model.DailySales, error) {
	var (
		count int
		sum   decimal.Decimal
	)
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_price), 0)
		FROM sales
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
	`, ownerID, start, end).Scan(&count, &sum)
	if err != nil {
		return model.DailySales{}, fmt.Errorf("daily totals: %w", err)
	}

	return model.DailySales{TotalSales: count, TotalAmount: sum}, nil
}

func (r reportRepository) PeriodRows(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]model.PeriodSaleRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.id, p.id, p.name, si.quantity, s.created_at,
		       si.quantity * si.product_price AS line_total
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		JOIN products p ON p.id = si.product_id
		WHERE s.user_id = $1 AND s.created_at >= $2 AND s.created_at < $3
		ORDER BY s.created_at, si.id
	`, ownerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("period rows: %w", err)
	}
	defer rows.Close()

	result := make([]model.PeriodSaleRow, 0)
	for rows.Next() {
		var row model.PeriodSaleRow
		if err := rows.Scan(&row.SaleID, &row.ProductID, &row.ProductName,
			&row.Quantity, &row.SoldAt, &row.LineTotal); err != nil {
			return nil, fmt.Errorf("scan period row: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

func (r reportRepository) BestSellers(ctx context.Context, ownerID uuid.UUID, limit int) ([]model.BestSeller, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.name,
		       SUM(si.quantity) AS total_quantity,
		       SUM(si.quantity * si.product_price) AS total_revenue
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		JOIN products p ON p.id = si.product_id
		WHERE s.user_id = $1
		GROUP BY p.id, p.name
		ORDER BY total_quantity DESC, p.id
		LIMIT $2
	`, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("best sellers: %w", err)
	}
	defer rows.Close()

	result := make([]model.BestSeller, 0)
	for rows.Next() {
		var bs model.BestSeller
		if err := rows.Scan(&bs.ProductID, &bs.ProductName, &bs.TotalQuantity, &bs.TotalRevenue); err != nil {
			return nil, fmt.Errorf("scan best seller: %w", err)
		}
		result = append(result, bs)
	}

	return result, rows.Err()
}
