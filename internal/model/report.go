package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailySales aggregates the sales committed on a single calendar day.
type DailySales struct {
	TotalSales  int             `json:"total_sales"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// PeriodSaleRow is one sale item within a reporting period, joined with its
// sale and product. LineTotal is quantity times the snapshot price.
type PeriodSaleRow struct {
	SaleID      uuid.UUID       `json:"sale_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	SoldAt      time.Time       `json:"sold_at"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// BestSeller ranks a product by cumulative quantity sold.
type BestSeller struct {
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	TotalQuantity int             `json:"total_quantity_sold"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}
