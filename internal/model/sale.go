package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is the immutable header of a committed checkout. TotalPrice is the sum
// of its items' line extensions at the time of sale.
type Sale struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
}

// SaleItem is one line of a sale. ProductPrice is the unit price captured at
// the moment of sale, decoupled from later changes to the product's price.
type SaleItem struct {
	ID           uuid.UUID       `json:"id"`
	SaleID       uuid.UUID       `json:"sale_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	Quantity     int             `json:"quantity"`
	ProductPrice decimal.Decimal `json:"product_price"`
}
