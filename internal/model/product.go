package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is an inventory item owned by a single user. StockQuantity never
// goes negative; it is decremented only inside the sale transaction or by a
// direct inventory edit.
type Product struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
}
