package event

import (
	"context"
	"log/slog"
	"time"
)

const TopicSaleCommitted = "sale.committed"

type SaleCommittedItem struct {
	ProductID    string `json:"product_id"`
	Quantity     int    `json:"quantity"`
	ProductPrice string `json:"product_price"`
}

// SaleCommittedEvent is published after a sale transaction commits. Prices are
// rendered as decimal strings so consumers never lose cents to float rounding.
type SaleCommittedEvent struct {
	SaleID     string              `json:"sale_id"`
	UserID     string              `json:"user_id"`
	TotalPrice string              `json:"total_price"`
	CreatedAt  time.Time           `json:"created_at"`
	Items      []SaleCommittedItem `json:"items"`
}

func (s *Service) handleSaleCommittedEvent(ctx context.Context, ev SaleCommittedEvent) error {
	s.logger.InfoContext(ctx, "sale committed",
		slog.String("sale_id", ev.SaleID),
		slog.String("user_id", ev.UserID),
		slog.String("total_price", ev.TotalPrice),
		slog.Int("items", len(ev.Items)),
	)
	return nil
}
