package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tnvu/storefront/internal/apperr"
	"github.com/tnvu/storefront/internal/model"
	"github.com/tnvu/storefront/internal/storage/db"
)

type SaleRepository interface {
	WithDB(db db.DB) SaleRepository
	CreateSale(ctx context.Context, sale model.Sale) error
	// CreateSaleItems inserts all items of a sale in one batch. Items are
	// only ever written inside the sale transaction.
	CreateSaleItems(ctx context.Context, items []model.SaleItem) error
	GetSale(ctx context.Context, ownerID, saleID uuid.UUID) (model.Sale, error)
	ListSaleItems(ctx context.Context, saleID uuid.UUID) ([]model.SaleItem, error)
}

type saleRepository struct {
	db db.DB
}

func NewSaleRepository(db db.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r saleRepository) WithDB(db db.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r saleRepository) CreateSale(ctx context.Context, sale model.Sale) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO sales (id, user_id, total_price, created_at)
		VALUES ($1, $2, $3, $4)
	`, sale.ID, sale.UserID, sale.TotalPrice, sale.CreatedAt)
	if err != nil {
		return fmt.Errorf("create sale: %w", err)
	}

	return nil
}

func (r saleRepository) CreateSaleItems(ctx context.Context, items []model.SaleItem) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(`
			INSERT INTO sale_items (id, sale_id, product_id, quantity, product_price)
			VALUES ($1, $2, $3, $4, $5)
		`, item.ID, item.SaleID, item.ProductID, item.Quantity, item.ProductPrice)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range items {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("create sale item: %w", err)
		}
	}

	return results.Close()
}

func (r saleRepository) GetSale(ctx context.Context, ownerID, saleID uuid.UUID) (model.Sale, error) {
	var s model.Sale
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, total_price, created_at FROM sales
		WHERE id = $1 AND user_id = $2
	`, saleID, ownerID).Scan(&s.ID, &s.UserID, &s.TotalPrice, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Sale{}, apperr.SaleNotFoundErr
	}
	if err != nil {
		return model.Sale{}, fmt.Errorf("get sale: %w", err)
	}

	return s, nil
}

func (r saleRepository) ListSaleItems(ctx context.Context, saleID uuid.UUID) ([]model.SaleItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, sale_id, product_id, quantity, product_price FROM sale_items
		WHERE sale_id = $1
	`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()

	items := make([]model.SaleItem, 0)
	for rows.Next() {
		var item model.SaleItem
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity, &item.ProductPrice); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
