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

type ListProductsParams struct {
	OwnerID   uuid.UUID
	Name      string     // substring match when non-empty
	ProductID *uuid.UUID // exact match when set
	Skip      int
	Limit     int
}

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	CreateProduct(ctx context.Context, product model.Product) error
	// GetProductForOwner resolves a product scoped to its owner. A product id
	// that exists under a different owner is reported as not found, never as
	// another tenant's data.
	GetProductForOwner(ctx context.Context, ownerID, productID uuid.UUID) (model.Product, error)
	ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error)
	UpdateProduct(ctx context.Context, product model.Product) error
	DeleteProduct(ctx context.Context, ownerID, productID uuid.UUID) error
	// DecrementStock atomically subtracts quantity from the product's stock,
	// refusing to go below zero. Returns InsufficientStockErr when current
	// stock cannot cover the quantity, ProductNotFoundErr when the product
	// does not exist under the owner.
	DecrementStock(ctx context.Context, ownerID, productID uuid.UUID, quantity int) error
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, user_id, name, description, price, stock_quantity`

func (r productRepository) CreateProduct(ctx context.Context, product model.Product) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO products (id, user_id, name, description, price, stock_quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, product.ID, product.UserID, product.Name, product.Description, product.Price, product.StockQuantity)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func (r productRepository) GetProductForOwner(ctx context.Context, ownerID, productID uuid.UUID) (model.Product, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE id = $1 AND user_id = $2
	`, productID, ownerID)

	return scanProduct(row)
}

func (r productRepository) ListProducts(ctx context.Context, params ListProductsParams) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE user_id = @owner_id
	`
	args := pgx.NamedArgs{
		"owner_id": params.OwnerID,
		"skip":     params.Skip,
		"limit":    params.Limit,
	}

	if params.Name != "" {
		query += ` AND name ILIKE '%' || @name || '%'`
		args["name"] = params.Name
	}
	if params.ProductID != nil {
		query += ` AND id = @product_id`
		args["product_id"] = *params.ProductID
	}

	query += ` ORDER BY name OFFSET @skip LIMIT @limit`

	rows, err := r.db.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Price, &p.StockQuantity); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r productRepository) UpdateProduct(ctx context.Context, product model.Product) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET name = $3, description = $4, price = $5, stock_quantity = $6
		WHERE id = $1 AND user_id = $2
	`, product.ID, product.UserID, product.Name, product.Description, product.Price, product.StockQuantity)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ProductNotFoundErr
	}

	return nil
}

func (r productRepository) DeleteProduct(ctx context.Context, ownerID, productID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM products WHERE id = $1 AND user_id = $2
	`, productID, ownerID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ProductNotFoundErr
	}

	return nil
}

func (r productRepository) DecrementStock(ctx context.Context, ownerID, productID uuid.UUID, quantity int) error {
	// Guarded update: the stock check and the decrement are a single
	// statement, so two concurrent checkouts cannot both pass a stale read
	// and drive the quantity negative.
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - $3
		WHERE id = $1 AND user_id = $2 AND stock_quantity >= $3
	`, productID, ownerID, quantity)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// No row updated: distinguish a missing product from insufficient stock.
	product, err := r.GetProductForOwner(ctx, ownerID, productID)
	if err != nil {
		return err
	}

	return apperr.InsufficientStockErr.WithMsg(
		"product %s does not have enough stock: requested %d, available %d",
		product.Name, quantity, product.StockQuantity)
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.Price, &p.StockQuantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, apperr.ProductNotFoundErr
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("scan product: %w", err)
	}

	return p, nil
}
