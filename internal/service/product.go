package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tnvu/storefront/internal/apperr"
	"github.com/tnvu/storefront/internal/model"
	"github.com/tnvu/storefront/internal/repository"
)

const defaultListLimit = 100

type CreateProductParams struct {
	Name          string
	Description   *string
	Price         decimal.Decimal
	StockQuantity int
}

// UpdateProductParams carries only the fields present in the request; nil
// fields leave the current value untouched. The merge is explicit,
// field-by-field, over the stored entity.
type UpdateProductParams struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	StockQuantity *int
}

type ListProductsFilter struct {
	Name      string
	ProductID *uuid.UUID
	Skip      int
	Limit     int
}

type ProductService interface {
	CreateProduct(ctx context.Context, ownerID uuid.UUID, params CreateProductParams) (model.Product, error)
	ListProducts(ctx context.Context, ownerID uuid.UUID, filter ListProductsFilter) ([]model.Product, error)
	UpdateProduct(ctx context.Context, ownerID, productID uuid.UUID, params UpdateProductParams) (model.Product, error)
	DeleteProduct(ctx context.Context, ownerID, productID uuid.UUID) error
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) CreateProduct(ctx context.Context, ownerID uuid.UUID, params CreateProductParams) (model.Product, error) {
	if err := validateProduct(params.Price, params.StockQuantity); err != nil {
		return model.Product{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, fmt.Errorf("generate product id: %w", err)
	}

	product := model.Product{
		ID:            id,
		UserID:        ownerID,
		Name:          params.Name,
		Description:   params.Description,
		Price:         params.Price,
		StockQuantity: params.StockQuantity,
	}

	if err := s.productRepo.CreateProduct(ctx, product); err != nil {
		return model.Product{}, fmt.Errorf("product repository create product: %w", err)
	}

	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, ownerID uuid.UUID, filter ListProductsFilter) ([]model.Product, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	products, err := s.productRepo.ListProducts(ctx, repository.ListProductsParams{
		OwnerID:   ownerID,
		Name:      filter.Name,
		ProductID: filter.ProductID,
		Skip:      filter.Skip,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("product repository list products: %w", err)
	}

	return products, nil
}

func (s *productService) UpdateProduct(ctx context.Context, ownerID, productID uuid.UUID, params UpdateProductParams) (model.Product, error) {
	product, err := s.productRepo.GetProductForOwner(ctx, ownerID, productID)
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository get product: %w", err)
	}

	if params.Name != nil {
		product.Name = *params.Name
	}
	if params.Description != nil {
		product.Description = params.Description
	}
	if params.Price != nil {
		product.Price = *params.Price
	}
	if params.StockQuantity != nil {
		product.StockQuantity = *params.StockQuantity
	}

	if err := validateProduct(product.Price, product.StockQuantity); err != nil {
		return model.Product{}, err
	}

	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		return model.Product{}, fmt.Errorf("product repository update product: %w", err)
	}

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, ownerID, productID uuid.UUID) error {
	if err := s.productRepo.DeleteProduct(ctx, ownerID, productID); err != nil {
		return fmt.Errorf("product repository delete product: %w", err)
	}

	return nil
}

func validateProduct(price decimal.Decimal, stockQuantity int) error {
	if price.IsNegative() {
		return apperr.ValidationErr.WithMsg("price must not be negative")
	}
	if stockQuantity < 0 {
		return apperr.ValidationErr.WithMsg("stock quantity must not be negative")
	}
	return nil
}
