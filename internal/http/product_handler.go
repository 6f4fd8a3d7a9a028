package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tnvu/storefront/internal/apperr"
	"github.com/tnvu/storefront/internal/http/middleware"
	"github.com/tnvu/storefront/internal/service"
)

type createProductRequest struct {
	Name          string          `json:"name" validate:"required,max=255"`
	Description   *string         `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
}

// updateProductRequest carries only the fields present in the request body;
// absent fields stay nil and leave the stored value untouched.
type updateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,max=255"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stock_quantity" validate:"omitempty,gte=0"`
}

func (s *Service) createProduct(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		s.respondError(w, r, apperr.InvalidTokenErr)
		return
	}

	var req createProductRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	product, err := s.productSvc.CreateProduct(r.Context(), ownerID, service.CreateProductParams{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, r, http.StatusCreated, product)
}

func (s *Service) listProducts(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		s.respondError(w, r, apperr.InvalidTokenErr)
		return
	}

	filter := service.ListProductsFilter{
		Name:  r.URL.Query().Get("name"),
		Skip:  queryInt(r, "skip", 0),
		Limit: queryInt(r, "limit", 0),
	}

	if raw := r.URL.Query().Get("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			s.respondError(w, r, apperr.ValidationErr.WithMsg("invalid product_id: %s", raw))
			return
		}
		filter.ProductID = &id
	}

	products, err := s.productSvc.ListProducts(r.Context(), ownerID, filter)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, r, http.StatusOK, products)
}

func (s *Service) updateProduct(w http.ResponseWriter, r *http.Request) {
	ownerID, productID, err := callerAndTarget(r, "productID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var req updateProductRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	product, err := s.productSvc.UpdateProduct(r.Context(), ownerID, productID, service.UpdateProductParams{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, r, http.StatusOK, product)
}

func (s *Service) deleteProduct(w http.ResponseWriter, r *http.Request) {
	ownerID, productID, err := callerAndTarget(r, "productID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.productSvc.DeleteProduct(r.Context(), ownerID, productID); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, r, http.StatusNoContent, nil)
}
