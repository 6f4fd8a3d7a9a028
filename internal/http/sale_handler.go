package http

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tnvu/storefront/internal/apperr"
	"github.com/tnvu/storefront/internal/http/middleware"
	"github.com/tnvu/storefront/internal/service"
)

type saleItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gte=1"`
}

type saleRequest struct {
	Items []saleItemRequest `json:"items" validate:"dive"`
}

func (req saleRequest) cart() []service.CartLine {
	cart := make([]service.CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		cart = append(cart, service.CartLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return cart
}

func (s *Service) createSale(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		s.respondError(w, r, apperr.InvalidTokenErr)
		return
	}

	var req saleRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	sale, err := s.saleSvc.CreateSale(r.Context(), ownerID, req.cart())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, r, http.StatusCreated, sale)
}

func (s *Service) createPayment(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		s.respondError(w, r, apperr.InvalidTokenErr)
		return
	}

	var req saleRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	preview, err := s.saleSvc.PreviewPayment(r.Context(), ownerID, req.cart())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, r, http.StatusOK, preview)
}
