package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnvu/storefront/internal/apperr"
	"github.com/tnvu/storefront/internal/model"
	"github.com/tnvu/storefront/internal/service"
)

func TestCreateProductHandler(t *testing.T) {
	t.Run("created under the token owner", func(t *testing.T) {
		f := newFixture(t)
		owner := uuid.New()
		f.prods.createProduct = func(_ context.Context, ownerID uuid.UUID, params service.CreateProductParams) (model.Product, error) {
			assert.Equal(t, owner, ownerID)
			assert.Equal(t, "Coffee Beans", params.Name)
			assert.Equal(t, 5, params.StockQuantity)
			return model.Product{
				ID:            uuid.New(),
				UserID:        ownerID,
				Name:          params.Name,
				Price:         params.Price,
				StockQuantity: params.StockQuantity,
			}, nil
		}

		req := jsonRequest(http.MethodPost, "/products/",
			`{"name":"Coffee Beans","price":"12.50","stock_quantity":5}`)
		req.Header.Set("Authorization", f.bearer(t, owner))

		rec := f.do(req)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "Coffee Beans")
	})

	t.Run("negative stock fails request validation", func(t *testing.T) {
		f := newFixture(t)

		req := jsonRequest(http.MethodPost, "/products/",
			`{"name":"Coffee Beans","price":"12.50","stock_quantity":-1}`)
		req.Header.Set("Authorization", f.bearer(t, uuid.New()))

		rec := f.do(req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("requires auth", func(t *testing.T) {
		f := newFixture(t)

		rec := f.do(jsonRequest(http.MethodPost, "/products/", `{"name":"Coffee Beans"}`))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestListProductsHandler(t *testing.T) {
	t.Run("forwards filters", func(t *testing.T) {
		f := newFixture(t)
		productID := uuid.New()

		var gotFilter service.ListProductsFilter
		f.prods.listProducts = func(_ context.Context, _ uuid.UUID, filter service.ListProductsFilter) ([]model.Product, error) {
			gotFilter = filter
			return []model.Product{}, nil
		}

		req := newRequest(http.MethodGet, "/products/?name=coffee&product_id="+productID.String()+"&skip=2&limit=7")
		req.Header.Set("Authorization", f.bearer(t, uuid.New()))

		rec := f.do(req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "coffee", gotFilter.Name)
		require.NotNil(t, gotFilter.ProductID)
		assert.Equal(t, productID, *gotFilter.ProductID)
		assert.Equal(t, 2, gotFilter.Skip)
		assert.Equal(t, 7, gotFilter.Limit)
	})

	t.Run("rejects a malformed product_id", func(t *testing.T) {
		f := newFixture(t)

		req := newRequest(http.MethodGet, "/products/?product_id=nope")
		req.Header.Set("Authorization", f.bearer(t, uuid.New()))

		rec := f.do(req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateProductHandler(t *testing.T) {
	t.Run("absent fields stay nil", func(t *testing.T) {
		f := newFixture(t)
		productID := uuid.New()

		var gotParams service.UpdateProductParams
		f.prods.updateProduct = func(_ context.Context, _, _ uuid.UUID, params service.UpdateProductParams) (model.Product, error) {
			gotParams = params
			return model.Product{ID: productID, Price: decimal.RequireFromString("14.00")}, nil
		}

		req := jsonRequest(http.MethodPut, "/products/"+productID.String(), `{"price":"14.00"}`)
		req.Header.Set("Authorization", f.bearer(t, uuid.New()))

		rec := f.do(req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotParams.Price)
		assert.True(t, gotParams.Price.Equal(decimal.RequireFromString("14.00")))
		assert.Nil(t, gotParams.Name)
		assert.Nil(t, gotParams.Description)
		assert.Nil(t, gotParams.StockQuantity)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newFixture(t)
		f.prods.updateProduct = func(context.Context, uuid.UUID, uuid.UUID, service.UpdateProductParams) (model.Product, error) {
			return model.Product{}, apperr.ProductNotFoundErr
		}

		req := jsonRequest(http.MethodPut, "/products/"+uuid.NewString(), `{"price":"14.00"}`)
		req.Header.Set("Authorization", f.bearer(t, uuid.New()))

		rec := f.do(req)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "PRODUCT_NOT_FOUND")
	})
}

func TestDeleteProductHandler(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	productID := uuid.New()
	f.prods.deleteProduct = func(_ context.Context, ownerID, id uuid.UUID) error {
		assert.Equal(t, owner, ownerID)
		assert.Equal(t, productID, id)
		return nil
	}

	req := newRequest(http.MethodDelete, "/products/"+productID.String())
	req.Header.Set("Authorization", f.bearer(t, owner))

	rec := f.do(req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}
