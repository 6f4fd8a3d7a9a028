package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tnvu/storefront/internal/model"
	"github.com/tnvu/storefront/pkg/zerror"
)

var errStorage = errors.New("storage unavailable")

// bcryptTestCost keeps hashing cheap in tests.
const bcryptTestCost = 4

func decimalZero() decimal.Decimal { return decimal.Zero }

func intDecimal(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// zerrCode extracts the domain error code, failing the test when err does not
// carry one.
func zerrCode(t *testing.T, err error) string {
	t.Helper()
	var zErr zerror.ZError
	require.ErrorAs(t, err, &zErr)
	return zErr.Code()
}

func seedUser(t *testing.T, store *fakeStore, username string) model.User {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	user := model.User{
		ID:        id,
		Username:  username,
		Email:     username + "@example.com",
		CreatedAt: time.Now().UTC(),
	}
	store.users[user.ID] = user
	return user
}

func seedProduct(t *testing.T, store *fakeStore, ownerID uuid.UUID, name, price string, stock int) model.Product {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	product := model.Product{
		ID:            id,
		UserID:        ownerID,
		Name:          name,
		Price:         dec(t, price),
		StockQuantity: stock,
	}
	store.products[product.ID] = product
	return product
}
