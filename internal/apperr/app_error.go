package apperr

import "github.com/tnvu/storefront/pkg/zerror"

// Predefined domain errors. Handlers map them to HTTP statuses through
// apierr; services return them directly.
var (
	ValidationErr = zerror.NewValidationFailed("VALIDATION_FAILED", "validation error")

	ProductNotFoundErr   = zerror.NewNotFound("PRODUCT_NOT_FOUND", "product not found")
	UserNotFoundErr      = zerror.NewNotFound("USER_NOT_FOUND", "user not found")
	SaleNotFoundErr      = zerror.NewNotFound("SALE_NOT_FOUND", "sale not found")
	InsufficientStockErr = zerror.NewBadRequest("INSUFFICIENT_STOCK", "insufficient stock")

	UsernameTakenErr = zerror.NewConflict("USERNAME_TAKEN", "username already exists")
	EmailTakenErr    = zerror.NewConflict("EMAIL_TAKEN", "email already exists")

	InvalidCredentialsErr = zerror.NewUnauthorized("INVALID_CREDENTIALS", "incorrect username or password")
	InvalidTokenErr       = zerror.NewUnauthorized("INVALID_TOKEN", "could not validate credentials")
	NotAccountOwnerErr    = zerror.NewForbidden("NOT_ACCOUNT_OWNER", "not enough permissions")
)
