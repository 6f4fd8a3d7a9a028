package correlationid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the HTTP and message header that carries the correlation id.
const Header = "X-Correlation-ID"

type ctxKey struct{}

// NewContext returns a copy of ctx with the given correlation id attached.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext extracts the correlation id from ctx, if any.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok
}

// Generate returns a fresh correlation id.
func Generate() string {
	return uuid.NewString()
}
