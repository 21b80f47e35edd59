// Package requestid correlates log lines and responses for one dashboard
// request. IDs arrive on the X-Request-ID header from the frontend proxy,
// or are minted here when the edge did not supply one.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the HTTP header carrying the request ID.
const Header = "X-Request-ID"

type ctxKey struct{}

// NewID mints a fresh request ID.
func NewID() string {
	return uuid.New().String()
}

// With returns a context carrying the given request ID.
func With(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// From extracts the request ID from context. ok is false when the context
// passed through no request-ID middleware.
func From(ctx context.Context) (id string, ok bool) {
	id, ok = ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
