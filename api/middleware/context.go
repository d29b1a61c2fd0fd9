package middleware

import (
	"context"

	"github.com/teclegacy/marketplace-backend/pkg/identity"
)

type contextKey string

const ctxIdentity contextKey = "identity"

// IdentityFromContext returns the request identity, zero when the identity
// middleware did not run.
func IdentityFromContext(ctx context.Context) identity.Identity {
	if ctx == nil {
		return identity.Identity{}
	}
	if v, ok := ctx.Value(ctxIdentity).(identity.Identity); ok {
		return v
	}
	return identity.Identity{}
}

// WithIdentity injects the resolved identity into the context.
func WithIdentity(ctx context.Context, ident identity.Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, ident)
}
