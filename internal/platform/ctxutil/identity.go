package ctxutil

import (
	"context"

	"github.com/potensio/gii-backend/internal/domain/identity"
)

type identityKey struct{}

func WithIdentity(ctx context.Context, id identity.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// GetIdentity returns the identity resolved for this request, or a zero
// identity when resolution never ran.
func GetIdentity(ctx context.Context) identity.Identity {
	if ctx == nil {
		return identity.Identity{}
	}
	if id, ok := ctx.Value(identityKey{}).(identity.Identity); ok {
		return id
	}
	return identity.Identity{}
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
