package auth

import "context"

type contextKey struct{}

// Identity is the authenticated caller attached to each request. IsAdmin is
// the token's point-in-time copy; admin-gated routes re-check the stored
// flag instead of trusting it.
type Identity struct {
	UserID  string
	Email   string
	IsAdmin bool
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

func UserID(ctx context.Context) string {
	id, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return id.UserID
}
