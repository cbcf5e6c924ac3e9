package httpx

import "context"

// Identity is the verified principal the access guard binds to the request
// context. Role is the raw role claim string; route predicates compare it
// against the closed set declared per route.
type Identity struct {
	UserID   string
	Email    string
	Role     string
	TenantID string
}

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

// ContextWithIdentity binds a verified identity to the context. Exported so
// test fixtures can inject a pre-authenticated principal through ordinary
// dependency injection instead of any runtime bypass.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

// IdentityFromContext returns the identity attached by the access guard.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity).(Identity)
	return id, ok
}
