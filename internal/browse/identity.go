package browse

import "context"

// Identity is the signed-in user, as far as browsing cares.
type Identity struct {
	ID string `json:"id"`
}

// Provider returns the current identity, or nil when nobody is signed in.
type Provider interface {
	CurrentUser(ctx context.Context) *Identity
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) *Identity

func (f ProviderFunc) CurrentUser(ctx context.Context) *Identity { return f(ctx) }

// Static always returns the same identity. An empty id means anonymous.
func Static(id string) Provider {
	return ProviderFunc(func(context.Context) *Identity {
		if id == "" {
			return nil
		}
		return &Identity{ID: id}
	})
}

type identityKey struct{}

// WithIdentity stores id in ctx for FromContext.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext is the Provider for identities carried on the request
// context.
var FromContext Provider = ProviderFunc(func(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey{}).(*Identity)
	return id
})
