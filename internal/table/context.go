package table

import "context"

type menuKey struct{}

// NewContext returns a context carrying m.
func NewContext(ctx context.Context, m *Menu) context.Context {
	return context.WithValue(ctx, menuKey{}, m)
}

// FromContext returns the menu in ctx.
func FromContext(ctx context.Context) (*Menu, bool) {
	m, ok := ctx.Value(menuKey{}).(*Menu)
	return m, ok && m != nil
}

// MustFromContext returns the menu in ctx and panics with ErrNoProvider
// when there is none.
func MustFromContext(ctx context.Context) *Menu {
	m, ok := FromContext(ctx)
	if !ok {
		panic(ErrNoProvider)
	}
	return m
}
