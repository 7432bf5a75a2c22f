package listbox

import "context"

type ctxKey struct{}

// NewContext returns a context carrying s.
func NewContext(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the store carried by ctx.
func FromContext(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Store)
	return s, ok && s != nil
}

// MustFromContext returns the store carried by ctx and panics with
// ErrNoProvider when there is none. Using listbox parts outside a listbox
// is a programming error.
func MustFromContext(ctx context.Context) *Store {
	s, ok := FromContext(ctx)
	if !ok {
		panic(ErrNoProvider)
	}
	return s
}
