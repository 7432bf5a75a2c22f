package checkbox

import (
	"io"
	"log/slog"
	"slices"
	"sync"
)

// Group tracks the selected values of a set of checkboxes.
//
// Disabled checkboxes are never registered, so bulk operations skip them
// but leave their selection untouched.
type Group[V comparable] struct {
	mu        sync.Mutex
	available []V
	refs      map[V]int
	sections  map[string][]V
	selected  []V
	name      string
	disabled  bool
	onChange  func(values []V)
	logger    *slog.Logger
}

// Option configures a Group.
type Option[V comparable] func(*Group[V])

// WithValue sets the initially selected values.
func WithValue[V comparable](values ...V) Option[V] {
	return func(g *Group[V]) {
		g.selected = uniq(values)
	}
}

// WithName sets the group name.
func WithName[V comparable](name string) Option[V] {
	return func(g *Group[V]) {
		g.name = name
	}
}

// WithDisabled disables the whole group.
func WithDisabled[V comparable](disabled bool) Option[V] {
	return func(g *Group[V]) {
		g.disabled = disabled
	}
}

// OnChange sets the callback fired when a user action changes the
// selection.
func OnChange[V comparable](fn func(values []V)) Option[V] {
	return func(g *Group[V]) {
		g.onChange = fn
	}
}

// WithLogger sets the logger.
func WithLogger[V comparable](l *slog.Logger) Option[V] {
	return func(g *Group[V]) {
		if l != nil {
			g.logger = l
		}
	}
}

// New creates a group.
func New[V comparable](opts ...Option[V]) *Group[V] {
	g := &Group[V]{
		refs:     make(map[V]int),
		sections: make(map[string][]V),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Register adds a checkbox for value. Disabled checkboxes, including those
// in a disabled section, are not registered. The returned function removes
// the registration.
func (g *Group[V]) Register(value V, disabled bool, section *Section) (unref func()) {
	if disabled || (section != nil && section.Disabled) {
		return func() {}
	}

	var ids []string
	if section != nil {
		ids = slices.Clone(section.IDs)
	}

	g.mu.Lock()
	g.refs[value]++
	if g.refs[value] == 1 {
		g.available = append(g.available, value)
	}
	for _, id := range ids {
		if !slices.Contains(g.sections[id], value) {
			g.sections[id] = append(g.sections[id], value)
		}
	}
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { g.unregister(value, ids) })
	}
}

func (g *Group[V]) unregister(value V, ids []string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.refs[value]--
	if g.refs[value] > 0 {
		return
	}
	delete(g.refs, value)
	g.available = slices.DeleteFunc(g.available, func(v V) bool { return v == value })
	for _, id := range ids {
		vals := slices.DeleteFunc(g.sections[id], func(v V) bool { return v == value })
		if len(vals) == 0 {
			delete(g.sections, id)
			continue
		}
		g.sections[id] = vals
	}
}

// Values returns the selected values in selection order.
func (g *Group[V]) Values() []V {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.selected)
}

// SetValues replaces the selection without firing OnChange.
func (g *Group[V]) SetValues(values []V) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.selected = uniq(values)
}

// Checked reports whether value is selected.
func (g *Group[V]) Checked(value V) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Contains(g.selected, value)
}

// Name returns the group name.
func (g *Group[V]) Name() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.name
}

// SetName sets the group name.
func (g *Group[V]) SetName(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.name = name
}

// Disabled reports whether the group is disabled.
func (g *Group[V]) Disabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.disabled
}

// SetDisabled enables or disables the group. A disabled group ignores
// user actions.
func (g *Group[V]) SetDisabled(disabled bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.disabled = disabled
}

// Select adds value to the selection.
func (g *Group[V]) Select(value V) {
	g.update(func(sel []V) []V {
		if slices.Contains(sel, value) {
			return sel
		}
		return append(sel, value)
	})
}

// Unselect removes value from the selection.
func (g *Group[V]) Unselect(value V) {
	g.update(func(sel []V) []V {
		return slices.DeleteFunc(sel, func(v V) bool { return v == value })
	})
}

// Toggle sets the checked state of value.
func (g *Group[V]) Toggle(value V, checked bool) {
	if checked {
		g.Select(value)
		return
	}
	g.Unselect(value)
}

// SelectAll selects every registered value of the section, or of the
// whole group when sectionID is empty.
func (g *Group[V]) SelectAll(sectionID string) {
	g.update(func(sel []V) []V {
		for _, v := range g.scopeLocked(sectionID) {
			if !slices.Contains(sel, v) {
				sel = append(sel, v)
			}
		}
		return sel
	})
}

// UnselectAll clears the selection of the section, or the whole selection
// when sectionID is empty.
func (g *Group[V]) UnselectAll(sectionID string) {
	g.update(func(sel []V) []V {
		if sectionID == "" {
			return nil
		}
		scope := g.sections[sectionID]
		return slices.DeleteFunc(sel, func(v V) bool { return slices.Contains(scope, v) })
	})
}

// Reverse inverts the selection of every registered value of the section,
// or of the whole group when sectionID is empty.
func (g *Group[V]) Reverse(sectionID string) {
	g.update(func(sel []V) []V {
		for _, v := range g.scopeLocked(sectionID) {
			if i := slices.Index(sel, v); i >= 0 {
				sel = slices.Delete(sel, i, i+1)
			} else {
				sel = append(sel, v)
			}
		}
		return sel
	})
}

// Status returns the aggregate state of the section, or of the whole group
// when sectionID is empty. An empty scope is Unchecked.
func (g *Group[V]) Status(sectionID string) Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	scope := g.scopeLocked(sectionID)
	n := 0
	for _, v := range scope {
		if slices.Contains(g.selected, v) {
			n++
		}
	}
	switch {
	case n == 0:
		return Unchecked
	case n == len(scope):
		return Checked
	default:
		return Indeterminate
	}
}

func (g *Group[V]) scopeLocked(sectionID string) []V {
	if sectionID == "" {
		return g.available
	}
	return g.sections[sectionID]
}

// update applies fn to a copy of the selection and fires OnChange outside
// the lock when the selection changed.
func (g *Group[V]) update(fn func(sel []V) []V) {
	g.mu.Lock()
	if g.disabled {
		g.mu.Unlock()
		return
	}
	next := fn(slices.Clone(g.selected))
	if sameSet(g.selected, next) {
		g.mu.Unlock()
		return
	}
	g.selected = next
	onChange := g.onChange
	values := slices.Clone(next)
	g.mu.Unlock()

	g.logger.Debug("checkbox change", "group", g.Name(), "selected", len(values))
	if onChange != nil {
		onChange(values)
	}
}

func uniq[V comparable](values []V) []V {
	out := make([]V, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func sameSet[V comparable](a, b []V) bool {
	if len(a) != len(b) {
		return false
	}
	for _, v := range a {
		if !slices.Contains(b, v) {
			return false
		}
	}
	return true
}
