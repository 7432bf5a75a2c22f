package suggest

import (
	"slices"
	"sync"

	"github.com/dshills/quill/internal/editor"
)

// Registry tracks suggestion instances that must not be active at the same
// time.
type Registry struct {
	mu        sync.Mutex
	instances []*Plugin
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers p and returns a function that removes it.
func (r *Registry) Add(p *Plugin) (remove func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !slices.Contains(r.instances, p) {
		r.instances = append(r.instances, p)
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.instances = slices.DeleteFunc(r.instances, func(q *Plugin) bool { return q == p })
	}
}

// Instances returns the registered instances.
func (r *Registry) Instances() []*Plugin {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.instances)
}

// EnsureUnique force-disables every registered instance other than active
// that is installed in v, using a single transaction. Nothing is
// dispatched when there are no other instances.
func (r *Registry) EnsureUnique(v *editor.View, active *Plugin) error {
	state := v.State()
	tr := state.Tr()
	n := 0
	for _, p := range r.Instances() {
		if p == active {
			continue
		}
		if _, ok := state.PluginState(p.Key()); !ok {
			continue
		}
		ForceDisable(tr, p)
		n++
	}
	if n == 0 {
		return nil
	}
	return v.Dispatch(tr)
}

// ForceDisable marks tr so that p resets to inactive.
func ForceDisable(tr *editor.Transaction, p *Plugin) *editor.Transaction {
	return tr.SetMeta(p.Key(), Meta{ForceDisable: true})
}
