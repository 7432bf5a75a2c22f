// Package observe multiplexes size-change callbacks for many targets
// through one registry that is passed to the components needing it.
package observe

import (
	"sync"

	"github.com/dshills/quill/internal/geometry"
)

// Callback receives the new size of an observed target.
type Callback func(size geometry.Size)

type entry struct {
	id int
	cb Callback
}

type target struct {
	entries []entry
	size    geometry.Size
	known   bool
}

// Registry tracks observed targets. Targets are compared with ==, so any
// comparable value (a pointer, a name) can be observed.
type Registry struct {
	mu      sync.Mutex
	targets map[any]*target
	nextID  int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{targets: make(map[any]*target)}
}

// Observe registers cb for target and returns a function that removes it.
func (r *Registry) Observe(t any, cb Callback) (unobserve func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tg, ok := r.targets[t]
	if !ok {
		tg = &target{}
		r.targets[t] = tg
	}
	id := r.nextID
	r.nextID++
	tg.entries = append(tg.entries, entry{id: id, cb: cb})

	return func() { r.remove(t, id) }
}

func (r *Registry) remove(t any, id int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tg, ok := r.targets[t]
	if !ok {
		return
	}
	for i, e := range tg.entries {
		if e.id == id {
			tg.entries = append(tg.entries[:i], tg.entries[i+1:]...)
			break
		}
	}
	if len(tg.entries) == 0 {
		delete(r.targets, t)
	}
}

// Unobserve removes every callback of target.
func (r *Registry) Unobserve(t any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.targets, t)
}

// Observed reports whether target has callbacks.
func (r *Registry) Observed(t any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.targets[t]
	return ok
}

// Notify reports the current size of target. Callbacks run only when the
// size differs from the last reported one. It returns the number of
// callbacks run.
func (r *Registry) Notify(t any, size geometry.Size) int {
	r.mu.Lock()
	tg, ok := r.targets[t]
	if !ok || (tg.known && tg.size == size) {
		r.mu.Unlock()
		return 0
	}
	tg.size = size
	tg.known = true
	cbs := make([]Callback, len(tg.entries))
	for i, e := range tg.entries {
		cbs[i] = e.cb
	}
	r.mu.Unlock()

	for _, cb := range cbs {
		cb(size)
	}
	return len(cbs)
}
