package editor

import (
	"fmt"
	"sync/atomic"

	"github.com/dshills/quill/internal/input/key"
)

var pluginKeySeq atomic.Uint64

// PluginKey identifies a plugin and its state field. Keys compare by
// identity, so two keys created with the same name are distinct.
type PluginKey struct {
	name string
}

// NewPluginKey creates a unique plugin key.
func NewPluginKey(name string) *PluginKey {
	return &PluginKey{name: fmt.Sprintf("%s$%d", name, pluginKeySeq.Add(1))}
}

// String returns the unique key name.
func (k *PluginKey) String() string {
	return k.name
}

// Plugin contributes a state field that is recomputed for every transaction.
// Apply must be a pure function of its inputs.
type Plugin interface {
	Key() *PluginKey
	Init(s *State) any
	Apply(tr *Transaction, value any) any
}

// ViewPlugin is a plugin that wants per-view lifecycle hooks.
type ViewPlugin interface {
	Plugin
	NewView(v *View) PluginView
}

// PluginView receives a callback after every state update of its view.
type PluginView interface {
	Update(v *View, prev *State)
	Destroy()
}

// KeyHandler is a plugin that sees key events before default handling.
// Returning true stops further processing.
type KeyHandler interface {
	HandleKey(v *View, ev key.Event) bool
}

// DecorationSource is a plugin that contributes inline decorations.
type DecorationSource interface {
	Decorations(s *State) []Decoration
}

// Priority controls where registered plugins are inserted.
type Priority int

const (
	// Tail appends plugins after the existing ones.
	Tail Priority = iota

	// Head inserts plugins before the existing ones, giving their key
	// handlers precedence.
	Head
)
