package suggest

import (
	"github.com/google/uuid"

	"github.com/dshills/quill/internal/editor"
)

// State is the per-instance suggestion state.
//
// When Active is false, Range is zero and Query and Text are empty.
type State struct {
	// ID identifies the current activation. It is minted when an
	// activation starts and kept until it ends.
	ID string

	Active    bool
	Range     Range
	Query     string
	Text      string
	Composing bool
}

// Meta is attached to a transaction under an instance's plugin key.
type Meta struct {
	// ForceDisable resets the instance unconditionally.
	ForceDisable bool
}

var newID = func() string {
	return "suggest-" + uuid.NewString()
}

// Transition computes the next state of an instance from its previous
// state and a transaction. The view flags come from the transaction's Env
// snapshot, so the function does not depend on a live view.
func Transition(prev State, tr *editor.Transaction, m Matcher, metaKey any) State {
	if meta, ok := tr.Meta(metaKey).(Meta); ok && meta.ForceDisable {
		return State{}
	}

	env := tr.Env()
	next := State{Composing: env.Composing}

	if truthy(tr.Meta(editor.MetaPointer)) || truthy(tr.Meta(editor.MetaUIEvent)) {
		return next
	}
	if !env.Editable {
		return next
	}

	sel := tr.Selection()
	if !sel.Empty() && !env.Composing {
		return next
	}

	// A transaction that moves nothing cannot start an activation.
	if !prev.Active && !tr.DocChanged() && sel == tr.SelectionBefore() {
		return next
	}

	pos := sel.From()
	match, ok := m(tr.Doc().Resolve(pos))
	if !ok {
		return next
	}

	valid := match.IsStart
	if prev.Active {
		valid = pos == tr.Mapping().Map(prev.Range.To, 1)
	}
	if !valid {
		return next
	}

	id := prev.ID
	if !prev.Active || id == "" {
		id = newID()
	}
	return State{
		ID:        id,
		Active:    true,
		Range:     Range{From: match.From, To: match.To},
		Query:     match.Query,
		Text:      match.Text,
		Composing: env.Composing,
	}
}

func truthy(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return v != nil
}

// Edges are the lifecycle transitions between two states.
type Edges struct {
	Start          bool
	End            bool
	PosChanged     bool
	QueryChanged   bool
	CompositionEnd bool
}

// DetectEdges compares two states.
func DetectEdges(prev, next State) Edges {
	suggesting := prev.Active && next.Active
	return Edges{
		Start:          !prev.Active && next.Active,
		End:            prev.Active && !next.Active,
		PosChanged:     suggesting && prev.Range.From != next.Range.From,
		QueryChanged:   suggesting && prev.Query != next.Query,
		CompositionEnd: suggesting && prev.Composing && !next.Composing,
	}
}

// Any reports whether any edge fired.
func (e Edges) Any() bool {
	return e.Start || e.End || e.PosChanged || e.QueryChanged || e.CompositionEnd
}
