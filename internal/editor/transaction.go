package editor

import "fmt"

// Well-known metadata keys.
const (
	// MetaPointer marks transactions caused by pointer interaction.
	MetaPointer = "pointer"

	// MetaUIEvent marks transactions caused by generic UI events (drag, paste, ...).
	MetaUIEvent = "uiEvent"

	// MetaCompositionEnd marks the transaction dispatched when an IME composition ends.
	MetaCompositionEnd = "compositionEnd"
)

// Env is a read-only snapshot of view flags taken when a transaction is
// dispatched. Plugins read it instead of reaching into the live view.
type Env struct {
	Editable  bool
	Composing bool
}

// Transaction groups document steps, a selection update and metadata.
type Transaction struct {
	before       *Doc
	doc          *Doc
	steps        []Step
	mapping      Mapping
	initialSel   Selection
	selection    Selection
	selectionSet bool
	meta         map[any]any
	env          Env
}

func newTransaction(s *State) *Transaction {
	return &Transaction{
		before:     s.doc,
		doc:        s.doc,
		initialSel: s.selection,
		meta:       make(map[any]any),
		env:        Env{Editable: true},
	}
}

// Before returns the document the transaction started from.
func (tr *Transaction) Before() *Doc {
	return tr.before
}

// Doc returns the document after all steps so far.
func (tr *Transaction) Doc() *Doc {
	return tr.doc
}

// Steps returns the steps applied so far.
func (tr *Transaction) Steps() []Step {
	return append([]Step(nil), tr.steps...)
}

// Mapping returns the position mapping accumulated by the steps.
func (tr *Transaction) Mapping() *Mapping {
	return &tr.mapping
}

// DocChanged reports whether any step was applied.
func (tr *Transaction) DocChanged() bool {
	return len(tr.steps) > 0
}

// Step applies a step to the transaction's document.
func (tr *Transaction) Step(s Step) error {
	doc, err := s.Apply(tr.doc)
	if err != nil {
		return err
	}
	tr.doc = doc
	tr.steps = append(tr.steps, s)
	tr.mapping.Append(s.Map())
	return nil
}

// Replace replaces [from, to) with nodes.
func (tr *Transaction) Replace(from, to int, nodes ...Node) error {
	if err := tr.Step(Step{From: from, To: to, Slice: nodes}); err != nil {
		return fmt.Errorf("replace: %w", err)
	}
	return nil
}

// InsertText inserts text at pos. Newlines become breaks.
func (tr *Transaction) InsertText(pos int, text string) error {
	return tr.Replace(pos, pos, FromText(text).nodes...)
}

// Delete removes [from, to).
func (tr *Transaction) Delete(from, to int) error {
	return tr.Replace(from, to)
}

// Selection returns the selection the transaction will produce. Unless set
// explicitly it is the starting selection mapped through the steps.
func (tr *Transaction) Selection() Selection {
	if tr.selectionSet {
		return tr.selection
	}
	return tr.initialSel.Map(&tr.mapping)
}

// SelectionBefore returns the selection the transaction started from.
func (tr *Transaction) SelectionBefore() Selection {
	return tr.initialSel
}

// SetSelection sets the selection explicitly.
func (tr *Transaction) SetSelection(sel Selection) *Transaction {
	tr.selection = sel.clamp(tr.doc)
	tr.selectionSet = true
	return tr
}

// SelectionSet reports whether the selection was set explicitly.
func (tr *Transaction) SelectionSet() bool {
	return tr.selectionSet
}

// SetMeta attaches metadata. Keys are compared with ==, so plugins may use
// their own key pointers to keep metadata private.
func (tr *Transaction) SetMeta(key, value any) *Transaction {
	tr.meta[key] = value
	return tr
}

// Meta returns metadata attached under key, or nil.
func (tr *Transaction) Meta(key any) any {
	return tr.meta[key]
}

// Env returns the view snapshot captured at dispatch time.
func (tr *Transaction) Env() Env {
	return tr.env
}

// SetEnv overrides the view snapshot. Views call this when dispatching;
// tests use it to drive plugins without a view.
func (tr *Transaction) SetEnv(env Env) *Transaction {
	tr.env = env
	return tr
}
