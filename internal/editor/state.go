package editor

// State is an immutable editor state: a document, a selection and the
// state fields of the configured plugins.
type State struct {
	doc       *Doc
	selection Selection
	plugins   []Plugin
	fields    map[*PluginKey]any
}

// NewState creates a state and initialises every plugin's field.
func NewState(doc *Doc, sel Selection, plugins ...Plugin) *State {
	if doc == nil {
		doc = NewDoc()
	}
	s := &State{
		doc:       doc,
		selection: sel.clamp(doc),
		plugins:   append([]Plugin(nil), plugins...),
		fields:    make(map[*PluginKey]any, len(plugins)),
	}
	for _, p := range s.plugins {
		s.fields[p.Key()] = p.Init(s)
	}
	return s
}

// Doc returns the document.
func (s *State) Doc() *Doc {
	return s.doc
}

// Selection returns the selection.
func (s *State) Selection() Selection {
	return s.selection
}

// Plugins returns the configured plugins in priority order.
func (s *State) Plugins() []Plugin {
	return append([]Plugin(nil), s.plugins...)
}

// PluginState returns the state field of the plugin with key.
// ok is false when the plugin is not configured.
func (s *State) PluginState(k *PluginKey) (any, bool) {
	v, ok := s.fields[k]
	return v, ok
}

// Tr starts a transaction from this state.
func (s *State) Tr() *Transaction {
	return newTransaction(s)
}

// Apply returns the state produced by tr.
//
// Transactions without steps are rebased onto s, so metadata-only
// transactions built from an earlier state still apply. Transactions with
// steps must start from s's document.
func (s *State) Apply(tr *Transaction) (*State, error) {
	if !tr.DocChanged() {
		tr.before, tr.doc = s.doc, s.doc
		if !tr.selectionSet {
			tr.initialSel = s.selection
		}
	} else if tr.before != s.doc {
		return nil, ErrStaleTransaction
	}

	next := &State{
		doc:       tr.doc,
		selection: tr.Selection().clamp(tr.doc),
		plugins:   s.plugins,
		fields:    make(map[*PluginKey]any, len(s.fields)),
	}
	for _, p := range s.plugins {
		next.fields[p.Key()] = p.Apply(tr, s.fields[p.Key()])
	}
	return next, nil
}

// Reconfigure returns a state with a new plugin list. Fields of plugins
// present in both lists are kept; new plugins are initialised.
func (s *State) Reconfigure(plugins []Plugin) *State {
	next := &State{
		doc:       s.doc,
		selection: s.selection,
		plugins:   append([]Plugin(nil), plugins...),
		fields:    make(map[*PluginKey]any, len(plugins)),
	}
	for _, p := range next.plugins {
		if v, ok := s.fields[p.Key()]; ok {
			next.fields[p.Key()] = v
			continue
		}
		next.fields[p.Key()] = p.Init(next)
	}
	return next
}

// Decorations collects decorations from all decoration sources.
func (s *State) Decorations() []Decoration {
	var out []Decoration
	for _, p := range s.plugins {
		if src, ok := p.(DecorationSource); ok {
			out = append(out, src.Decorations(s)...)
		}
	}
	return out
}
