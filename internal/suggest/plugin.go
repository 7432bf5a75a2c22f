package suggest

import (
	"io"
	"log/slog"
	"maps"

	"github.com/dshills/quill/internal/editor"
	"github.com/dshills/quill/internal/geometry"
	"github.com/dshills/quill/internal/input/key"
)

// AttrSuggestID is the decoration attribute carrying the activation id.
const AttrSuggestID = "data-suggest-id"

// Plugin is one suggestion instance. It implements editor.Plugin,
// editor.ViewPlugin, editor.KeyHandler and editor.DecorationSource.
type Plugin struct {
	name      string
	key       *editor.PluginKey
	trigger   string
	matcher   Matcher
	handler   Handler
	registry  *Registry
	decorate  bool
	decoAttrs map[string]string
	logger    *slog.Logger

	unregister func()
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithTrigger uses CharMatcher(trigger) unless WithMatcher is also given.
func WithTrigger(trigger string) Option {
	return func(p *Plugin) {
		p.trigger = trigger
	}
}

// WithMatcher sets a custom matcher.
func WithMatcher(m Matcher) Option {
	return func(p *Plugin) {
		p.matcher = m
	}
}

// WithName names the instance for its plugin key and logs.
func WithName(name string) Option {
	return func(p *Plugin) {
		p.name = name
	}
}

// WithDecoration enables the inline decoration around the active range.
// attrs are copied onto the decoration next to AttrSuggestID.
func WithDecoration(attrs map[string]string) Option {
	return func(p *Plugin) {
		p.decorate = true
		p.decoAttrs = maps.Clone(attrs)
	}
}

// WithRegistry joins the instance to a registry so that at most one of its
// members is active at a time.
func WithRegistry(r *Registry) Option {
	return func(p *Plugin) {
		p.registry = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Plugin) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a suggestion instance.
func New(handler Handler, opts ...Option) (*Plugin, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	p := &Plugin{
		name:    "suggest",
		handler: handler,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.matcher == nil {
		if p.trigger == "" {
			return nil, ErrNoMatcher
		}
		if !validTrigger(p.trigger) {
			return nil, ErrInvalidTrigger
		}
		p.matcher = CharMatcher(p.trigger)
	}
	if p.registry == nil {
		p.registry = NewRegistry()
	}
	p.unregister = p.registry.Add(p)
	p.key = editor.NewPluginKey(p.name)
	p.logger = p.logger.With("suggest", p.name)
	return p, nil
}

// Name returns the instance name.
func (p *Plugin) Name() string {
	return p.name
}

// Key implements editor.Plugin.
func (p *Plugin) Key() *editor.PluginKey {
	return p.key
}

// Init implements editor.Plugin.
func (p *Plugin) Init(*editor.State) any {
	return State{}
}

// Apply implements editor.Plugin.
func (p *Plugin) Apply(tr *editor.Transaction, value any) any {
	prev, _ := value.(State)
	return Transition(prev, tr, p.matcher, p.key)
}

// StateOf returns the instance state in s. ok is false when the instance
// is not installed.
func (p *Plugin) StateOf(s *editor.State) (State, bool) {
	v, ok := s.PluginState(p.key)
	if !ok {
		return State{}, false
	}
	st, ok := v.(State)
	return st, ok
}

// HandleKey implements editor.KeyHandler.
func (p *Plugin) HandleKey(v *editor.View, ev key.Event) bool {
	st, ok := p.StateOf(v.State())
	if !ok || !st.Active {
		return false
	}
	return p.handler.OnKeydown(ev)
}

// Decorations implements editor.DecorationSource.
func (p *Plugin) Decorations(s *editor.State) []editor.Decoration {
	if !p.decorate {
		return nil
	}
	st, ok := p.StateOf(s)
	if !ok || !st.Active {
		return nil
	}
	attrs := maps.Clone(p.decoAttrs)
	if attrs == nil {
		attrs = make(map[string]string, 1)
	}
	attrs[AttrSuggestID] = st.ID
	return []editor.Decoration{{From: st.Range.From, To: st.Range.To, Attrs: attrs}}
}

// Disable force-resets the instance in v.
func (p *Plugin) Disable(v *editor.View) error {
	return v.Dispatch(ForceDisable(v.State().Tr(), p))
}

// Close removes the instance from its registry.
func (p *Plugin) Close() {
	p.unregister()
}

// NewView implements editor.ViewPlugin.
func (p *Plugin) NewView(*editor.View) editor.PluginView {
	return &pluginView{p: p}
}

type pluginView struct {
	p *Plugin
}

func (pv *pluginView) Update(v *editor.View, prevState *editor.State) {
	p := pv.p
	next, ok := p.StateOf(v.State())
	if !ok {
		p.handler.OnEnd()
		return
	}
	prev, _ := p.StateOf(prevState)

	edges := DetectEdges(prev, next)
	if !edges.Any() {
		return
	}
	p.logger.Debug("suggest edges",
		"id", next.ID,
		"start", edges.Start,
		"end", edges.End,
		"posChanged", edges.PosChanged,
		"query", next.Query,
	)

	if edges.End || edges.PosChanged {
		p.handler.OnEnd()
	}
	if edges.QueryChanged || edges.CompositionEnd {
		p.handler.OnUpdate(p.props(v, next))
	}
	if edges.Start {
		p.handler.OnStart(p.props(v, next))
		if err := p.registry.EnsureUnique(v, p); err != nil {
			p.logger.Warn("ensure unique suggestion", "error", err)
		}
	}
}

func (pv *pluginView) Destroy() {
	pv.p.handler.OnEnd()
}

func (p *Plugin) props(v *editor.View, s State) Props {
	var el geometry.Element
	if p.decorate {
		el = v.ElementByAttr(AttrSuggestID, s.ID)
	}
	return Props{
		Range:          s.Range,
		Text:           s.Text,
		Query:          s.Query,
		Element:        el,
		VirtualElement: geometry.RangeElement(v, v, s.Range.From, s.Range.To),
	}
}
