package popover

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/dshills/quill/internal/geometry"
	"github.com/dshills/quill/internal/input/key"
	"github.com/dshills/quill/internal/listbox"
	"github.com/dshills/quill/internal/observe"
	"github.com/dshills/quill/internal/suggest"
)

// Searcher produces the items for a query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]listbox.Item, error)
}

// SearchFunc adapts a function to Searcher.
type SearchFunc func(ctx context.Context, query string) ([]listbox.Item, error)

// Search implements Searcher.
func (f SearchFunc) Search(ctx context.Context, query string) ([]listbox.Item, error) {
	return f(ctx, query)
}

// Popover is the floating list attached to a suggestion activation. It
// implements suggest.Handler.
type Popover struct {
	mu sync.Mutex

	name      string
	phase     Phase
	reference geometry.Element
	clip      geometry.Element
	lastRange suggest.Range
	hasRange  bool
	query     string
	placement Placement
	opts      PlacementOptions
	maxHeight int

	epoch   uint64
	cancel  context.CancelFunc
	loading bool
	err     error

	list          *listbox.Store
	searcher      Searcher
	post          func(func())
	autoHighlight bool

	onSelect    func(value string, r suggest.Range)
	onHighlight func(value string, el geometry.Element)
	onChange    func()
	logger      *slog.Logger

	unobserve func()
}

// Option configures a Popover.
type Option func(*Popover)

// WithName names the popover in logs.
func WithName(name string) Option {
	return func(p *Popover) {
		p.name = name
	}
}

// WithSearcher sets the item source.
func WithSearcher(s Searcher) Option {
	return func(p *Popover) {
		p.searcher = s
	}
}

// WithPost sets the function used to hand search results back to the UI
// goroutine. By default results are applied on the search goroutine.
func WithPost(post func(func())) Option {
	return func(p *Popover) {
		p.post = post
	}
}

// WithPlacement sets placement options.
func WithPlacement(opts PlacementOptions) Option {
	return func(p *Popover) {
		p.opts = opts
	}
}

// WithMaxHeight caps the number of list rows.
func WithMaxHeight(rows int) Option {
	return func(p *Popover) {
		if rows > 0 {
			p.maxHeight = rows
		}
	}
}

// WithAutoHighlight highlights the first item whenever results arrive.
func WithAutoHighlight(on bool) Option {
	return func(p *Popover) {
		p.autoHighlight = on
	}
}

// WithClip sets the element whose rectangle decides whether the reference
// is hidden. Without it the anchor's own context element is used.
func WithClip(el geometry.Element) Option {
	return func(p *Popover) {
		p.clip = el
	}
}

// WithObserver re-positions the popover whenever target is resized.
func WithObserver(reg *observe.Registry, target any) Option {
	return func(p *Popover) {
		p.unobserve = reg.Observe(target, func(geometry.Size) {
			p.invalidate()
		})
	}
}

// OnSelect sets the callback for a committed selection. It receives the
// last matched range so the caller can replace exactly that text.
func OnSelect(fn func(value string, r suggest.Range)) Option {
	return func(p *Popover) {
		p.onSelect = fn
	}
}

// OnHighlight sets the callback for highlight changes.
func OnHighlight(fn func(value string, el geometry.Element)) Option {
	return func(p *Popover) {
		p.onHighlight = fn
	}
}

// OnChange sets the callback fired whenever the popover needs a redraw.
func OnChange(fn func()) Option {
	return func(p *Popover) {
		p.onChange = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Popover) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a closed popover.
func New(opts ...Option) *Popover {
	p := &Popover{
		name:          "popover",
		maxHeight:     8,
		opts:          PlacementOptions{Flip: true},
		autoHighlight: true,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("popover", p.name)
	p.list = listbox.New(
		listbox.WithPageSize(p.maxHeight),
		listbox.WithLogger(p.logger),
		listbox.OnSelect(p.selected),
		listbox.OnHighlight(func(value string, el geometry.Element) {
			if p.onHighlight != nil {
				p.onHighlight(value, el)
			}
			p.changed()
		}),
	)
	return p
}

// List returns the popover's listbox.
func (p *Popover) List() *listbox.Store {
	return p.list
}

// Phase returns the current phase.
func (p *Popover) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// IsOpen reports whether the popover is logically open (positioning or
// open).
func (p *Popover) IsOpen() bool {
	return p.Phase() != Closed
}

// Query returns the query of the current activation.
func (p *Popover) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// Range returns the last matched range. ok is false while closed.
func (p *Popover) Range() (r suggest.Range, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastRange, p.hasRange
}

// Reference returns the anchor element, or nil while closed.
func (p *Popover) Reference() geometry.Element {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reference
}

// Loading reports whether a search is in flight.
func (p *Popover) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Err returns the error of the last search, if it failed.
func (p *Popover) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// OnStart implements suggest.Handler.
func (p *Popover) OnStart(props suggest.Props) {
	p.mu.Lock()
	p.phase = Positioning
	p.setActivationLocked(props)
	p.mu.Unlock()

	p.logger.Debug("popover start", "query", props.Query, "from", props.Range.From)
	p.list.Reset()
	p.search(props.Query)
	p.changed()
}

// OnUpdate implements suggest.Handler. Updates while closed are ignored.
func (p *Popover) OnUpdate(props suggest.Props) {
	p.mu.Lock()
	if p.phase == Closed {
		p.mu.Unlock()
		p.logger.Debug("popover update while closed", "query", props.Query)
		return
	}
	p.setActivationLocked(props)
	p.mu.Unlock()

	p.search(props.Query)
	p.changed()
}

func (p *Popover) setActivationLocked(props suggest.Props) {
	p.reference = props.Anchor()
	p.lastRange = props.Range
	p.hasRange = true
	p.query = props.Query
}

// OnEnd implements suggest.Handler. It is safe to call repeatedly.
func (p *Popover) OnEnd() {
	p.mu.Lock()
	if p.phase == Closed {
		p.mu.Unlock()
		return
	}
	p.phase = Closed
	p.reference = nil
	p.hasRange = false
	p.lastRange = suggest.Range{}
	p.query = ""
	p.loading = false
	p.err = nil
	p.placement = Placement{}
	p.epoch++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.logger.Debug("popover end")
	p.list.Reset()
	p.changed()
}

// OnKeydown implements suggest.Handler by delegating to the list.
func (p *Popover) OnKeydown(ev key.Event) bool {
	if !p.IsOpen() {
		return false
	}
	return p.Keydown(ev)
}

// Keydown forwards a key event to the list.
func (p *Popover) Keydown(ev key.Event) bool {
	handled := p.list.Keydown(ev)
	if handled {
		p.changed()
	}
	return handled
}

// ScrollIntoView scrolls the list to show value.
func (p *Popover) ScrollIntoView(value string) {
	p.list.ScrollIntoView(value)
	p.changed()
}

// Close releases observers and cancels pending searches.
func (p *Popover) Close() {
	p.OnEnd()
	if p.unobserve != nil {
		p.unobserve()
		p.unobserve = nil
	}
}

// search starts a search for query. Results of superseded searches are
// dropped by epoch.
func (p *Popover) search(query string) {
	p.mu.Lock()
	p.epoch++
	epoch := p.epoch
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	if p.searcher == nil {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.loading = true
	searcher, post := p.searcher, p.post
	p.mu.Unlock()

	go func() {
		items, err := searcher.Search(ctx, query)
		deliver := func() { p.Deliver(epoch, items, err) }
		if post != nil {
			post(deliver)
			return
		}
		deliver()
	}()
}

// Epoch returns the current query epoch.
func (p *Popover) Epoch() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.epoch
}

// Deliver applies search results for epoch. Results for any other epoch,
// or arriving while closed, are dropped; it reports whether they were
// applied.
func (p *Popover) Deliver(epoch uint64, items []listbox.Item, err error) bool {
	p.mu.Lock()
	if epoch != p.epoch || p.phase == Closed {
		p.mu.Unlock()
		p.logger.Debug("dropping stale results", "epoch", epoch)
		return false
	}
	p.loading = false
	p.err = nil
	if err != nil {
		p.err = fmt.Errorf("%w: %v", ErrLoadFailed, err)
		items = nil
	}
	p.cancel = nil
	p.mu.Unlock()

	if err := p.list.SetItems(items); err != nil {
		p.logger.Warn("invalid items", "error", err)
		p.mu.Lock()
		p.err = fmt.Errorf("%w: %v", ErrLoadFailed, err)
		p.mu.Unlock()
	}
	if p.autoHighlight {
		if avail := p.list.Items(); len(avail) > 0 {
			for _, it := range avail {
				if !it.Disabled {
					p.list.Highlight(it.Value)
					break
				}
			}
		}
	}
	p.changed()
	return true
}

// Layout places the popover for a content size within boundary. The
// first successful layout of an activation moves it from Positioning to
// Open. ok is false while closed.
func (p *Popover) Layout(content geometry.Size, boundary geometry.Rect) (pl Placement, ok bool) {
	p.mu.Lock()
	if p.phase == Closed || p.reference == nil {
		p.mu.Unlock()
		return Placement{}, false
	}
	ref := p.reference
	clipEl := p.clip
	opts := p.opts
	p.mu.Unlock()

	// Measure outside the lock; anchors may call back into the editor.
	refRect := ref.BoundingRect()
	clip := boundary
	if clipEl != nil {
		clip = clipEl.BoundingRect()
	} else if ve, isVirtual := ref.(*geometry.VirtualElement); isVirtual && ve.Context != nil {
		clip = ve.Context.BoundingRect()
	}
	pl = Place(refRect, content, boundary, clip, opts)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.phase == Closed {
		return Placement{}, false
	}
	if p.phase == Positioning {
		p.phase = Open
		p.logger.Debug("popover open", "side", pl.Side.String(), "hidden", pl.ReferenceHidden)
	}
	p.placement = pl
	return pl, true
}

// Placement returns the last computed placement.
func (p *Popover) Placement() Placement {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.placement
}

// Interactive reports whether the popover should receive input: it is
// open and its reference is visible.
func (p *Popover) Interactive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase == Open && !p.placement.ReferenceHidden
}

func (p *Popover) selected(value string) {
	p.mu.Lock()
	r, ok := p.lastRange, p.hasRange
	p.mu.Unlock()
	if !ok {
		return
	}
	p.logger.Debug("popover select", "value", value, "from", r.From, "to", r.To)
	if p.onSelect != nil {
		p.onSelect(value, r)
	}
}

func (p *Popover) invalidate() {
	p.mu.Lock()
	if p.phase == Open {
		p.phase = Positioning
	}
	p.mu.Unlock()
	p.changed()
}

func (p *Popover) changed() {
	if p.onChange != nil {
		p.onChange()
	}
}
