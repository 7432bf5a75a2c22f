package listbox

import (
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/dshills/quill/internal/geometry"
	"github.com/dshills/quill/internal/input/key"
)

// Store holds the items, highlight and selection of a listbox.
//
// Callbacks are invoked without the store lock held, so they may call back
// into the store.
type Store struct {
	mu sync.Mutex

	items       []Item
	query       string
	value       string
	highlighted string
	offset      int
	pageSize    int
	bounds      geometry.Rect

	onSelect      func(value string)
	onValueChange func(value string)
	onHighlight   func(value string, el geometry.Element)
	logger        *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithValue sets the initial value, which is also highlighted.
func WithValue(v string) Option {
	return func(s *Store) {
		s.value = v
		s.highlighted = v
	}
}

// WithPageSize limits the number of rows shown at once. Zero shows all.
func WithPageSize(n int) Option {
	return func(s *Store) {
		s.pageSize = max(0, n)
	}
}

// OnSelect sets the callback for every selection.
func OnSelect(fn func(value string)) Option {
	return func(s *Store) {
		s.onSelect = fn
	}
}

// OnValueChange sets the callback for selections that change the value.
func OnValueChange(fn func(value string)) Option {
	return func(s *Store) {
		s.onValueChange = fn
	}
}

// OnHighlight sets the callback for highlight changes.
func OnHighlight(fn func(value string, el geometry.Element)) Option {
	return func(s *Store) {
		s.onHighlight = fn
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a store.
func New(opts ...Option) *Store {
	s := &Store{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds an item at the end and returns a function removing it.
func (s *Store) Register(it Item) (unregister func(), err error) {
	if it.Value == "" {
		return nil, ErrEmptyValue
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(it.Value) >= 0 {
		return nil, ErrDuplicateValue
	}
	s.items = append(s.items, it)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.items = slices.DeleteFunc(s.items, func(x Item) bool { return x.Value == it.Value })
		if s.highlighted == it.Value {
			s.highlighted = ""
		}
		s.clampOffsetLocked()
	}, nil
}

// SetItems replaces all items. The highlight is kept only when its item
// is still present.
func (s *Store) SetItems(items []Item) error {
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.Value == "" {
			return ErrEmptyValue
		}
		if seen[it.Value] {
			return ErrDuplicateValue
		}
		seen[it.Value] = true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = slices.Clone(items)
	s.offset = 0
	if !seen[s.highlighted] {
		s.highlighted = ""
	}
	return nil
}

// Reset drops the items, highlight, selected value and filter.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.highlighted = ""
	s.value = ""
	s.query = ""
	s.offset = 0
}

// SetFilter shows only items whose label fuzzily matches query.
func (s *Store) SetFilter(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.query == query {
		return
	}
	s.query = query
	s.offset = 0
}

// SetBounds sets the screen rectangle of the list, used for item elements.
func (s *Store) SetBounds(r geometry.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bounds = r
}

// Value returns the selected value.
func (s *Store) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// SetValue sets the value from outside. The highlight follows it.
func (s *Store) SetValue(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.value == v {
		return
	}
	s.value = v
	s.highlighted = v
}

// Highlighted returns the highlighted value.
func (s *Store) Highlighted() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.highlighted
}

// Items returns the visible items in display order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleLocked()
}

// Empty reports whether no item is visible.
func (s *Store) Empty() bool {
	return len(s.Items()) == 0
}

// GroupVisible reports whether group has a visible item.
func (s *Store) GroupVisible(group string) bool {
	for _, it := range s.Items() {
		if it.Group == group {
			return true
		}
	}
	return false
}

// Highlight highlights the visible, enabled item with value. It reports
// whether the highlight changed.
func (s *Store) Highlight(value string) bool {
	s.mu.Lock()
	if s.highlighted == value {
		s.mu.Unlock()
		return false
	}
	it, ok := s.findVisibleLocked(value)
	if !ok || it.Disabled {
		s.mu.Unlock()
		return false
	}
	s.highlighted = value
	el := s.itemElementLocked(value)
	onHighlight := s.onHighlight
	s.mu.Unlock()

	s.logger.Debug("listbox highlight", "value", value)
	if it.OnHighlight != nil {
		it.OnHighlight(value, el)
	}
	if onHighlight != nil {
		onHighlight(value, el)
	}
	return true
}

// Select selects the visible, enabled item with value. It reports whether
// an item was selected.
func (s *Store) Select(value string) bool {
	s.mu.Lock()
	it, ok := s.findVisibleLocked(value)
	if !ok || it.Disabled {
		s.mu.Unlock()
		return false
	}
	changed := s.value != value
	s.value = value
	onSelect, onValueChange := s.onSelect, s.onValueChange
	s.mu.Unlock()

	s.logger.Debug("listbox select", "value", value, "changed", changed)
	if onSelect != nil {
		onSelect(value)
	}
	if changed && onValueChange != nil {
		onValueChange(value)
	}
	if it.OnSelect != nil {
		it.OnSelect(value)
	}
	return true
}

// Keydown handles list navigation keys. Up and Down wrap around, Home and
// End jump to the ends, and Enter selects the highlighted item. It reports
// whether the key was consumed.
func (s *Store) Keydown(ev key.Event) bool {
	if ev.Modifiers != key.ModNone {
		return false
	}
	switch ev.Key {
	case key.KeyUp:
		s.move(-1)
		return true
	case key.KeyDown:
		s.move(1)
		return true
	case key.KeyHome:
		s.jump(true)
		return true
	case key.KeyEnd:
		s.jump(false)
		return true
	case key.KeyEnter:
		return s.Select(s.Highlighted())
	}
	return false
}

func (s *Store) enabled() []Item {
	return slices.DeleteFunc(s.Items(), func(it Item) bool { return it.Disabled })
}

func (s *Store) move(change int) {
	avail := s.enabled()
	n := len(avail)
	if n == 0 {
		return
	}
	cur := slices.IndexFunc(avail, func(it Item) bool { return it.Value == s.Highlighted() })
	var next int
	switch {
	case cur < 0 && change > 0:
		next = 0
	case cur < 0:
		next = n - 1
	default:
		next = (cur + change + n) % n
	}
	s.highlightAndReveal(avail[next].Value)
}

func (s *Store) jump(first bool) {
	avail := s.enabled()
	if len(avail) == 0 {
		return
	}
	if first {
		s.highlightAndReveal(avail[0].Value)
		return
	}
	s.highlightAndReveal(avail[len(avail)-1].Value)
}

func (s *Store) highlightAndReveal(value string) {
	s.Highlight(value)
	s.ScrollIntoView(value)
}

// ScrollIntoView scrolls the minimum amount to show the item with value,
// including its group label when it is the first item of a group.
func (s *Store) ScrollIntoView(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pageSize == 0 {
		return
	}
	rows := s.rowsLocked()
	r := slices.IndexFunc(rows, func(row Row) bool { return row.Kind == RowItem && row.Item.Value == value })
	if r < 0 {
		return
	}
	top := r
	if r > 0 && rows[r-1].Kind == RowGroupLabel {
		top = r - 1
	}
	if top < s.offset {
		s.offset = top
	}
	if r >= s.offset+s.pageSize {
		s.offset = r - s.pageSize + 1
	}
}

// Offset returns the index of the first shown row.
func (s *Store) Offset() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

// Rows returns all display rows.
func (s *Store) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rowsLocked()
}

// Window returns the rows currently shown.
func (s *Store) Window() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.rowsLocked()
	if s.pageSize == 0 {
		return rows
	}
	end := min(len(rows), s.offset+s.pageSize)
	return rows[min(s.offset, end):end]
}

// ItemElement returns an element measuring the row of the item with value,
// or nil when the item is not visible.
func (s *Store) ItemElement(value string) geometry.Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemElementLocked(value)
}

func (s *Store) itemElementLocked(value string) geometry.Element {
	if _, ok := s.findVisibleLocked(value); !ok {
		return nil
	}
	return geometry.NewVirtualElement(nil, func() geometry.Rect {
		s.mu.Lock()
		defer s.mu.Unlock()
		rows := s.rowsLocked()
		r := slices.IndexFunc(rows, func(row Row) bool { return row.Kind == RowItem && row.Item.Value == value })
		if r < 0 {
			return geometry.Rect{}
		}
		top := s.bounds.Top + r - s.offset
		return geometry.Rect{Top: top, Left: s.bounds.Left, Bottom: top + 1, Right: s.bounds.Right}
	})
}

func (s *Store) indexLocked(value string) int {
	return slices.IndexFunc(s.items, func(it Item) bool { return it.Value == value })
}

func (s *Store) findVisibleLocked(value string) (Item, bool) {
	for _, it := range s.visibleLocked() {
		if it.Value == value {
			return it, true
		}
	}
	return Item{}, false
}

// visibleLocked returns the items passing the filter, grouped in order of
// first appearance of each group.
func (s *Store) visibleLocked() []Item {
	var order []string
	byGroup := make(map[string][]Item)
	for _, it := range s.items {
		if s.query != "" && !fuzzy.MatchFold(s.query, it.label()) {
			continue
		}
		if _, ok := byGroup[it.Group]; !ok {
			order = append(order, it.Group)
		}
		byGroup[it.Group] = append(byGroup[it.Group], it)
	}
	out := make([]Item, 0, len(s.items))
	for _, g := range order {
		out = append(out, byGroup[g]...)
	}
	return out
}

func (s *Store) rowsLocked() []Row {
	var rows []Row
	group := "\x00"
	for _, it := range s.visibleLocked() {
		if it.Group != group {
			group = it.Group
			if group != "" {
				rows = append(rows, Row{Kind: RowGroupLabel, Text: group, Group: group})
			}
		}
		rows = append(rows, Row{
			Kind:        RowItem,
			Text:        it.label(),
			Item:        it,
			Group:       it.Group,
			Highlighted: it.Value == s.highlighted,
			Selected:    it.Value == s.value,
		})
	}
	return rows
}

func (s *Store) clampOffsetLocked() {
	s.offset = max(0, min(s.offset, len(s.rowsLocked())-1))
}
