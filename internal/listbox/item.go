package listbox

import "github.com/dshills/quill/internal/geometry"

// Item is one option of a listbox.
type Item struct {
	// Value identifies the item and must be unique within the store.
	Value string

	// Label is the displayed text. It defaults to Value.
	Label string

	// Group optionally names the group the item is shown under.
	Group string

	// Detail is secondary text shown after the label.
	Detail string

	Disabled bool

	// OnSelect is called when this item is selected.
	OnSelect func(value string)

	// OnHighlight is called when this item becomes highlighted.
	OnHighlight func(value string, el geometry.Element)
}

func (it Item) label() string {
	if it.Label != "" {
		return it.Label
	}
	return it.Value
}

// RowKind identifies a display row.
type RowKind uint8

const (
	// RowItem is an item row.
	RowItem RowKind = iota

	// RowGroupLabel is the label row that starts a group.
	RowGroupLabel
)

// Row is one line of the rendered list.
type Row struct {
	Kind  RowKind
	Text  string
	Item  Item
	Group string

	Highlighted bool
	Selected    bool
}
