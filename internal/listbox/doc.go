// Package listbox implements the state of a keyboard-navigable list of
// options, as used by suggestion popovers and comboboxes.
//
// A Store keeps the registered items, an optional fuzzy filter, the
// highlighted item and the selected value. Keydown maps Up/Down (wrapping),
// Home/End and Enter onto Highlight and Select. Disabled items can be shown
// but are never highlighted or selected.
//
// Rendering code finds its Store through a context (NewContext and
// MustFromContext); asking for a store outside one panics with
// ErrNoProvider.
package listbox
