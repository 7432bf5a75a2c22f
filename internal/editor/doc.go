// Package editor provides the document engine the suggestion, popover and
// table packages are built on.
//
// The model follows the familiar state/transaction design:
//
//   - Doc: an immutable sequence of inline nodes (text, atoms, breaks)
//   - Transaction: replace steps, a selection update and metadata
//   - State: a document, a selection and one field per plugin
//   - View: owns the current state, lays it out in terminal cells and
//     turns key events into transactions
//
// # Positions
//
// Positions count runes. Atoms and breaks occupy one position each, so
// the text "hi" followed by an atom has positions 0 through 3.
//
// # Plugins
//
// A Plugin contributes a state field that is recomputed from every
// transaction. Plugins may also implement ViewPlugin to receive
// Update/Destroy callbacks, KeyHandler to see keys before the default
// keymap, and DecorationSource to mark ranges for rendering.
//
// Plugin views run synchronously inside Dispatch. A plugin view that
// dispatches from Update does not recurse: the transaction is queued and
// applied once the current update finishes.
package editor
