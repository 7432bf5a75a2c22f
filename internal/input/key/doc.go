// Package key provides key event types and parsing for editor input.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Key: Identifies a keyboard key (special keys or runes)
//   - Modifier: Represents modifier keys (Ctrl, Alt, Shift, Meta)
//   - Event: A single key press with modifiers
//
// Terminal backends convert their native events into Event values; the
// editor view, suggestion plugins and listboxes only ever see Event.
//
// # Key Specifications
//
// Key specifications used in configuration can be written as:
//
//   - Simple keys: "a", "@", "Enter", "Escape", "Space"
//   - With modifiers: "Ctrl+N", "Alt+Enter", "Ctrl+Shift+P"
package key
