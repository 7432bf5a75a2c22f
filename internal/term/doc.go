// Package term is the tcell backend of quill.
//
// A Screen wraps a tcell.Screen. It converts tcell events into Event
// values carrying key.Event, draws an editor.View with its decorations
// and draws an open popover.Popover at its computed placement. Work from
// other goroutines is handed back to the UI loop with Post, which queues
// an EventFunc.
package term
