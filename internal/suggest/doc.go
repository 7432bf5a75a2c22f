// Package suggest detects trigger sequences such as "@ann" or "#tag" while
// the user types and reports their lifecycle to a Handler.
//
// Each Plugin is a state machine recomputed from every editor transaction:
//
//   - A fresh trigger typed at the caret starts an activation.
//   - Typing or deleting right after the tracked range keeps it alive,
//     with the same ID, and updates the query.
//   - A space, a caret jump, a pointer event, a non-empty selection or a
//     read-only editor ends it.
//
// After every update the plugin view compares the previous and next state
// and calls OnEnd, OnUpdate and OnStart, in that order, so a stale popover
// is closed before a new one opens.
//
// # Exclusivity
//
// Instances sharing a Registry are mutually exclusive. When one starts,
// EnsureUnique force-disables the others in a single transaction that is
// applied within the same dispatch, so two popovers are never open in the
// same frame.
//
// # Matchers
//
// CharMatcher handles single trigger strings. Custom matchers (see the
// luamatch subpackage) may replace it; they must be pure.
package suggest
