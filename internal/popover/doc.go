// Package popover implements the floating result list attached to a
// suggestion activation.
//
// A Popover is a suggest.Handler. Its life cycle has three phases:
//
//   - Closed: nothing is shown and key events pass through
//   - Positioning: an activation started but no layout has happened yet
//   - Open: the popover has a placement and is drawn by the frontend
//
// Results come from a Searcher. Each query bumps an epoch and cancels the
// previous search; results carrying an older epoch are dropped, so the
// last query always wins regardless of the order searches complete in.
//
// Place computes the rectangle for the popover from the reference rect,
// the content size and the screen boundary, flipping above the reference
// when there is more room there.
package popover
