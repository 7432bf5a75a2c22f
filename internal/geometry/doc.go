// Package geometry provides terminal cell rectangles and the anchor
// resolver used to attach floating surfaces to document ranges.
package geometry
