// Package checkbox implements a checkbox group: a selection over
// registered values, optionally organised in nested sections, with bulk
// select, unselect and reverse operations and a tri-state aggregate.
package checkbox
