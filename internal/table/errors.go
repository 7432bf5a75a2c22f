package table

import "errors"

var (
	// ErrInvalidSize is returned when creating a table without rows or columns.
	ErrInvalidSize = errors.New("table needs at least one row and one column")

	// ErrOutOfRange is returned for a row or column index outside the table.
	ErrOutOfRange = errors.New("index out of range")

	// ErrDeleted is returned for operations on a removed table.
	ErrDeleted = errors.New("table was removed")

	// ErrUnknownCell is returned for a cell id not in the table.
	ErrUnknownCell = errors.New("unknown cell")

	// ErrCannotMerge is returned when a selection covers a single cell.
	ErrCannotMerge = errors.New("selection covers a single cell")

	// ErrNotMerged is returned when splitting a cell that spans one slot.
	ErrNotMerged = errors.New("cell is not merged")

	// ErrNoProvider is the panic value of MustFromContext without a menu.
	ErrNoProvider = errors.New("table menu used outside of a provider")
)
