// Package table implements editable tables with merged cells and the
// state behind their row, column and cell menus.
//
// A Table is a grid of slots; each slot holds the id of the cell covering
// it, so a cell with colspan or rowspan covers a rectangle of slots. Map
// is an immutable snapshot of that layout used to resolve selections.
//
// Menu tracks the operation areas of the rendered tables, the current
// CellSelection and which bubble menu (row, column or cell) is shown.
// Commands that remove the last row or column remove the whole table.
package table
