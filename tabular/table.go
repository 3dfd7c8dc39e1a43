// Copyright 2025 The GeoConverter Authors
// SPDX-License-Identifier: Apache-2.0

// Package tabular holds the in-memory CSV table model: ordered rows
// under a named header, with lenient column-name matching.
package tabular

import "slices"

// Table is a header plus data rows, kept in input order. Rows are
// opaque to the table: any column the caller doesn't understand passes
// through untouched.
type Table struct {
	header []string
	rows   [][]string
}

// New creates an empty table with the given header.
func New(header []string) *Table {
	return &Table{header: slices.Clone(header)}
}

// Header returns the column names in order.
func (t *Table) Header() []string {
	return t.header
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the i-th data row.
func (t *Table) Row(i int) []string {
	return t.rows[i]
}

// Append adds a row at the end of the table.
func (t *Table) Append(row []string) {
	t.rows = append(t.rows, row)
}

// Column resolves a column name to its index. Matching is
// case-insensitive and ignores accents, so "Latitude", "LATITUDE" and
// "latitudé" all resolve to a "latitude" column.
func (t *Table) Column(name string) (int, bool) {
	want := Fold(name)

	for i, col := range t.header {
		if Fold(col) == want {
			return i, true
		}
	}

	return 0, false
}

// WithColumns returns a new empty table whose header is this table's
// header extended with the given column names.
func (t *Table) WithColumns(names ...string) *Table {
	header := make([]string, 0, len(t.header)+len(names))
	header = append(header, t.header...)
	header = append(header, names...)

	return &Table{header: header, rows: make([][]string, 0, len(t.rows))}
}
