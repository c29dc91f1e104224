// Package table holds parsed pipeline output as named float64 columns with an
// optional time index.
package table

import (
	"fmt"
	"slices"
	"time"
)

// Column is one named column of values.
type Column struct {
	Name   string
	Values []float64
}

// Table is a column-major table. Every column has Len() values; Index is
// either nil or also Len() long.
type Table struct {
	Index   []time.Time
	Columns []Column
}

// New returns an empty table with the given column names.
func New(names []string) *Table {
	cols := make([]Column, len(names))
	for i, n := range names {
		cols[i] = Column{Name: n}
	}
	return &Table{Columns: cols}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.Columns) == 0 {
		return len(t.Index)
	}
	return len(t.Columns[0].Values)
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the values of the named column.
func (t *Table) Column(name string) ([]float64, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c.Values, true
		}
	}
	return nil, false
}

// AppendRow adds one row. len(row) must equal the number of columns.
func (t *Table) AppendRow(row []float64) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(row), len(t.Columns))
	}
	for i, v := range row {
		t.Columns[i].Values = append(t.Columns[i].Values, v)
	}
	return nil
}

// Drop removes the named columns. Unknown names are ignored.
func (t *Table) Drop(names ...string) {
	t.Columns = slices.DeleteFunc(t.Columns, func(c Column) bool {
		return slices.Contains(names, c.Name)
	})
}
