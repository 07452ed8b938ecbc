// Package dataset holds the typed, read-only record set the analyses operate on,
// along with CSV and XLSX loading and artifact writers.
package dataset

import (
	"fmt"
)

// Table is an ordered set of equally long columns. A Table is never mutated
// after construction; every derivation returns a new Table that may share
// (immutable) columns with its source.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// NewTable builds a table from columns. All columns must have the same length
// and distinct names.
func NewTable(cols ...*Column) (*Table, error) {
	t := &Table{cols: make([]*Column, 0, len(cols)), index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if c == nil {
			return nil, fmt.Errorf("column %d is nil", i)
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", c.Name(), c.Len(), t.rows)
		}
		if _, dup := t.index[c.Name()]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.Name())
		}
		t.index[c.Name()] = len(t.cols)
		t.cols = append(t.cols, c)
	}
	return t, nil
}

// Rows returns the row count.
func (t *Table) Rows() int { return t.rows }

// Width returns the column count.
func (t *Table) Width() int { return len(t.cols) }

// Columns returns the columns in order. The returned slice is a copy.
func (t *Table) Columns() []*Column {
	return append([]*Column(nil), t.cols...)
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name()
	}
	return names
}

// Has reports whether the table has a column called name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column or an *InvalidColumnError.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, notFound(name)
	}
	return t.cols[i], nil
}

// NumericColumn returns the named column and checks that it is numeric.
func (t *Table) NumericColumn(name string) (*Column, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind() != Numeric {
		return nil, notNumeric(name)
	}
	return c, nil
}

// Require checks that every name is present and returns an *InvalidColumnError
// for the first one that is not.
func (t *Table) Require(names ...string) error {
	for _, name := range names {
		if !t.Has(name) {
			return notFound(name)
		}
	}
	return nil
}

// RequireNumeric is Require plus a numeric kind check.
func (t *Table) RequireNumeric(names ...string) error {
	for _, name := range names {
		if _, err := t.NumericColumn(name); err != nil {
			return err
		}
	}
	return nil
}

// NumericNames returns the names of numeric columns in order.
func (t *Table) NumericNames() []string {
	var names []string
	for _, c := range t.cols {
		if c.Kind() == Numeric {
			names = append(names, c.Name())
		}
	}
	return names
}

// RowHasNull reports whether any column is null at row i.
func (t *Table) RowHasNull(i int) bool {
	for _, c := range t.cols {
		if c.IsNull(i) {
			return true
		}
	}
	return false
}

// Record returns row i formatted as strings in column order.
func (t *Table) Record(i int) []string {
	rec := make([]string, len(t.cols))
	for j, c := range t.cols {
		rec[j] = c.Format(i)
	}
	return rec
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	cols := make([]*Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.clone()
	}
	out, _ := NewTable(cols...)
	if len(cols) == 0 {
		out.rows = t.rows
	}
	return out
}

// Select returns a table with only the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return NewTable(cols...)
}

// Drop returns a table without the named columns.
func (t *Table) Drop(names ...string) (*Table, error) {
	if err := t.Require(names...); err != nil {
		return nil, err
	}
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		drop[name] = true
	}
	cols := make([]*Column, 0, len(t.cols))
	for _, c := range t.cols {
		if !drop[c.Name()] {
			cols = append(cols, c)
		}
	}
	out, err := NewTable(cols...)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		out.rows = t.rows
	}
	return out, nil
}

// WithColumns returns a table where each given column replaces the column of
// the same name, or is appended when no such column exists.
func (t *Table) WithColumns(cols ...*Column) (*Table, error) {
	next := append([]*Column(nil), t.cols...)
	pos := make(map[string]int, len(t.index))
	for k, v := range t.index {
		pos[k] = v
	}
	for _, c := range cols {
		if i, ok := pos[c.Name()]; ok {
			next[i] = c
			continue
		}
		pos[c.Name()] = len(next)
		next = append(next, c)
	}
	return NewTable(next...)
}

// FilterRows returns a table with the rows for which keep returns true, in order.
func (t *Table) FilterRows(keep func(i int) bool) *Table {
	idx := make([]int, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	return t.take(idx)
}

// Head returns the first n rows.
func (t *Table) Head(n int) *Table {
	if n > t.rows {
		n = t.rows
	}
	if n < 0 {
		n = 0
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return t.take(idx)
}

func (t *Table) take(idx []int) *Table {
	cols := make([]*Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.take(idx)
	}
	out, _ := NewTable(cols...)
	out.rows = len(idx)
	return out
}
