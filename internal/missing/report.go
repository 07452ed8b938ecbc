// Package missing documents missing values in a table and compares the
// strategies for dealing with them.
package missing

import (
	"strconv"

	"github.com/dbsmedya/evpop/internal/dataset"
)

// Entry is the missing-value tally of one column.
type Entry struct {
	Column     string
	Missing    int
	Percentage float64
}

// Report lists the missing values of every column in table order.
type Report struct {
	Rows    int
	Entries []Entry
}

// ReportHeader is the column layout used when a report is printed or written.
var ReportHeader = []string{"Feature", "Missing Values", "Percentage"}

// Document counts the nulls of every column of t. Percentages are relative to
// the row count and are 0 when t has no rows.
func Document(t *dataset.Table) *Report {
	r := &Report{Rows: t.Rows(), Entries: make([]Entry, 0, t.Width())}
	for _, c := range t.Columns() {
		e := Entry{Column: c.Name(), Missing: c.NullCount()}
		if r.Rows > 0 {
			e.Percentage = 100 * float64(e.Missing) / float64(r.Rows)
		}
		r.Entries = append(r.Entries, e)
	}
	return r
}

// TotalMissing returns the number of null cells.
func (r *Report) TotalMissing() int {
	n := 0
	for _, e := range r.Entries {
		n += e.Missing
	}
	return n
}

// Cells returns the number of cells in the table the report describes.
func (r *Report) Cells() int {
	return r.Rows * len(r.Entries)
}

// Incomplete returns the entries with at least one missing value.
func (r *Report) Incomplete() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Missing > 0 {
			out = append(out, e)
		}
	}
	return out
}

// Records formats the report as rows matching ReportHeader.
func (r *Report) Records() [][]string {
	rows := make([][]string, len(r.Entries))
	for i, e := range r.Entries {
		rows[i] = []string{
			e.Column,
			strconv.Itoa(e.Missing),
			strconv.FormatFloat(e.Percentage, 'f', 6, 64),
		}
	}
	return rows
}

// Labels returns the column names in report order.
func (r *Report) Labels() []string {
	out := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Column
	}
	return out
}

// Counts returns the missing counts in report order.
func (r *Report) Counts() []float64 {
	out := make([]float64, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = float64(e.Missing)
	}
	return out
}
