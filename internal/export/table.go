// Package export publishes analysis results to MySQL tables.
package export

import (
	"database/sql"

	"github.com/dbsmedya/evpop/internal/aggregate"
	"github.com/dbsmedya/evpop/internal/dataset"
	"github.com/dbsmedya/evpop/internal/missing"
	"github.com/dbsmedya/evpop/internal/stats"
)

// ColumnType is the SQL type a result column is stored as.
type ColumnType int

const (
	Double ColumnType = iota
	Integer
	Text
	Flag
)

// SQL returns the MySQL column definition for the type.
func (c ColumnType) SQL() string {
	switch c {
	case Integer:
		return "BIGINT NULL"
	case Text:
		return "TEXT NULL"
	case Flag:
		return "TINYINT(1) NULL"
	default:
		return "DOUBLE NULL"
	}
}

// Column names one result column. Name is the display name; the exporter
// derives the SQL identifier from it.
type Column struct {
	Name string
	Type ColumnType
}

// Table is one result set ready for export. Row values are nil for NULL or
// one of float64, int64, string, bool.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// FromDataset converts a dataset table, mapping column kinds to SQL types.
func FromDataset(name string, t *dataset.Table) Table {
	out := Table{Name: name}
	cols := t.Columns()
	for _, c := range cols {
		typ := Double
		switch c.Kind() {
		case dataset.Categorical:
			typ = Text
		case dataset.Boolean:
			typ = Flag
		}
		out.Columns = append(out.Columns, Column{Name: c.Name(), Type: typ})
	}

	out.Rows = make([][]any, t.Rows())
	for i := range out.Rows {
		row := make([]any, len(cols))
		for j, c := range cols {
			switch c.Kind() {
			case dataset.Numeric:
				if v, ok := c.Float(i); ok {
					row[j] = v
				}
			case dataset.Categorical:
				if v, ok := c.String(i); ok {
					row[j] = v
				}
			case dataset.Boolean:
				if v, ok := c.Bool(i); ok {
					row[j] = v
				}
			}
		}
		out.Rows[i] = row
	}
	return out
}

// FromReport converts a missing-value report.
func FromReport(name string, r *missing.Report) Table {
	out := Table{
		Name: name,
		Columns: []Column{
			{Name: "Feature", Type: Text},
			{Name: "Missing Values", Type: Integer},
			{Name: "Percentage", Type: Double},
		},
	}
	for _, e := range r.Entries {
		out.Rows = append(out.Rows, []any{e.Column, int64(e.Missing), e.Percentage})
	}
	return out
}

// FromSummaries converts descriptive statistics, one row per column.
func FromSummaries(name string, summaries []stats.Summary) Table {
	out := Table{Name: name, Columns: []Column{{Name: "Feature", Type: Text}, {Name: "Count", Type: Integer}}}
	for _, h := range stats.SummaryHeader[2:] {
		out.Columns = append(out.Columns, Column{Name: h, Type: Double})
	}
	for _, s := range summaries {
		row := []any{s.Column, int64(s.Count)}
		for _, v := range []sql.NullFloat64{s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max, s.Median} {
			row = append(row, nullable(v))
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// FromCounts converts group counts, one column per key plus "Count".
func FromCounts(name string, c *aggregate.Counts, groups []aggregate.Group) Table {
	out := Table{Name: name}
	for _, k := range c.Keys {
		out.Columns = append(out.Columns, Column{Name: k, Type: Text})
	}
	out.Columns = append(out.Columns, Column{Name: "Count", Type: Integer})
	for _, g := range groups {
		row := make([]any, 0, len(g.Values)+1)
		for _, v := range g.Values {
			row = append(row, v)
		}
		out.Rows = append(out.Rows, append(row, int64(g.Count)))
	}
	return out
}

func nullable(v sql.NullFloat64) any {
	if !v.Valid {
		return nil
	}
	return v.Float64
}
