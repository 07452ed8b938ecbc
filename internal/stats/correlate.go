package stats

import (
	"database/sql"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/dbsmedya/evpop/internal/dataset"
)

// Matrix is a square, symmetric Pearson correlation matrix. Entries that cannot
// be computed are invalid.
type Matrix struct {
	Columns []string
	values  [][]sql.NullFloat64
}

// At returns the correlation between columns i and j.
func (m *Matrix) At(i, j int) sql.NullFloat64 {
	return m.values[i][j]
}

// Get returns the correlation between two named columns. ok is false when
// either name is not part of the matrix.
func (m *Matrix) Get(a, b string) (sql.NullFloat64, bool) {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return sql.NullFloat64{}, false
	}
	return m.values[i][j], true
}

// Size returns the number of rows (and columns).
func (m *Matrix) Size() int { return len(m.Columns) }

// Records formats the matrix with a leading label column. Invalid entries are
// rendered as empty cells.
func (m *Matrix) Records() (header []string, rows [][]string) {
	header = append([]string{""}, m.Columns...)
	rows = make([][]string, len(m.Columns))
	for i, name := range m.Columns {
		row := make([]string, 0, len(m.Columns)+1)
		row = append(row, name)
		for j := range m.Columns {
			row = append(row, FormatNull(m.values[i][j]))
		}
		rows[i] = row
	}
	return header, rows
}

func (m *Matrix) index(name string) int {
	for i, c := range m.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Correlate computes Pearson correlations between the named numeric columns
// using pairwise-complete observations. With no names it uses every numeric
// column.
func Correlate(t *dataset.Table, columns ...string) (*Matrix, error) {
	if len(columns) == 0 {
		columns = NumericColumns(t)
	}
	cols := make([]*dataset.Column, len(columns))
	for i, name := range columns {
		c, err := t.NumericColumn(name)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}

	n := len(cols)
	m := &Matrix{Columns: append([]string(nil), columns...), values: make([][]sql.NullFloat64, n)}
	for i := range m.values {
		m.values[i] = make([]sql.NullFloat64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := pearson(cols[i], cols[j], i == j)
			m.values[i][j] = r
			m.values[j][i] = r
		}
	}
	return m, nil
}

func pearson(a, b *dataset.Column, diagonal bool) sql.NullFloat64 {
	var xs, ys []float64
	for k := 0; k < a.Len(); k++ {
		x, okx := a.Float(k)
		y, oky := b.Float(k)
		if okx && oky {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return sql.NullFloat64{}
	}
	if diagonal {
		return sql.NullFloat64{Float64: 1, Valid: true}
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: math.Max(-1, math.Min(1, r)), Valid: true}
}

func constant(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}
