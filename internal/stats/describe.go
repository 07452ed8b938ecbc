// Package stats computes descriptive statistics and correlation matrices over
// numeric table columns.
package stats

import (
	"database/sql"
	"math"
	"sort"
	"strconv"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/dbsmedya/evpop/internal/dataset"
)

// Summary holds the descriptive statistics of one numeric column. Values that
// are undefined for the column (no observations, or a single observation for
// Std) are left invalid.
type Summary struct {
	Column string
	Count  int
	Mean   sql.NullFloat64
	Std    sql.NullFloat64
	Min    sql.NullFloat64
	Q25    sql.NullFloat64
	Q50    sql.NullFloat64
	Q75    sql.NullFloat64
	Max    sql.NullFloat64
	Median sql.NullFloat64
}

// SummaryHeader is the column layout used when summaries are written out.
var SummaryHeader = []string{"", "count", "mean", "std", "min", "25%", "50%", "75%", "max", "median"}

// Describe summarizes the named numeric columns of t. With no names it
// summarizes every numeric column.
func Describe(t *dataset.Table, columns ...string) ([]Summary, error) {
	if len(columns) == 0 {
		columns = NumericColumns(t)
	}
	out := make([]Summary, 0, len(columns))
	for _, name := range columns {
		c, err := t.NumericColumn(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Summarize(name, c.Floats()))
	}
	return out, nil
}

// Summarize computes a Summary over the observed values of one column.
func Summarize(name string, values []float64) Summary {
	s := Summary{Column: name, Count: len(values)}
	if len(values) == 0 {
		return s
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s.Mean = valid(stat.Mean(sorted, nil))
	if len(sorted) > 1 {
		s.Std = valid(stat.StdDev(sorted, nil))
	}
	s.Min = valid(sorted[0])
	s.Max = valid(sorted[len(sorted)-1])
	s.Q25 = valid(Quantile(sorted, 0.25))
	s.Q50 = valid(Quantile(sorted, 0.50))
	s.Q75 = valid(Quantile(sorted, 0.75))
	if m, err := mstats.Median(sorted); err == nil {
		s.Median = valid(m)
	}
	return s
}

// Quantile returns the q-th quantile of sorted values, interpolating linearly
// between the order statistics around position q*(n-1). It returns NaN for an
// empty slice.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// NumericColumns lists the numeric columns of t in order.
func NumericColumns(t *dataset.Table) []string {
	return t.NumericNames()
}

// Records formats summaries as rows matching SummaryHeader. Invalid values are
// rendered as empty cells.
func Records(summaries []Summary) [][]string {
	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		rows[i] = []string{
			s.Column,
			strconv.Itoa(s.Count),
			FormatNull(s.Mean),
			FormatNull(s.Std),
			FormatNull(s.Min),
			FormatNull(s.Q25),
			FormatNull(s.Q50),
			FormatNull(s.Q75),
			FormatNull(s.Max),
			FormatNull(s.Median),
		}
	}
	return rows
}

// FormatNull renders a nullable float; invalid values become "".
func FormatNull(v sql.NullFloat64) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}

func valid(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
