package aggregate

import (
	"sort"
	"strconv"

	"github.com/dbsmedya/evpop/internal/dataset"
)

// PivotTable is a two-key count unstacked into a dense grid: Values[i][j] is
// the number of rows with RowLabels[i] and ColLabels[j]. Missing combinations
// are 0.
type PivotTable struct {
	RowKey    string
	ColKey    string
	RowLabels []string
	ColLabels []string
	Values    [][]float64
}

// Pivot counts t by rowKey and colKey and unstacks the result. Labels are
// sorted ascending, numerically when every label is a number.
func Pivot(t *dataset.Table, rowKey, colKey string) (*PivotTable, error) {
	counts, err := GroupCount(t, rowKey, colKey)
	if err != nil {
		return nil, err
	}

	rowSet := map[string]bool{}
	colSet := map[string]bool{}
	for _, g := range counts.Groups() {
		rowSet[g.Values[0]] = true
		colSet[g.Values[1]] = true
	}

	p := &PivotTable{
		RowKey:    rowKey,
		ColKey:    colKey,
		RowLabels: sortedKeys(rowSet),
		ColLabels: sortedKeys(colSet),
	}
	p.Values = make([][]float64, len(p.RowLabels))
	for i, r := range p.RowLabels {
		p.Values[i] = make([]float64, len(p.ColLabels))
		for j, c := range p.ColLabels {
			p.Values[i][j] = float64(counts.Get(r, c))
		}
	}
	return p, nil
}

// Column returns the counts of one column label down the rows.
func (p *PivotTable) Column(j int) []float64 {
	out := make([]float64, len(p.RowLabels))
	for i := range p.RowLabels {
		out[i] = p.Values[i][j]
	}
	return out
}

// Transpose swaps rows and columns.
func (p *PivotTable) Transpose() *PivotTable {
	out := &PivotTable{
		RowKey:    p.ColKey,
		ColKey:    p.RowKey,
		RowLabels: append([]string(nil), p.ColLabels...),
		ColLabels: append([]string(nil), p.RowLabels...),
		Values:    make([][]float64, len(p.ColLabels)),
	}
	for j := range p.ColLabels {
		out.Values[j] = p.Column(j)
	}
	return out
}

// Records formats the grid with the row labels as the first column.
func (p *PivotTable) Records() (header []string, rows [][]string) {
	header = append([]string{p.RowKey}, p.ColLabels...)
	rows = make([][]string, len(p.RowLabels))
	for i, r := range p.RowLabels {
		row := make([]string, 0, len(p.ColLabels)+1)
		row = append(row, r)
		for _, v := range p.Values[i] {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		rows[i] = row
	}
	return header, rows
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	numeric := true
	for _, k := range out {
		if _, ok := dataset.ParseNumber(k); !ok {
			numeric = false
			break
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if numeric {
			a, _ := dataset.ParseNumber(out[i])
			b, _ := dataset.ParseNumber(out[j])
			return a < b
		}
		return out[i] < out[j]
	})
	return out
}

// compareKeys orders two key values, numerically when both are numbers.
func compareKeys(a, b string) int {
	x, okx := dataset.ParseNumber(a)
	y, oky := dataset.ParseNumber(b)
	if okx && oky {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
