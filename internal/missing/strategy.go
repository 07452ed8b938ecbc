package missing

import (
	"context"
	"fmt"

	mstats "github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/dbsmedya/evpop/internal/dataset"
	"github.com/dbsmedya/evpop/internal/stats"
)

// Variant names, in the order Compare returns them.
const (
	Original         = "Original"
	MeanImputation   = "Mean Imputation"
	MedianImputation = "Median Imputation"
	DropRows         = "Drop Rows"
)

// Fill records the value used to impute one column.
type Fill struct {
	Column string
	Value  float64
	Filled int
}

// Variant is one way of handling missing values: the derived table, the
// values imputed to build it, and its descriptive statistics.
type Variant struct {
	Name    string
	Table   *dataset.Table
	Fills   []Fill
	Summary []stats.Summary
}

// Comparison holds the variants produced by Compare.
type Comparison struct {
	Variants []*Variant
}

// Series is one variant's observed values of a column.
type Series struct {
	Name   string
	Values []float64
}

// Compare derives the Original, Mean Imputation, Median Imputation and Drop
// Rows variants of t and summarizes each.
//
// Imputation fills nulls of numeric columns only; a numeric column with no
// observed values is left as is. Drop Rows removes every row with a null in
// any column, categorical ones included.
func Compare(ctx context.Context, t *dataset.Table) (*Comparison, error) {
	mean, meanFills, err := impute(t, func(v []float64) (float64, error) {
		return stat.Mean(v, nil), nil
	})
	if err != nil {
		return nil, fmt.Errorf("mean imputation: %w", err)
	}
	median, medianFills, err := impute(t, func(v []float64) (float64, error) {
		return mstats.Median(v)
	})
	if err != nil {
		return nil, fmt.Errorf("median imputation: %w", err)
	}
	dropped := t.FilterRows(func(i int) bool { return !t.RowHasNull(i) })

	cmp := &Comparison{Variants: []*Variant{
		{Name: Original, Table: t},
		{Name: MeanImputation, Table: mean, Fills: meanFills},
		{Name: MedianImputation, Table: median, Fills: medianFills},
		{Name: DropRows, Table: dropped},
	}}

	g, ctx := errgroup.WithContext(ctx)
	for _, v := range cmp.Variants {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := stats.Describe(v.Table)
			if err != nil {
				return fmt.Errorf("summarize %s: %w", v.Name, err)
			}
			v.Summary = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cmp, nil
}

func impute(t *dataset.Table, fillValue func([]float64) (float64, error)) (*dataset.Table, []Fill, error) {
	var (
		replaced []*dataset.Column
		fills    []Fill
	)
	for _, name := range t.NumericNames() {
		c, err := t.NumericColumn(name)
		if err != nil {
			return nil, nil, err
		}
		nulls := c.NullCount()
		observed := c.Floats()
		if nulls == 0 || len(observed) == 0 {
			continue
		}
		v, err := fillValue(observed)
		if err != nil {
			return nil, nil, fmt.Errorf("column %q: %w", name, err)
		}
		filled, err := c.FillNull(v)
		if err != nil {
			return nil, nil, err
		}
		replaced = append(replaced, filled)
		fills = append(fills, Fill{Column: name, Value: v, Filled: nulls})
	}
	out, err := t.WithColumns(replaced...)
	if err != nil {
		return nil, nil, err
	}
	return out, fills, nil
}

// Variant returns the variant with the given name.
func (c *Comparison) Variant(name string) (*Variant, bool) {
	for _, v := range c.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// Distribution returns each variant's observed values of one numeric column,
// in variant order.
func (c *Comparison) Distribution(column string) ([]Series, error) {
	out := make([]Series, 0, len(c.Variants))
	for _, v := range c.Variants {
		col, err := v.Table.NumericColumn(column)
		if err != nil {
			return nil, err
		}
		out = append(out, Series{Name: v.Name, Values: col.Floats()})
	}
	return out, nil
}
