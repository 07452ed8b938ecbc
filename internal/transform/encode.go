// Package transform derives encoded and rescaled copies of a table.
package transform

import (
	"fmt"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/evpop/internal/dataset"
)

// Encode replaces each named column with one boolean indicator column per
// distinct non-null value, named "{column}_{value}". Categories keep the order
// in which they are first seen. Indicator columns are appended after the
// columns that were not encoded; a null source value sets none of its
// indicators.
func Encode(t *dataset.Table, columns ...string) (*dataset.Table, error) {
	if err := t.Require(columns...); err != nil {
		return nil, err
	}

	var indicators []*dataset.Column
	for _, name := range columns {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		indicators = append(indicators, oneHot(c)...)
	}

	rest, err := t.Drop(columns...)
	if err != nil {
		return nil, err
	}
	out, err := dataset.NewTable(append(rest.Columns(), indicators...)...)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return out, nil
}

// Categories returns the distinct non-null values of a column in first-seen
// order.
func Categories(c *dataset.Column) []string {
	seen := orderedmap.NewOrderedMap[string, struct{}]()
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		seen.Set(c.Format(i), struct{}{})
	}
	return seen.Keys()
}

func oneHot(c *dataset.Column) []*dataset.Column {
	rows := c.Len()
	flags := orderedmap.NewOrderedMap[string, []bool]()
	for i := 0; i < rows; i++ {
		if c.IsNull(i) {
			continue
		}
		v := c.Format(i)
		f, ok := flags.Get(v)
		if !ok {
			f = make([]bool, rows)
			flags.Set(v, f)
		}
		f[i] = true
	}

	out := make([]*dataset.Column, 0, flags.Len())
	for el := flags.Front(); el != nil; el = el.Next() {
		out = append(out, dataset.NewBooleanColumn(c.Name()+"_"+el.Key, el.Value))
	}
	return out
}
