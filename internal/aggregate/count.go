// Package aggregate groups table rows by key columns and counts them.
package aggregate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/evpop/internal/dataset"
)

const keySep = "\x1f"

// Group is one distinct key tuple and the number of rows that carry it.
type Group struct {
	Values []string
	Count  int
}

// Label joins the key values for display.
func (g Group) Label() string {
	return strings.Join(g.Values, " / ")
}

// Counts maps key tuples to row counts, remembering first-seen order.
type Counts struct {
	Keys   []string
	groups *orderedmap.OrderedMap[string, *Group]
	total  int
}

// GroupCount counts the rows of t per distinct combination of the key
// columns. Rows with a null in any key column are not counted.
func GroupCount(t *dataset.Table, keys ...string) (*Counts, error) {
	cols := make([]*dataset.Column, len(keys))
	for i, k := range keys {
		c, err := t.Column(k)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}

	res := &Counts{Keys: append([]string(nil), keys...), groups: orderedmap.NewOrderedMap[string, *Group]()}
	values := make([]string, len(cols))
rows:
	for r := 0; r < t.Rows(); r++ {
		for i, c := range cols {
			if c.IsNull(r) {
				continue rows
			}
			values[i] = c.Format(r)
		}
		res.add(values)
	}
	return res, nil
}

func (c *Counts) add(values []string) {
	k := strings.Join(values, keySep)
	g, ok := c.groups.Get(k)
	if !ok {
		g = &Group{Values: append([]string(nil), values...)}
		c.groups.Set(k, g)
	}
	g.Count++
	c.total++
}

// Get returns the count for one key tuple, 0 if it was never seen.
func (c *Counts) Get(values ...string) int {
	g, ok := c.groups.Get(strings.Join(values, keySep))
	if !ok {
		return 0
	}
	return g.Count
}

// Len returns the number of distinct key tuples.
func (c *Counts) Len() int { return c.groups.Len() }

// Total returns the number of rows counted.
func (c *Counts) Total() int { return c.total }

// Groups returns the groups in first-seen order.
func (c *Counts) Groups() []Group {
	out := make([]Group, 0, c.groups.Len())
	for el := c.groups.Front(); el != nil; el = el.Next() {
		out = append(out, *el.Value)
	}
	return out
}

// Sorted returns the groups by descending count, ties broken by key values in
// ascending order.
func (c *Counts) Sorted() []Group {
	out := c.Groups()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return lessValues(out[i].Values, out[j].Values)
	})
	return out
}

// Top returns the n largest groups of Sorted. n <= 0 returns them all.
func (c *Counts) Top(n int) []Group {
	out := c.Sorted()
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// ByKey returns the groups ordered by key values ascending, numerically for
// numeric keys.
func (c *Counts) ByKey() []Group {
	out := c.Groups()
	sort.SliceStable(out, func(i, j int) bool {
		return lessValues(out[i].Values, out[j].Values)
	})
	return out
}

// Labels returns the display labels of groups.
func Labels(groups []Group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Label()
	}
	return out
}

// Values returns the counts of groups as float64s.
func Values(groups []Group) []float64 {
	out := make([]float64, len(groups))
	for i, g := range groups {
		out[i] = float64(g.Count)
	}
	return out
}

// Records formats groups as rows of key values followed by the count.
func (c *Counts) Records(groups []Group) (header []string, rows [][]string) {
	header = append(append([]string(nil), c.Keys...), "Count")
	rows = make([][]string, len(groups))
	for i, g := range groups {
		rows[i] = append(append([]string(nil), g.Values...), strconv.Itoa(g.Count))
	}
	return header, rows
}

// KeepValues returns the rows of t whose value in column is one of values.
func KeepValues(t *dataset.Table, column string, values []string) (*dataset.Table, error) {
	c, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	keep := make(map[string]bool, len(values))
	for _, v := range values {
		keep[v] = true
	}
	return t.FilterRows(func(i int) bool {
		return !c.IsNull(i) && keep[c.Format(i)]
	}), nil
}

func lessValues(a, b []string) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		if a[i] != b[i] {
			return compareKeys(a[i], b[i]) < 0
		}
	}
	return len(a) < len(b)
}
