package dataset

import (
	"strconv"
)

// Column is a named, typed vector of values with an explicit null mask.
// Columns are immutable once constructed.
type Column struct {
	name  string
	kind  Kind
	nums  []float64
	strs  []string
	bools []bool
	null  []bool
}

// NewNumericColumn builds a numeric column. valid[i] == false marks row i as
// null; a nil valid slice means every value is present.
func NewNumericColumn(name string, values []float64, valid []bool) *Column {
	c := &Column{name: name, kind: Numeric, nums: append([]float64(nil), values...)}
	c.null = nullMask(len(values), valid)
	return c
}

// NewCategoricalColumn builds a categorical column with the same null convention
// as NewNumericColumn.
func NewCategoricalColumn(name string, values []string, valid []bool) *Column {
	c := &Column{name: name, kind: Categorical, strs: append([]string(nil), values...)}
	c.null = nullMask(len(values), valid)
	return c
}

// NewBooleanColumn builds a boolean column with no nulls.
func NewBooleanColumn(name string, values []bool) *Column {
	return &Column{
		name:  name,
		kind:  Boolean,
		bools: append([]bool(nil), values...),
		null:  make([]bool, len(values)),
	}
}

func nullMask(n int, valid []bool) []bool {
	null := make([]bool, n)
	if valid == nil {
		return null
	}
	for i := range null {
		null[i] = i >= len(valid) || !valid[i]
	}
	return null
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Kind returns the column kind.
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of rows.
func (c *Column) Len() int { return len(c.null) }

// IsNull reports whether row i is null.
func (c *Column) IsNull(i int) bool { return c.null[i] }

// NullCount returns the number of null rows.
func (c *Column) NullCount() int {
	n := 0
	for _, isNull := range c.null {
		if isNull {
			n++
		}
	}
	return n
}

// Float returns row i of a numeric column. ok is false for nulls and for
// non-numeric columns.
func (c *Column) Float(i int) (float64, bool) {
	if c.kind != Numeric || c.null[i] {
		return 0, false
	}
	return c.nums[i], true
}

// String returns row i of a categorical column. ok is false for nulls and for
// non-categorical columns.
func (c *Column) String(i int) (string, bool) {
	if c.kind != Categorical || c.null[i] {
		return "", false
	}
	return c.strs[i], true
}

// Bool returns row i of a boolean column.
func (c *Column) Bool(i int) (bool, bool) {
	if c.kind != Boolean || c.null[i] {
		return false, false
	}
	return c.bools[i], true
}

// Format renders row i as it is written to CSV; nulls render as "".
func (c *Column) Format(i int) string {
	if c.null[i] {
		return ""
	}
	switch c.kind {
	case Numeric:
		return strconv.FormatFloat(c.nums[i], 'f', -1, 64)
	case Boolean:
		if c.bools[i] {
			return "True"
		}
		return "False"
	default:
		return c.strs[i]
	}
}

// Floats returns the non-null values of a numeric column in row order.
func (c *Column) Floats() []float64 {
	if c.kind != Numeric {
		return nil
	}
	out := make([]float64, 0, len(c.nums))
	for i, v := range c.nums {
		if !c.null[i] {
			out = append(out, v)
		}
	}
	return out
}

// Rename returns a copy of the column under a new name.
func (c *Column) Rename(name string) *Column {
	cp := c.clone()
	cp.name = name
	return cp
}

// MapFloats returns a numeric column whose non-null values are replaced by fn.
// fn returning ok == false turns the value into a null. Null inputs stay null.
func (c *Column) MapFloats(fn func(v float64) (float64, bool)) (*Column, error) {
	if c.kind != Numeric {
		return nil, notNumeric(c.name)
	}
	values := make([]float64, len(c.nums))
	valid := make([]bool, len(c.nums))
	for i, v := range c.nums {
		if c.null[i] {
			continue
		}
		values[i], valid[i] = fn(v)
	}
	return NewNumericColumn(c.name, values, valid), nil
}

// FillNull returns a copy of a numeric column with every null replaced by v.
func (c *Column) FillNull(v float64) (*Column, error) {
	if c.kind != Numeric {
		return nil, notNumeric(c.name)
	}
	values := append([]float64(nil), c.nums...)
	for i := range values {
		if c.null[i] {
			values[i] = v
		}
	}
	return NewNumericColumn(c.name, values, nil), nil
}

// take returns a column holding rows idx in order.
func (c *Column) take(idx []int) *Column {
	out := &Column{name: c.name, kind: c.kind, null: make([]bool, len(idx))}
	switch c.kind {
	case Numeric:
		out.nums = make([]float64, len(idx))
	case Categorical:
		out.strs = make([]string, len(idx))
	case Boolean:
		out.bools = make([]bool, len(idx))
	}
	for j, i := range idx {
		out.null[j] = c.null[i]
		switch c.kind {
		case Numeric:
			out.nums[j] = c.nums[i]
		case Categorical:
			out.strs[j] = c.strs[i]
		case Boolean:
			out.bools[j] = c.bools[i]
		}
	}
	return out
}

func (c *Column) clone() *Column {
	return &Column{
		name:  c.name,
		kind:  c.kind,
		nums:  append([]float64(nil), c.nums...),
		strs:  append([]string(nil), c.strs...),
		bools: append([]bool(nil), c.bools...),
		null:  append([]bool(nil), c.null...),
	}
}
