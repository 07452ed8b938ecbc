package transform

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/dbsmedya/evpop/internal/dataset"
)

// Method selects a rescaling formula.
type Method int

const (
	// MinMax maps values onto [0,1] with (x - min) / (max - min).
	MinMax Method = iota
	// ZScore centers values with (x - mean) / std, using the sample std.
	ZScore
)

func (m Method) String() string {
	switch m {
	case MinMax:
		return "min-max"
	case ZScore:
		return "z-score"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod accepts "minmax", "min-max", "zscore", "z-score" or "standard".
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minmax", "min-max", "min_max":
		return MinMax, nil
	case "zscore", "z-score", "z_score", "standard":
		return ZScore, nil
	default:
		return 0, fmt.Errorf("unknown normalization method: %q", s)
	}
}

// Scaled is the result of Normalize. Degenerate lists the requested columns
// that could not be rescaled; those columns are entirely null in Table.
type Scaled struct {
	Table      *dataset.Table
	Degenerate []dataset.DegenerateColumnError
}

// Normalize rescales each named numeric column of t independently. Other
// columns, row count and row order are preserved, and null inputs stay null.
func Normalize(t *dataset.Table, method Method, columns ...string) (*Scaled, error) {
	if method != MinMax && method != ZScore {
		return nil, fmt.Errorf("normalize: unsupported method %v", method)
	}

	res := &Scaled{}
	replaced := make([]*dataset.Column, 0, len(columns))
	for _, name := range columns {
		c, err := t.NumericColumn(name)
		if err != nil {
			return nil, err
		}

		scale, reason := scaler(method, c.Floats())
		if reason != "" {
			res.Degenerate = append(res.Degenerate, dataset.DegenerateColumnError{Column: name, Reason: reason})
			replaced = append(replaced, dataset.NewNumericColumn(name, make([]float64, c.Len()), make([]bool, c.Len())))
			continue
		}
		scaled, err := c.MapFloats(func(v float64) (float64, bool) { return scale(v), true })
		if err != nil {
			return nil, err
		}
		replaced = append(replaced, scaled)
	}

	out, err := t.WithColumns(replaced...)
	if err != nil {
		return nil, err
	}
	res.Table = out
	return res, nil
}

// scaler returns the rescaling function for the observed values, or a reason
// when the formula is undefined for them.
func scaler(method Method, values []float64) (func(float64) float64, string) {
	switch method {
	case MinMax:
		if len(values) == 0 {
			return nil, "no values"
		}
		lo, hi := floats.Min(values), floats.Max(values)
		if lo == hi {
			return nil, "min equals max"
		}
		span := hi - lo
		return func(v float64) float64 { return (v - lo) / span }, ""
	default:
		if len(values) < 2 {
			return nil, "fewer than two values"
		}
		mean, std := stat.MeanStdDev(values, nil)
		if std == 0 {
			return nil, "zero standard deviation"
		}
		return func(v float64) float64 { return (v - mean) / std }, ""
	}
}
