package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// nullTokens are cell values read as missing, matching the defaults of common
// dataframe CSV readers.
var nullTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"n/a":  true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"NULL": true,
	"None": true,
	"#N/A": true,
}

// IsNullToken reports whether a raw cell should be read as null.
func IsNullToken(s string) bool {
	return nullTokens[strings.TrimSpace(s)]
}

// ParseNumber parses a raw cell as a float64.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FromRecords builds a table from a header and string records, inferring each
// column's kind. A column is numeric when every non-null cell parses as a
// number; a column with no non-null cells is numeric too. Short records are
// padded with nulls.
func FromRecords(header []string, records [][]string) (*Table, error) {
	ncol := len(header)
	for r, rec := range records {
		if len(rec) > ncol {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", r+1, len(rec), ncol)
		}
	}

	cols := make([]*Column, ncol)
	for j := 0; j < ncol; j++ {
		name := strings.TrimSpace(header[j])
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", j)
		}

		raw := make([]string, len(records))
		valid := make([]bool, len(records))
		numeric := true
		nums := make([]float64, len(records))
		for r, rec := range records {
			if j >= len(rec) || IsNullToken(rec[j]) {
				continue
			}
			raw[r] = strings.TrimSpace(rec[j])
			valid[r] = true
			if numeric {
				f, ok := ParseNumber(raw[r])
				if !ok {
					numeric = false
					continue
				}
				nums[r] = f
			}
		}

		if numeric {
			cols[j] = NewNumericColumn(name, nums, valid)
		} else {
			cols[j] = NewCategoricalColumn(name, raw, valid)
		}
	}

	t, err := NewTable(cols...)
	if err != nil {
		return nil, err
	}
	return t, nil
}
