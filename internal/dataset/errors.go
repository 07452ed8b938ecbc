package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound is returned when the input file does not exist.
	ErrFileNotFound = errors.New("dataset file not found")
	// ErrEmptyDataset is returned by operations that need at least one row or value.
	ErrEmptyDataset = errors.New("dataset is empty")
	// ErrDuplicateColumn is returned when a table would contain two columns with one name.
	ErrDuplicateColumn = errors.New("duplicate column")
)

// InvalidColumnError is returned when a referenced column is absent from the
// table or has the wrong kind for the operation.
type InvalidColumnError struct {
	Column string
	Reason string
}

func (e *InvalidColumnError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid column %q: not found", e.Column)
	}
	return fmt.Sprintf("invalid column %q: %s", e.Column, e.Reason)
}

// DegenerateColumnError reports a column whose normalization denominator is zero
// or undefined.
type DegenerateColumnError struct {
	Column string
	Reason string
}

func (e *DegenerateColumnError) Error() string {
	return fmt.Sprintf("degenerate column %q: %s", e.Column, e.Reason)
}

func notFound(name string) error {
	return &InvalidColumnError{Column: name}
}

func notNumeric(name string) error {
	return &InvalidColumnError{Column: name, Reason: "not numeric"}
}
