// Package sqlutil provides identifier handling for the MySQL export.
package sqlutil

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxIdentifierLength is the longest table or column name MySQL accepts.
const MaxIdentifierLength = 64

// QuoteIdentifier quotes a MySQL identifier with backticks, doubling any
// backticks already present.
// Example: "ev_counts" -> "`ev_counts`"
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

var validIdentifierRegex = regexp.MustCompile("^[a-zA-Z0-9_]+$")

// IsValidIdentifier reports whether name contains only ASCII letters, digits
// and underscores.
func IsValidIdentifier(name string) bool {
	return validIdentifierRegex.MatchString(name)
}

// QuoteIdentifierSafe quotes a MySQL identifier after validating it.
func QuoteIdentifierSafe(name string) (string, error) {
	if !IsValidIdentifier(name) {
		return "", &InvalidIdentifierError{Name: name}
	}
	return QuoteIdentifier(name), nil
}

// SanitizeIdentifier turns a dataset header such as "Electric Range (mi)"
// into a lower case identifier like "electric_range_mi". Runs of other
// characters collapse to one underscore. A result that would start with a
// digit gets a "c_" prefix and an empty result becomes "column". The result
// is cut to MaxIdentifierLength bytes.
func SanitizeIdentifier(name string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(name) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}

	out := b.String()
	switch {
	case out == "":
		out = "column"
	case out[0] >= '0' && out[0] <= '9':
		out = "c_" + out
	}
	if len(out) > MaxIdentifierLength {
		out = strings.TrimRight(out[:MaxIdentifierLength], "_")
	}
	return out
}

// InvalidIdentifierError is returned when an identifier contains invalid characters.
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier: " + e.Name + " (must contain only alphanumeric characters and underscores)"
}
