package sqlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Simple table name", input: "ev_make_counts", expected: "`ev_make_counts`"},
		{name: "Mixed case", input: "EvCounts", expected: "`EvCounts`"},
		{name: "Empty string", input: "", expected: "``"},
		{name: "Single backtick", input: "ev`counts", expected: "`ev``counts`"},
		{name: "Backtick at end", input: "counts`", expected: "`counts```"},
		{name: "Only backticks", input: "```", expected: "````````"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QuoteIdentifier(tt.input))
		})
	}
}

func TestIsValidIdentifier(t *testing.T) {
	valid := []string{"ev_summary", "MyTable", "table123", "___"}
	for _, in := range valid {
		assert.True(t, IsValidIdentifier(in), in)
	}

	invalid := []string{"", "Model Year", "my-table", "db.table", "my`table", "users; DROP TABLE users--", "table'name"}
	for _, in := range invalid {
		assert.False(t, IsValidIdentifier(in), in)
	}
}

func TestQuoteIdentifierSafe(t *testing.T) {
	quoted, err := QuoteIdentifierSafe("ev_summary")
	require.NoError(t, err)
	assert.Equal(t, "`ev_summary`", quoted)

	for _, in := range []string{"", "Base MSRP", "my`table", "users; DROP TABLE users--"} {
		t.Run(in, func(t *testing.T) {
			result, err := QuoteIdentifierSafe(in)
			assert.Error(t, err)
			assert.Empty(t, result)
			assert.IsType(t, &InvalidIdentifierError{}, err)
			assert.Contains(t, err.Error(), "invalid identifier")
		})
	}
}

func TestInvalidIdentifierError_Error(t *testing.T) {
	err := &InvalidIdentifierError{Name: "bad@table"}
	expected := "invalid identifier: bad@table (must contain only alphanumeric characters and underscores)"
	assert.Equal(t, expected, err.Error())
}

func TestSanitizeIdentifier(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "Make", expected: "make"},
		{input: "Model Year", expected: "model_year"},
		{input: "Electric Range", expected: "electric_range"},
		{input: "Clean Alternative Fuel Vehicle (CAFV) Eligibility", expected: "clean_alternative_fuel_vehicle_cafv_eligibility"},
		{input: "Electric Vehicle Type_Plug-in Hybrid Electric Vehicle (PHEV)", expected: "electric_vehicle_type_plug_in_hybrid_electric_vehicle_phev"},
		{input: "  leading and trailing  ", expected: "leading_and_trailing"},
		{input: "2020", expected: "c_2020"},
		{input: "25%", expected: "c_25"},
		{input: "", expected: "column"},
		{input: "Überfahrt", expected: "berfahrt"},
		{input: "???", expected: "column"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizeIdentifier(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.True(t, IsValidIdentifier(got))
		})
	}
}

func TestSanitizeIdentifierLength(t *testing.T) {
	got := SanitizeIdentifier(strings.Repeat("abc ", 40))
	assert.LessOrEqual(t, len(got), MaxIdentifierLength)
	assert.False(t, strings.HasSuffix(got, "_"))
	assert.True(t, IsValidIdentifier(got))
}
