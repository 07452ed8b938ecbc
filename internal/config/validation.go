package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateDataset()...)
	errors = append(errors, c.validateOutput()...)
	errors = append(errors, c.validateAnalysis()...)

	if c.Export.Enabled {
		errors = append(errors, c.validateExport()...)
	}

	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateDataset() ValidationErrors {
	var errors ValidationErrors

	if c.Dataset.Path == "" {
		errors = append(errors, ValidationError{
			Field:   "dataset.path",
			Message: "path is required",
		})
	}

	validDelims := map[string]bool{",": true, ";": true, "tab": true, "\t": true, "": true}
	if !validDelims[c.Dataset.Delimiter] {
		errors = append(errors, ValidationError{
			Field:   "dataset.delimiter",
			Message: "delimiter must be ',', ';', or 'tab'",
		})
	}

	return errors
}

func (c *Config) validateOutput() ValidationErrors {
	var errors ValidationErrors

	files := map[string]string{
		"output.encoded_file":  c.Output.EncodedFile,
		"output.minmax_file":   c.Output.MinMaxFile,
		"output.standard_file": c.Output.StandardFile,
		"output.stats_file":    c.Output.StatsFile,
	}
	seen := make(map[string]string, len(files))
	for _, field := range []string{"output.encoded_file", "output.minmax_file", "output.standard_file", "output.stats_file"} {
		name := files[field]
		if name == "" {
			errors = append(errors, ValidationError{Field: field, Message: "file name is required"})
			continue
		}
		if other, dup := seen[name]; dup {
			errors = append(errors, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("file name %q is already used by %s", name, other),
			})
			continue
		}
		seen[name] = field
	}

	if c.Output.Charts {
		if c.Output.ChartWidth <= 0 {
			errors = append(errors, ValidationError{
				Field:   "output.chart_width",
				Message: "chart_width must be positive",
			})
		}
		if c.Output.ChartHeight <= 0 {
			errors = append(errors, ValidationError{
				Field:   "output.chart_height",
				Message: "chart_height must be positive",
			})
		}
	}

	if c.Output.PreviewRows < 0 {
		errors = append(errors, ValidationError{
			Field:   "output.preview_rows",
			Message: "preview_rows cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateAnalysis() ValidationErrors {
	var errors ValidationErrors

	lists := []struct {
		field string
		cols  []string
	}{
		{"analysis.encode_columns", c.Analysis.EncodeColumns},
		{"analysis.normalize_columns", c.Analysis.NormalizeColumns},
		{"analysis.describe_columns", c.Analysis.DescribeColumns},
		{"analysis.correlation_columns", c.Analysis.CorrelationColumns},
	}
	for _, l := range lists {
		if len(l.cols) == 0 {
			errors = append(errors, ValidationError{
				Field:   l.field,
				Message: "at least one column must be listed",
			})
		}
		for i, col := range l.cols {
			if strings.TrimSpace(col) == "" {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("%s[%d]", l.field, i),
					Message: "column name cannot be empty",
				})
			}
		}
	}

	if c.Analysis.DistributionColumn == "" {
		errors = append(errors, ValidationError{
			Field:   "analysis.distribution_column",
			Message: "distribution_column is required",
		})
	}

	if c.Analysis.TopN <= 0 {
		errors = append(errors, ValidationError{
			Field:   "analysis.top_n",
			Message: "top_n must be positive",
		})
	}

	if c.Analysis.HistogramBins <= 0 {
		errors = append(errors, ValidationError{
			Field:   "analysis.histogram_bins",
			Message: "histogram_bins must be positive",
		})
	}

	if c.Analysis.BoundaryFile != "" && c.Analysis.BoundaryNameField == "" {
		errors = append(errors, ValidationError{
			Field:   "analysis.boundary_name_field",
			Message: "boundary_name_field is required when boundary_file is set",
		})
	}

	return errors
}

func (c *Config) validateExport() ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, validateDatabase("export.database", &c.Export.Database)...)

	if c.Export.BatchSize <= 0 {
		errors = append(errors, ValidationError{
			Field:   "export.batch_size",
			Message: "batch_size must be positive",
		})
	}

	validVerify := map[string]bool{"count": true, "skip": true, "": true}
	if !validVerify[c.Export.Verify] {
		errors = append(errors, ValidationError{
			Field:   "export.verify",
			Message: "verify must be 'count' or 'skip'",
		})
	}

	for _, r := range c.Export.TablePrefix {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			errors = append(errors, ValidationError{
				Field:   "export.table_prefix",
				Message: "table_prefix must contain only alphanumeric characters and underscores",
			})
			break
		}
	}

	return errors
}

func validateDatabase(prefix string, db *DatabaseConfig) ValidationErrors {
	var errors ValidationErrors

	if db.Host == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".host",
			Message: "host is required",
		})
	}

	if db.Port <= 0 || db.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".port",
			Message: "port must be between 1 and 65535",
		})
	}

	if db.User == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".user",
			Message: "user is required",
		})
	}

	if db.Database == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".database",
			Message: "database name is required",
		})
	}

	validTLS := map[string]bool{"disable": true, "preferred": true, "required": true, "": true}
	if !validTLS[db.TLS] {
		errors = append(errors, ValidationError{
			Field:   prefix + ".tls",
			Message: "tls must be 'disable', 'preferred', or 'required'",
		})
	}

	if db.MaxConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".max_connections",
			Message: "max_connections cannot be negative",
		})
	}

	if db.MaxIdleConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".max_idle_connections",
			Message: "max_idle_connections cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
