package config

import (
	"strings"
	"testing"
)

func exportConfig() *Config {
	cfg := DefaultConfig()
	cfg.Export.Enabled = true
	cfg.Export.Database.Host = "localhost"
	cfg.Export.Database.User = "analyst"
	cfg.Export.Database.Database = "ev"
	return cfg
}

func TestValidConfig(t *testing.T) {
	if err := exportConfig().Validate(); err != nil {
		t.Errorf("expected no validation errors, got: %v", err)
	}
}

func TestValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *Config)
		field  string
	}{
		{"missing dataset path", func(c *Config) { c.Dataset.Path = "" }, "dataset.path"},
		{"bad delimiter", func(c *Config) { c.Dataset.Delimiter = "|" }, "dataset.delimiter"},
		{"missing stats file", func(c *Config) { c.Output.StatsFile = "" }, "output.stats_file"},
		{"duplicate artifact", func(c *Config) { c.Output.StandardFile = c.Output.MinMaxFile }, "output.standard_file"},
		{"zero chart width", func(c *Config) { c.Output.ChartWidth = 0 }, "output.chart_width"},
		{"negative preview", func(c *Config) { c.Output.PreviewRows = -1 }, "output.preview_rows"},
		{"empty encode list", func(c *Config) { c.Analysis.EncodeColumns = nil }, "analysis.encode_columns"},
		{"blank column name", func(c *Config) { c.Analysis.DescribeColumns = []string{"Model Year", " "} }, "analysis.describe_columns[1]"},
		{"missing distribution column", func(c *Config) { c.Analysis.DistributionColumn = "" }, "analysis.distribution_column"},
		{"zero top n", func(c *Config) { c.Analysis.TopN = 0 }, "analysis.top_n"},
		{"zero bins", func(c *Config) { c.Analysis.HistogramBins = 0 }, "analysis.histogram_bins"},
		{"boundary without name field", func(c *Config) {
			c.Analysis.BoundaryFile = "wa.geojson"
			c.Analysis.BoundaryNameField = ""
		}, "analysis.boundary_name_field"},
		{"missing host", func(c *Config) { c.Export.Database.Host = "" }, "export.database.host"},
		{"invalid port", func(c *Config) { c.Export.Database.Port = 70000 }, "export.database.port"},
		{"missing user", func(c *Config) { c.Export.Database.User = "" }, "export.database.user"},
		{"missing database", func(c *Config) { c.Export.Database.Database = "" }, "export.database.database"},
		{"invalid tls", func(c *Config) { c.Export.Database.TLS = "invalid" }, "export.database.tls"},
		{"negative connections", func(c *Config) { c.Export.Database.MaxConnections = -1 }, "export.database.max_connections"},
		{"zero batch size", func(c *Config) { c.Export.BatchSize = 0 }, "export.batch_size"},
		{"bad verify method", func(c *Config) { c.Export.Verify = "sha256" }, "export.verify"},
		{"bad table prefix", func(c *Config) { c.Export.TablePrefix = "ev-" }, "export.table_prefix"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := exportConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error for %s", tt.field)
			}
			if !strings.Contains(err.Error(), tt.field+":") {
				t.Errorf("expected error to mention %q, got: %v", tt.field, err)
			}
		})
	}
}

func TestChartSizeIgnoredWithoutCharts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Charts = false
	cfg.Output.ChartWidth = 0

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected chart size to be ignored when charts are off, got: %v", err)
	}
}

func TestExportSettingsIgnoredWhenDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Export.TablePrefix = "not valid"

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected export settings to be ignored when disabled, got: %v", err)
	}
}

func TestMultipleErrors(t *testing.T) {
	cfg := exportConfig()
	cfg.Dataset.Path = ""
	cfg.Analysis.TopN = -1
	cfg.Export.Database.Host = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}

	errs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(errs) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(errs), errs)
	}
	if !strings.HasPrefix(err.Error(), "validation failed:") {
		t.Errorf("unexpected error text: %v", err)
	}
}
