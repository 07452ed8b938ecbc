// Package config provides configuration structures and loading for evpop.
package config

import "github.com/dbsmedya/evpop/internal/dataset"

// Config represents the complete application configuration.
type Config struct {
	Dataset  DatasetConfig  `yaml:"dataset" mapstructure:"dataset"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Export   ExportConfig   `yaml:"export" mapstructure:"export"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
}

// DatasetConfig describes where the vehicle registrations are read from.
type DatasetConfig struct {
	Path      string `yaml:"path" mapstructure:"path"`
	Delimiter string `yaml:"delimiter" mapstructure:"delimiter"` // ",", ";", "tab"; empty auto-detects by extension
	Sheet     string `yaml:"sheet" mapstructure:"sheet"`         // XLSX only; empty means first sheet
}

// OutputConfig controls the artifacts written by analysis steps.
type OutputConfig struct {
	Dir          string `yaml:"dir" mapstructure:"dir"`
	EncodedFile  string `yaml:"encoded_file" mapstructure:"encoded_file"`
	MinMaxFile   string `yaml:"minmax_file" mapstructure:"minmax_file"`
	StandardFile string `yaml:"standard_file" mapstructure:"standard_file"`
	StatsFile    string `yaml:"stats_file" mapstructure:"stats_file"`
	WorkbookFile string `yaml:"workbook_file" mapstructure:"workbook_file"` // optional XLSX copy of the statistics
	Charts       bool   `yaml:"charts" mapstructure:"charts"`
	ChartDir     string `yaml:"chart_dir" mapstructure:"chart_dir"`
	ChartWidth   int    `yaml:"chart_width" mapstructure:"chart_width"`   // inches
	ChartHeight  int    `yaml:"chart_height" mapstructure:"chart_height"` // inches
	PreviewRows  int    `yaml:"preview_rows" mapstructure:"preview_rows"`
}

// AnalysisConfig selects the columns and limits used by the analysis steps.
type AnalysisConfig struct {
	EncodeColumns      []string `yaml:"encode_columns" mapstructure:"encode_columns"`
	NormalizeColumns   []string `yaml:"normalize_columns" mapstructure:"normalize_columns"`
	DescribeColumns    []string `yaml:"describe_columns" mapstructure:"describe_columns"`
	CorrelationColumns []string `yaml:"correlation_columns" mapstructure:"correlation_columns"`
	PairColumns        []string `yaml:"pair_columns" mapstructure:"pair_columns"`
	DistributionColumn string   `yaml:"distribution_column" mapstructure:"distribution_column"`
	TopN               int      `yaml:"top_n" mapstructure:"top_n"`
	HistogramBins      int      `yaml:"histogram_bins" mapstructure:"histogram_bins"`
	BoundaryFile       string   `yaml:"boundary_file" mapstructure:"boundary_file"`
	BoundaryNameField  string   `yaml:"boundary_name_field" mapstructure:"boundary_name_field"`
}

// ExportConfig controls publishing of result tables to MySQL.
type ExportConfig struct {
	Enabled     bool           `yaml:"enabled" mapstructure:"enabled"`
	TablePrefix string         `yaml:"table_prefix" mapstructure:"table_prefix"`
	BatchSize   int            `yaml:"batch_size" mapstructure:"batch_size"`
	Verify      string         `yaml:"verify" mapstructure:"verify"` // count or skip
	Database    DatabaseConfig `yaml:"database" mapstructure:"database"`
}

// DatabaseConfig represents a MySQL database connection configuration.
type DatabaseConfig struct {
	Host               string `yaml:"host" mapstructure:"host"`
	Port               int    `yaml:"port" mapstructure:"port"`
	User               string `yaml:"user" mapstructure:"user"`
	Password           string `yaml:"password" mapstructure:"password"`
	Database           string `yaml:"database" mapstructure:"database"`
	TLS                string `yaml:"tls" mapstructure:"tls"` // disable, preferred, required
	MaxConnections     int    `yaml:"max_connections" mapstructure:"max_connections"`
	MaxIdleConnections int    `yaml:"max_idle_connections" mapstructure:"max_idle_connections"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with the file names and columns used by the
// Washington State registration dataset.
func DefaultConfig() *Config {
	numeric := []string{dataset.ColModelYear, dataset.ColElectricRange, dataset.ColBaseMSRP}
	return &Config{
		Dataset: DatasetConfig{
			Path: "Electric_Vehicle_Population_Data.csv",
		},
		Output: OutputConfig{
			Dir:          ".",
			EncodedFile:  "Electric_Vehicle_Population_Data_Encoded.csv",
			MinMaxFile:   "Electric_Vehicle_Population_Data_MinMax_Scaled.csv",
			StandardFile: "Electric_Vehicle_Population_Data_Standard_Scaled.csv",
			StatsFile:    "Descriptive_Statistics.csv",
			Charts:       true,
			ChartDir:     "charts",
			ChartWidth:   12,
			ChartHeight:  8,
			PreviewRows:  5,
		},
		Analysis: AnalysisConfig{
			EncodeColumns:    []string{dataset.ColMake, dataset.ColModel},
			NormalizeColumns: append([]string(nil), numeric...),
			DescribeColumns:  append([]string(nil), numeric...),
			CorrelationColumns: []string{
				dataset.ColPostalCode,
				dataset.ColModelYear,
				dataset.ColElectricRange,
				dataset.ColBaseMSRP,
				dataset.ColLegislativeDistrict,
				dataset.ColDOLVehicleID,
				dataset.ColCensusTract,
			},
			PairColumns:        []string{dataset.ColBaseMSRP, dataset.ColElectricRange, dataset.ColModelYear},
			DistributionColumn: dataset.ColElectricRange,
			TopN:               20,
			HistogramBins:      20,
			BoundaryFile:       "",
			BoundaryNameField:  "NAME",
		},
		Export: ExportConfig{
			Enabled:     false,
			TablePrefix: "ev_",
			BatchSize:   500,
			Verify:      "count",
			Database: DatabaseConfig{
				Port:               3306,
				TLS:                "preferred",
				MaxConnections:     4,
				MaxIdleConnections: 2,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}
