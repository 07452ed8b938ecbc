package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/evpop/internal/dataset"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and the dataset columns",
	Long: `Validate checks the configuration file, loads the dataset and verifies
that every column the analysis steps read is present.

Checks performed:
  - Configuration syntax and values
  - Dataset file exists and parses
  - Required columns present
  - Numeric columns parsed as numbers

Example:
  evpop validate --config evpop.yaml`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

// numericColumns are the required columns the steps treat as numbers.
var numericColumns = []string{
	dataset.ColModelYear,
	dataset.ColElectricRange,
	dataset.ColBaseMSRP,
	dataset.ColPostalCode,
	dataset.ColLegislativeDistrict,
	dataset.ColDOLVehicleID,
	dataset.ColCensusTract,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	out := printer()
	out.Header("Configuration Validation")
	out.KeyValue([][2]string{
		{"Config file", GetConfigFile()},
		{"Dataset", cfg.Dataset.Path},
		{"Output dir", cfg.Output.Dir},
	})

	delim, err := dataset.ParseDelimiter(cfg.Dataset.Delimiter)
	if err != nil {
		return err
	}
	t, err := dataset.Load(cfg.Dataset.Path, dataset.Options{Delimiter: delim, Sheet: cfg.Dataset.Sheet})
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	log.Infow("Loaded dataset", "rows", t.Rows(), "columns", t.Width())

	out.Section("Dataset")
	out.KeyValue([][2]string{
		{"Rows", strconv.Itoa(t.Rows())},
		{"Columns", strconv.Itoa(t.Width())},
	})

	numeric := make(map[string]bool, len(numericColumns))
	for _, c := range numericColumns {
		numeric[c] = true
	}

	out.Section("Required Columns")
	problems := 0
	rows := make([][]string, 0, len(dataset.RequiredColumns))
	for _, name := range dataset.RequiredColumns {
		status := "ok"
		kind := ""
		if c, err := t.Column(name); err != nil {
			status = "missing"
			problems++
		} else {
			kind = c.Kind().String()
			if numeric[name] && c.Kind() != dataset.Numeric {
				status = "not numeric"
				problems++
			}
		}
		rows = append(rows, []string{name, kind, status})
	}
	out.Table([]string{"Column", "Kind", "Status"}, rows)

	if problems > 0 {
		return fmt.Errorf("dataset validation failed: %d of %d required columns have problems", problems, len(dataset.RequiredColumns))
	}
	out.Success("All %d required columns present", len(dataset.RequiredColumns))
	return nil
}
