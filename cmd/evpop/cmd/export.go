package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/evpop/internal/analysis"
	"github.com/dbsmedya/evpop/internal/database"
	"github.com/dbsmedya/evpop/internal/export"
	"github.com/dbsmedya/evpop/internal/sqlutil"
)

var exportDryRun bool

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export result tables to MySQL",
	Long: `Export computes the missing-value report, the descriptive statistics and
the group counts, then writes each as a MySQL table named
{table_prefix}{name}. Existing rows are replaced inside one transaction
while a MySQL advisory lock for the prefix is held, and the row counts are
checked afterwards unless export.verify is "skip".

Export must be enabled in the configuration (export.enabled: true).
With --dry-run the tables are listed without connecting.

Example:
  evpop export --config evpop.yaml
  evpop export --dry-run`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&exportDryRun, "dry-run", false,
		"List the tables that would be written without connecting")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if !cfg.Export.Enabled && !exportDryRun {
		return fmt.Errorf("export is disabled; set export.enabled: true in %s", GetConfigFile())
	}

	ctx, stop := database.SetupSignalHandler(cmd.Context())
	defer stop()

	sess, err := analysis.Open(cfg, log, outputWriter)
	if err != nil {
		return err
	}
	tables, err := sess.Results()
	if err != nil {
		return err
	}

	out := sess.Out
	if exportDryRun {
		out.Header("Export Plan")
		rows := make([][]string, len(tables))
		for i, t := range tables {
			rows[i] = []string{sqlutil.SanitizeIdentifier(cfg.Export.TablePrefix + t.Name), strconv.Itoa(len(t.Columns)), strconv.Itoa(len(t.Rows))}
		}
		out.Table([]string{"Table", "Columns", "Rows"}, rows)
		return nil
	}

	mgr := database.NewManager(&cfg.Export.Database)
	if err := mgr.Connect(ctx); err != nil {
		return err
	}
	defer mgr.Close()

	exp, err := export.New(mgr.DB, cfg.Export, log)
	if err != nil {
		return err
	}
	stats, err := exp.Export(ctx, tables...)
	if err != nil {
		return err
	}

	out.Header("Export Complete")
	rows := make([][]string, 0, len(tables))
	for _, t := range tables {
		name := exp.TableName(t.Name)
		rows = append(rows, []string{name, strconv.FormatInt(stats.RowsPerTable[name], 10)})
	}
	out.Table([]string{"Table", "Rows"}, rows)
	if v := stats.Verification; v != nil && v.TablesVerified > 0 {
		out.Line("Verified %d tables by row count", v.TablesPassed)
	}
	out.Success("Exported %d tables, %d rows in %s", stats.Tables, stats.Rows, stats.Duration)
	return nil
}
