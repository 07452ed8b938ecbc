package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/evpop/internal/analysis"
	"github.com/dbsmedya/evpop/internal/database"
)

var runCmd = &cobra.Command{
	Use:   "run <step>...",
	Short: "Run analysis steps without the menu",
	Long: `Run executes the named or numbered analysis steps in the order given and
stops at the first failure. Use "all" to run every step.

Steps:
  1 missing        2 strategies     3 encoding       4 normalization
  5 statistics     6 spatial        7 popularity     8 relationships
  9 exploration   10 comparative   11 temporal

Example:
  evpop run 1 5 relationships
  evpop run all --no-charts`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// resolveSteps maps arguments to steps; "all" expands to every step.
func resolveSteps(args []string) ([]analysis.Step, error) {
	var out []analysis.Step
	for _, arg := range args {
		if strings.EqualFold(strings.TrimSpace(arg), "all") {
			out = append(out, analysis.Steps()...)
			continue
		}
		step, ok := analysis.Lookup(arg)
		if !ok {
			return nil, fmt.Errorf("unknown step %q", arg)
		}
		out = append(out, step)
	}
	return out, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	steps, err := resolveSteps(args)
	if err != nil {
		return err
	}

	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := database.SetupSignalHandler(cmd.Context())
	defer stop()

	sess, err := analysis.Open(cfg, log, outputWriter)
	if err != nil {
		return err
	}
	if err := sess.RunAll(ctx, steps); err != nil {
		return err
	}
	sess.Out.Success("Completed %d step(s)", len(steps))
	return nil
}
