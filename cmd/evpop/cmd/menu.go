package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/evpop/internal/analysis"
	"github.com/dbsmedya/evpop/internal/database"
)

const menuPrompt = "Choose the part you want to execute (1-11): "

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Choose analysis steps from a numbered menu",
	Long: `Menu loads the dataset once and then repeatedly offers the numbered
analysis steps. Enter a step number to run it, or 0 to exit. A step that
fails is reported and the menu is shown again.

Example:
  evpop menu --data Electric_Vehicle_Population_Data.csv`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func init() {
	rootCmd.AddCommand(menuCmd)
}

func runMenu(cmd *cobra.Command, args []string) error {
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
	return menuLoop(ctx, sess, inputReader)
}

// menuLoop shows the menu and runs choices read from in until 0, end of
// input, or cancellation of ctx.
func menuLoop(ctx context.Context, sess *analysis.Session, in io.Reader) error {
	lines, readErr := readLines(ctx, in)
	out := sess.Out

loop:
	for {
		printMenu(out.W)
		fmt.Fprint(out.W, menuPrompt)

		var choice string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out.W)
			break loop
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(out.W)
				break loop
			}
			choice = strings.TrimSpace(line)
		}

		if choice == "0" {
			break loop
		}
		step, ok := analysis.Lookup(choice)
		if !ok {
			out.Error(fmt.Errorf("invalid choice %q: please select a number between 1 and 11", choice))
			continue
		}
		if err := sess.Run(ctx, step); err != nil {
			if errors.Is(err, context.Canceled) {
				break loop
			}
			out.Error(err)
		}
	}

	fmt.Fprintln(out.W, "Exiting program :)")
	select {
	case err := <-readErr:
		return err
	default:
		return nil
	}
}

// readLines feeds lines of in to a channel that is closed at end of input.
// A read error is delivered on the second channel.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			errc <- err
		}
	}()
	return lines, errc
}

func printMenu(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Electric Vehicle Population Data Analysis")
	for _, s := range analysis.Steps() {
		fmt.Fprintf(w, "%d. %s\n", s.Number, s.Title)
	}
	fmt.Fprintln(w, "\nNote: if you want to exit, press 0.")
	fmt.Fprintln(w)
}
