package cmd

import (
	"io"
	"os"

	"github.com/dbsmedya/evpop/internal/render"
)

// outputWriter is used for printing output, can be overridden in tests
var outputWriter io.Writer = os.Stdout

// inputReader supplies menu choices, can be overridden in tests
var inputReader io.Reader = os.Stdin

// setOutputWriter sets the output writer (used for testing)
func setOutputWriter(w io.Writer) {
	outputWriter = w
}

// resetOutputWriter resets output to stdout (used for testing)
func resetOutputWriter() {
	outputWriter = os.Stdout
}

// setInputReader sets the menu input (used for testing)
func setInputReader(r io.Reader) {
	inputReader = r
}

// resetInputReader resets menu input to stdin (used for testing)
func resetInputReader() {
	inputReader = os.Stdin
}

func printer() *render.Printer {
	return render.New(outputWriter)
}
