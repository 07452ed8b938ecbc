// Package render prints headers, sections and aligned text tables to a
// terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"
)

// DefaultCellWidth is the widest a table cell is printed before truncation.
const DefaultCellWidth = 32

// Printer writes formatted output to W.
type Printer struct {
	W io.Writer
	// CellWidth truncates wider cells; 0 means DefaultCellWidth.
	CellWidth int
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{W: w}
}

// Header prints a title framed by rules of '='.
func (p *Printer) Header(format string, args ...interface{}) {
	title := fmt.Sprintf(format, args...)
	width := runewidth.StringWidth(title) + 4
	fmt.Fprintln(p.W, strings.Repeat("=", width))
	fmt.Fprintf(p.W, "  %s\n", color.Bold.Sprint(title))
	fmt.Fprintln(p.W, strings.Repeat("=", width))
}

// Section prints a bracketed section title underlined with '-'.
func (p *Printer) Section(title string) {
	fmt.Fprintln(p.W)
	fmt.Fprintf(p.W, "[%s]\n", color.Cyan.Sprint(title))
	fmt.Fprintln(p.W, strings.Repeat("-", runewidth.StringWidth(title)+2))
}

// Line prints a formatted line.
func (p *Printer) Line(format string, args ...interface{}) {
	fmt.Fprintf(p.W, format+"\n", args...)
}

// KeyValue prints an aligned "key: value" list.
func (p *Printer) KeyValue(pairs [][2]string) {
	width := 0
	for _, kv := range pairs {
		if w := runewidth.StringWidth(kv[0]); w > width {
			width = w
		}
	}
	for _, kv := range pairs {
		fmt.Fprintf(p.W, "  %s  %s\n", runewidth.FillRight(kv[0]+":", width+1), kv[1])
	}
}

// Success prints a green confirmation line.
func (p *Printer) Success(format string, args ...interface{}) {
	fmt.Fprintln(p.W, color.Green.Sprintf(format, args...))
}

// Error prints err in red.
func (p *Printer) Error(err error) {
	fmt.Fprintln(p.W, color.Red.Sprintf("Error: %v", err))
}

// Warn prints a yellow warning line.
func (p *Printer) Warn(format string, args ...interface{}) {
	fmt.Fprintln(p.W, color.Yellow.Sprintf(format, args...))
}

// Table prints header and rows as aligned columns. Cells are measured by
// display width so wide runes line up, and cells wider than CellWidth are
// truncated with "...".
func (p *Printer) Table(header []string, rows [][]string) {
	limit := p.CellWidth
	if limit <= 0 {
		limit = DefaultCellWidth
	}

	ncol := len(header)
	for _, r := range rows {
		if len(r) > ncol {
			ncol = len(r)
		}
	}
	widths := make([]int, ncol)
	measure := func(r []string) {
		for i, c := range r {
			if w := runewidth.StringWidth(clip(c, limit)); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(header)
	for _, r := range rows {
		measure(r)
	}

	p.row(header, widths, limit)
	rules := make([]string, ncol)
	for i, w := range widths {
		rules[i] = strings.Repeat("-", w)
	}
	fmt.Fprintln(p.W, strings.Join(rules, "  "))
	for _, r := range rows {
		p.row(r, widths, limit)
	}
}

func (p *Printer) row(cells []string, widths []int, limit int) {
	out := make([]string, len(widths))
	for i := range widths {
		c := ""
		if i < len(cells) {
			c = clip(cells[i], limit)
		}
		out[i] = runewidth.FillRight(c, widths[i])
	}
	fmt.Fprintln(p.W, strings.TrimRight(strings.Join(out, "  "), " "))
}

func clip(s string, limit int) string {
	return runewidth.Truncate(s, limit, "...")
}
