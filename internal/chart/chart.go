// Package chart renders analysis results as PNG files with gonum/plot.
package chart

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/dbsmedya/evpop/internal/dataset"
)

// Series is a named run of values, one per category or x position.
type Series struct {
	Name   string
	Values []float64
}

// Points is a named set of (x, y) observations.
type Points struct {
	Name string
	X    []float64
	Y    []float64
}

// Renderer writes charts into Dir. A disabled renderer draws nothing and
// returns empty paths.
type Renderer struct {
	Dir     string
	Enabled bool
	// Width and Height are in inches.
	Width  float64
	Height float64
}

// Path returns the file a chart with the given title is written to.
func (r *Renderer) Path(title string) string {
	return filepath.Join(r.Dir, Slug(title)+".png")
}

// Slug turns a chart title into a file name stem.
func Slug(title string) string {
	var b strings.Builder
	sep := false
	for _, c := range strings.ToLower(title) {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(c)
			sep = false
			continue
		}
		sep = true
	}
	if b.Len() == 0 {
		return "chart"
	}
	return b.String()
}

func (r *Renderer) newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

func (r *Renderer) save(p *plot.Plot, title string) (string, error) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create chart dir: %w", err)
	}
	w, h := r.Width, r.Height
	if w <= 0 {
		w = 12
	}
	if h <= 0 {
		h = 8
	}
	path := r.Path(title)
	if err := p.Save(vg.Length(w)*vg.Inch, vg.Length(h)*vg.Inch, path); err != nil {
		return "", fmt.Errorf("save chart %q: %w", title, err)
	}
	return path, nil
}

func rotateX(p *plot.Plot) {
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}

func barWidth(n int) vg.Length {
	switch {
	case n > 60:
		return vg.Points(4)
	case n > 20:
		return vg.Points(10)
	default:
		return vg.Points(20)
	}
}

// Bar draws one bar per label.
func (r *Renderer) Bar(title, xLabel, yLabel string, labels []string, values []float64) (string, error) {
	if !r.Enabled {
		return "", nil
	}
	if len(values) == 0 {
		return "", fmt.Errorf("%s: %w", title, dataset.ErrEmptyDataset)
	}
	p := r.newPlot(title, xLabel, yLabel)
	bars, err := plotter.NewBarChart(plotter.Values(values), barWidth(len(values)))
	if err != nil {
		return "", fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)
	rotateX(p)
	return r.save(p, title)
}

// StackedBar draws one bar per label with the series stacked in order.
func (r *Renderer) StackedBar(title, xLabel, yLabel string, labels []string, series []Series) (string, error) {
	if !r.Enabled {
		return "", nil
	}
	if len(labels) == 0 || len(series) == 0 {
		return "", fmt.Errorf("%s: %w", title, dataset.ErrEmptyDataset)
	}
	p := r.newPlot(title, xLabel, yLabel)
	w := barWidth(len(labels))
	var below *plotter.BarChart
	for i, s := range series {
		bars, err := plotter.NewBarChart(plotter.Values(s.Values), w)
		if err != nil {
			return "", fmt.Errorf("stacked bar %q: %w", s.Name, err)
		}
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = vg.Length(0)
		if below != nil {
			bars.StackOn(below)
		}
		p.Add(bars)
		p.Legend.Add(s.Name, bars)
		below = bars
	}
	p.Legend.Top = true
	p.NominalX(labels...)
	rotateX(p)
	return r.save(p, title)
}

// Lines draws one line with point markers per series over shared x values.
func (r *Renderer) Lines(title, xLabel, yLabel string, x []float64, series []Series) (string, error) {
	if !r.Enabled {
		return "", nil
	}
	if len(x) == 0 || len(series) == 0 {
		return "", fmt.Errorf("%s: %w", title, dataset.ErrEmptyDataset)
	}
	p := r.newPlot(title, xLabel, yLabel)
	for i, s := range series {
		pts := make(plotter.XYs, len(x))
		for j := range x {
			pts[j].X = x[j]
			if j < len(s.Values) {
				pts[j].Y = s.Values[j]
			}
		}
		line, marks, err := plotter.NewLinePoints(pts)
		if err != nil {
			return "", fmt.Errorf("line %q: %w", s.Name, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		marks.Color = plotutil.Color(i)
		marks.Shape = plotutil.Shape(i)
		p.Add(line, marks)
		if s.Name != "" {
			p.Legend.Add(s.Name, line, marks)
		}
	}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())
	return r.save(p, title)
}

// Histogram overlays one outlined histogram per non-empty series.
func (r *Renderer) Histogram(title, xLabel string, bins int, series []Series) (string, error) {
	if !r.Enabled {
		return "", nil
	}
	p := r.newPlot(title, xLabel, "Frequency")
	drawn := 0
	for i, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		h, err := plotter.NewHist(plotter.Values(s.Values), bins)
		if err != nil {
			return "", fmt.Errorf("histogram %q: %w", s.Name, err)
		}
		h.FillColor = nil
		h.LineStyle.Color = plotutil.Color(i)
		h.LineStyle.Width = vg.Points(1.5)
		p.Add(h)
		if s.Name != "" {
			p.Legend.Add(s.Name, h)
		}
		drawn++
	}
	if drawn == 0 {
		return "", fmt.Errorf("%s: %w", title, dataset.ErrEmptyDataset)
	}
	p.Legend.Top = true
	return r.save(p, title)
}

// Scatter draws each point set in its own color.
func (r *Renderer) Scatter(title, xLabel, yLabel string, sets []Points) (string, error) {
	if !r.Enabled {
		return "", nil
	}
	p := r.newPlot(title, xLabel, yLabel)
	drawn := 0
	for i, set := range sets {
		n := len(set.X)
		if len(set.Y) < n {
			n = len(set.Y)
		}
		if n == 0 {
			continue
		}
		pts := make(plotter.XYs, n)
		for j := 0; j < n; j++ {
			pts[j] = plotter.XY{X: set.X[j], Y: set.Y[j]}
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return "", fmt.Errorf("scatter %q: %w", set.Name, err)
		}
		sc.GlyphStyle.Color = plotutil.Color(i)
		sc.GlyphStyle.Radius = vg.Points(2)
		p.Add(sc)
		if set.Name != "" {
			p.Legend.Add(set.Name, sc)
		}
		drawn++
	}
	if drawn == 0 {
		return "", fmt.Errorf("%s: %w", title, dataset.ErrEmptyDataset)
	}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return r.save(p, title)
}

// BoxPlot draws one box per non-empty series.
func (r *Renderer) BoxPlot(title, xLabel, yLabel string, series []Series) (string, error) {
	if !r.Enabled {
		return "", nil
	}
	p := r.newPlot(title, xLabel, yLabel)
	var names []string
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(40), float64(len(names)), plotter.Values(s.Values))
		if err != nil {
			return "", fmt.Errorf("box plot %q: %w", s.Name, err)
		}
		box.FillColor = plotutil.Color(len(names))
		p.Add(box)
		names = append(names, s.Name)
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%s: %w", title, dataset.ErrEmptyDataset)
	}
	p.NominalX(names...)
	rotateX(p)
	return r.save(p, title)
}
