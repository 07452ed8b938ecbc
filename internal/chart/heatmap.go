package chart

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"

	"github.com/dbsmedya/evpop/internal/dataset"
)

// grid adapts a square matrix to plotter.GridXYZ. Row 0 is drawn at the top.
type grid struct {
	values [][]float64
}

func (g grid) Dims() (c, r int)   { return len(g.values), len(g.values) }
func (g grid) Z(c, r int) float64 { return g.values[len(g.values)-1-r][c] }
func (g grid) X(c int) float64    { return float64(c) }
func (g grid) Y(r int) float64    { return float64(r) }

// Heatmap draws a labelled square matrix with values in [-1, 1], annotating
// each cell. NaN cells are drawn grey and left unannotated.
func (r *Renderer) Heatmap(title string, labels []string, values [][]float64) (string, error) {
	if !r.Enabled {
		return "", nil
	}
	if len(labels) == 0 {
		return "", fmt.Errorf("%s: %w", title, dataset.ErrEmptyDataset)
	}
	if len(values) != len(labels) {
		return "", fmt.Errorf("heatmap %q: %d rows for %d labels", title, len(values), len(labels))
	}
	for i, row := range values {
		if len(row) != len(labels) {
			return "", fmt.Errorf("heatmap %q: row %d has %d values", title, i, len(row))
		}
	}

	g := grid{values: values}
	hm := plotter.NewHeatMap(g, palette.Heat(12, 1))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 200}

	p := r.newPlot(title, "", "")
	p.Add(hm)

	var (
		pts  plotter.XYs
		text []string
	)
	n := len(labels)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := values[i][j]
			if math.IsNaN(v) {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(j), Y: float64(n - 1 - i)})
			text = append(text, strconv.FormatFloat(v, 'f', 2, 64))
		}
	}
	if len(pts) > 0 {
		annot, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: text})
		if err != nil {
			return "", fmt.Errorf("heatmap labels: %w", err)
		}
		p.Add(annot)
	}

	p.NominalX(labels...)
	yLabels := make([]string, n)
	for i, l := range labels {
		yLabels[n-1-i] = l
	}
	p.NominalY(yLabels...)
	rotateX(p)
	return r.save(p, title)
}
