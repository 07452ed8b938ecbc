package analysis

import (
	"fmt"

	"github.com/dbsmedya/evpop/internal/aggregate"
	"github.com/dbsmedya/evpop/internal/chart"
	"github.com/dbsmedya/evpop/internal/dataset"
	"github.com/dbsmedya/evpop/internal/stats"
)

func explorationVisualizations(r *run) error {
	if err := r.Table.Require(dataset.ColVehicleType); err != nil {
		return err
	}
	if err := r.Table.RequireNumeric(dataset.ColBaseMSRP, dataset.ColElectricRange); err != nil {
		return err
	}
	if err := r.Table.RequireNumeric(r.Config.Analysis.PairColumns...); err != nil {
		return err
	}

	m, err := stats.Correlate(r.Table, stats.NumericColumns(r.Table)...)
	if err != nil {
		return err
	}
	if err := r.chart(r.Charts.Heatmap("Correlation Heatmap", m.Columns, heatValues(m))); err != nil {
		return err
	}

	byType, err := groupedValues(r.Table, dataset.ColVehicleType, dataset.ColBaseMSRP)
	if err != nil {
		return err
	}
	if err := r.chart(r.Charts.BoxPlot("Base MSRP by Electric Vehicle Type", dataset.ColVehicleType, dataset.ColBaseMSRP, byType)); err != nil {
		return err
	}

	points, err := groupedPoints(r.Table, dataset.ColVehicleType, dataset.ColElectricRange, dataset.ColBaseMSRP)
	if err != nil {
		return err
	}
	if err := r.chart(r.Charts.Scatter("Electric Range vs. Base MSRP", dataset.ColElectricRange, dataset.ColBaseMSRP, points)); err != nil {
		return err
	}

	rangeCol, _ := r.Table.NumericColumn(dataset.ColElectricRange)
	if err := r.chart(r.Charts.Histogram("Distribution of Electric Range", dataset.ColElectricRange,
		r.Config.Analysis.HistogramBins, []chart.Series{{Name: dataset.ColElectricRange, Values: rangeCol.Floats()}})); err != nil {
		return err
	}

	types, err := aggregate.GroupCount(r.Table, dataset.ColVehicleType)
	if err != nil {
		return err
	}
	groups := types.Sorted()
	if err := r.chart(r.Charts.Bar("Count of Electric Vehicles by Type", dataset.ColVehicleType, "Count",
		aggregate.Labels(groups), aggregate.Values(groups))); err != nil {
		return err
	}

	pairs := r.Config.Analysis.PairColumns
	r.Out.Section("Scatter Plot Matrix of Selected Features")
	var rows [][]string
	for i := 0; i < len(pairs); i++ {
		for j := i + 1; j < len(pairs); j++ {
			x, y := pairs[i], pairs[j]
			set, err := pairPoints(r.Table, x, y)
			if err != nil {
				return err
			}
			rows = append(rows, []string{x, y, fmt.Sprintf("%d", len(set.X))})
			title := fmt.Sprintf("Scatter Plot Matrix %s vs %s", x, y)
			if err := r.chart(r.Charts.Scatter(title, x, y, []chart.Points{set})); err != nil {
				return err
			}
		}
	}
	r.Out.Table([]string{"X", "Y", "Observations"}, rows)
	return nil
}

// groupedValues splits the non-null values of a numeric column by the value
// of a key column, in first-seen key order. Rows with a null key are skipped.
func groupedValues(t *dataset.Table, key, column string) ([]chart.Series, error) {
	k, err := t.Column(key)
	if err != nil {
		return nil, err
	}
	c, err := t.NumericColumn(column)
	if err != nil {
		return nil, err
	}

	index := map[string]int{}
	var out []chart.Series
	for i := 0; i < t.Rows(); i++ {
		v, ok := c.Float(i)
		if !ok || k.IsNull(i) {
			continue
		}
		label := k.Format(i)
		at, seen := index[label]
		if !seen {
			at = len(out)
			index[label] = at
			out = append(out, chart.Series{Name: label})
		}
		out[at].Values = append(out[at].Values, v)
	}
	return out, nil
}

// groupedPoints is groupedValues for (x, y) pairs where both are observed.
func groupedPoints(t *dataset.Table, key, x, y string) ([]chart.Points, error) {
	k, err := t.Column(key)
	if err != nil {
		return nil, err
	}
	xs, err := t.NumericColumn(x)
	if err != nil {
		return nil, err
	}
	ys, err := t.NumericColumn(y)
	if err != nil {
		return nil, err
	}

	index := map[string]int{}
	var out []chart.Points
	for i := 0; i < t.Rows(); i++ {
		xv, xok := xs.Float(i)
		yv, yok := ys.Float(i)
		if !xok || !yok || k.IsNull(i) {
			continue
		}
		label := k.Format(i)
		at, seen := index[label]
		if !seen {
			at = len(out)
			index[label] = at
			out = append(out, chart.Points{Name: label})
		}
		out[at].X = append(out[at].X, xv)
		out[at].Y = append(out[at].Y, yv)
	}
	return out, nil
}

func pairPoints(t *dataset.Table, x, y string) (chart.Points, error) {
	xs, err := t.NumericColumn(x)
	if err != nil {
		return chart.Points{}, err
	}
	ys, err := t.NumericColumn(y)
	if err != nil {
		return chart.Points{}, err
	}
	set := chart.Points{Name: x + " vs " + y}
	for i := 0; i < t.Rows(); i++ {
		xv, xok := xs.Float(i)
		yv, yok := ys.Float(i)
		if xok && yok {
			set.X = append(set.X, xv)
			set.Y = append(set.Y, yv)
		}
	}
	return set, nil
}
