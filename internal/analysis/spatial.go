package analysis

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/dbsmedya/evpop/internal/aggregate"
	"github.com/dbsmedya/evpop/internal/chart"
	"github.com/dbsmedya/evpop/internal/dataset"
	"github.com/dbsmedya/evpop/internal/geo"
)

func spatialDistribution(r *run) error {
	if err := r.Table.Require(dataset.ColCity, dataset.ColCounty); err != nil {
		return err
	}

	cities, err := r.countBar(dataset.ColCity, 0, "Spatial Distribution of EVs by City", "Number of EVs")
	if err != nil {
		return err
	}
	if _, err := r.countBar(dataset.ColCounty, 0, "Spatial Distribution of EVs by County", "Number of EVs"); err != nil {
		return err
	}

	file := r.Config.Analysis.BoundaryFile
	if file == "" {
		r.Out.Warn("No boundary file configured; skipping region join")
		return nil
	}
	regions, err := geo.LoadBoundaries(file, r.Config.Analysis.BoundaryNameField)
	if err != nil {
		return err
	}
	joined := geo.JoinCounts(regions, cities)
	sort.SliceStable(joined, func(i, j int) bool { return joined[i].Count > joined[j].Count })

	r.Out.Section("Electric Vehicle Distribution Across Regions")
	rows := make([][]string, len(joined))
	labels := make([]string, len(joined))
	values := make([]float64, len(joined))
	for i, reg := range joined {
		rows[i] = []string{reg.Name, strconv.Itoa(reg.Count)}
		labels[i] = reg.Name
		values[i] = float64(reg.Count)
	}
	r.Out.Table([]string{"Region", "Number_of_EVs"}, rows)
	r.Out.Line("%d of %d regions matched a city", geo.Matched(joined), len(joined))
	r.log.Infow("Joined city counts onto boundaries", "file", file, "regions", len(joined), "matched", geo.Matched(joined))

	return r.chart(r.Charts.Bar("Electric Vehicle Distribution Across Regions", "Region", "Number of EVs", labels, values))
}

func comparativeVisualization(r *run) error {
	if err := r.Table.Require(dataset.ColCity, dataset.ColCounty, dataset.ColVehicleType); err != nil {
		return err
	}
	n := r.Config.Analysis.TopN

	if _, err := r.countBar(dataset.ColCity, n, fmt.Sprintf("Top %d Cities with Most Electric Vehicles", n), "Number of Electric Vehicles"); err != nil {
		return err
	}
	if _, err := r.countBar(dataset.ColCounty, n, fmt.Sprintf("Top %d Counties with Most Electric Vehicles", n), "Number of Electric Vehicles"); err != nil {
		return err
	}

	for _, key := range []string{dataset.ColCity, dataset.ColCounty} {
		p, err := aggregate.Pivot(r.Table, key, dataset.ColVehicleType)
		if err != nil {
			return err
		}
		title := fmt.Sprintf("Distribution of Electric Vehicle Types Across All %s", plural(key))
		if key == dataset.ColCounty {
			r.Out.Section(title)
			header, rows := p.Records()
			r.Out.Table(header, rows)
		}
		if err := r.chart(r.Charts.StackedBar(title, key, "Number of Electric Vehicles", p.RowLabels, pivotSeries(p))); err != nil {
			return err
		}
	}
	return nil
}

// countBar counts rows by column, prints the top n groups (all when n <= 0)
// and charts them.
func (r *run) countBar(column string, n int, title, yLabel string) (*aggregate.Counts, error) {
	counts, err := aggregate.GroupCount(r.Table, column)
	if err != nil {
		return nil, err
	}
	groups := counts.Top(n)

	r.Out.Section(title)
	header, rows := counts.Records(groups)
	r.Out.Table(header, rows)
	r.Out.Line("%d distinct values, %d rows", counts.Len(), counts.Total())

	if err := r.chart(r.Charts.Bar(title, column, yLabel, aggregate.Labels(groups), aggregate.Values(groups))); err != nil {
		return nil, err
	}
	return counts, nil
}

// pivotSeries turns each pivot column into a chart series over the rows.
func pivotSeries(p *aggregate.PivotTable) []chart.Series {
	out := make([]chart.Series, len(p.ColLabels))
	for j, label := range p.ColLabels {
		out[j] = chart.Series{Name: label, Values: p.Column(j)}
	}
	return out
}

func plural(column string) string {
	switch column {
	case dataset.ColCity:
		return "Cities"
	case dataset.ColCounty:
		return "Counties"
	}
	return column + "s"
}
