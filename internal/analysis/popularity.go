package analysis

import (
	"fmt"
	"strconv"

	"github.com/dbsmedya/evpop/internal/aggregate"
	"github.com/dbsmedya/evpop/internal/dataset"
)

func modelPopularity(r *run) error {
	if err := r.Table.Require(dataset.ColModel, dataset.ColModelYear, dataset.ColVehicleType); err != nil {
		return err
	}
	n := r.Config.Analysis.TopN

	models, err := r.countBar(dataset.ColModel, n, fmt.Sprintf("Top %d Most Popular EV Models", n), "Number of EVs")
	if err != nil {
		return err
	}

	top, err := aggregate.KeepValues(r.Table, dataset.ColModel, aggregate.Labels(models.Top(n)))
	if err != nil {
		return err
	}
	if err := r.trend(top, dataset.ColModel, "Trends in Popularity of Top EV Models Over Years"); err != nil {
		return err
	}

	types, err := aggregate.GroupCount(r.Table, dataset.ColVehicleType)
	if err != nil {
		return err
	}
	groups := types.Sorted()
	r.Out.Section("Distribution of Electric Vehicle Types")
	rows := make([][]string, len(groups))
	for i, g := range groups {
		share := 0.0
		if types.Total() > 0 {
			share = 100 * float64(g.Count) / float64(types.Total())
		}
		rows[i] = []string{g.Label(), strconv.Itoa(g.Count), fmt.Sprintf("%.1f%%", share)}
	}
	r.Out.Table([]string{dataset.ColVehicleType, "Count", "Share"}, rows)
	if err := r.chart(r.Charts.Bar("Distribution of Electric Vehicle Types", dataset.ColVehicleType, "Number of Vehicles",
		aggregate.Labels(groups), aggregate.Values(groups))); err != nil {
		return err
	}

	return r.trend(r.Table, dataset.ColVehicleType, "Trends in Electric Vehicle Types Over Years")
}

// trend charts yearly counts of each value of column as one line per value.
func (r *run) trend(t *dataset.Table, column, title string) error {
	p, err := aggregate.Pivot(t, dataset.ColModelYear, column)
	if err != nil {
		return err
	}
	r.log.Debugw("Pivoted counts by year", "column", column, "years", len(p.RowLabels), "series", len(p.ColLabels))
	return r.chart(r.Charts.Lines(title, dataset.ColModelYear, "Number of EVs", xValues(p.RowLabels), pivotSeries(p)))
}
