package analysis

import (
	"github.com/dbsmedya/evpop/internal/aggregate"
	"github.com/dbsmedya/evpop/internal/chart"
	"github.com/dbsmedya/evpop/internal/dataset"
)

func temporalAnalysis(r *run) error {
	if err := r.Table.Require(dataset.ColModel); err != nil {
		return err
	}
	if err := r.Table.RequireNumeric(dataset.ColModelYear); err != nil {
		return err
	}

	years, err := aggregate.GroupCount(r.Table, dataset.ColModelYear)
	if err != nil {
		return err
	}
	adoption := years.ByKey()

	r.Out.Section("EV Adoption Rates Over Time")
	header, rows := years.Records(adoption)
	r.Out.Table(header, rows)
	labels := aggregate.Labels(adoption)
	if err := r.chart(r.Charts.Lines("EV Adoption Rates Over Time", dataset.ColModelYear, "Number of EVs",
		xValues(labels), []chart.Series{{Name: "EVs", Values: aggregate.Values(adoption)}})); err != nil {
		return err
	}

	p, err := aggregate.Pivot(r.Table, dataset.ColModelYear, dataset.ColModel)
	if err != nil {
		return err
	}
	if err := r.chart(r.Charts.Lines("Trends in Popularity of All EV Models Over Time", dataset.ColModelYear, "Number of EVs",
		xValues(p.RowLabels), pivotSeries(p))); err != nil {
		return err
	}

	byModel := p.Transpose()
	return r.chart(r.Charts.StackedBar("Model Popularity Over the Years", dataset.ColModel, "Number of Vehicles",
		byModel.RowLabels, pivotSeries(byModel)))
}
