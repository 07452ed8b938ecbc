package analysis

import (
	"fmt"
	"strconv"

	"github.com/dbsmedya/evpop/internal/aggregate"
	"github.com/dbsmedya/evpop/internal/chart"
	"github.com/dbsmedya/evpop/internal/dataset"
	"github.com/dbsmedya/evpop/internal/missing"
	"github.com/dbsmedya/evpop/internal/stats"
	"github.com/dbsmedya/evpop/internal/transform"
)

func documentMissing(r *run) error {
	report := missing.Document(r.Table)

	r.Out.Section("Missing Values Frequency and Percentage")
	r.Out.Table(missing.ReportHeader, report.Records())
	r.Out.KeyValue([][2]string{
		{"Rows", strconv.Itoa(report.Rows)},
		{"Missing cells", fmt.Sprintf("%d of %d", report.TotalMissing(), report.Cells())},
		{"Incomplete columns", strconv.Itoa(len(report.Incomplete()))},
	})

	return r.chart(r.Charts.Bar("Missing Values Distribution", "Features", "Number of Missing Values",
		report.Labels(), report.Counts()))
}

func missingStrategies(r *run) error {
	col := r.Config.Analysis.DistributionColumn
	if err := r.Table.RequireNumeric(col); err != nil {
		return err
	}

	r.preview("Initial Dataset", r.Table)

	report := missing.Document(r.Table)
	r.Out.Section("Missing Values")
	r.Out.Table(missing.ReportHeader[:2], trimRecords(report.Records(), 2))

	cmp, err := missing.Compare(r.ctx, r.Table)
	if err != nil {
		return err
	}

	r.Out.Section("Number of rows after each strategy")
	rows := make([][2]string, 0, len(cmp.Variants))
	for _, v := range cmp.Variants {
		rows = append(rows, [2]string{v.Name, strconv.Itoa(v.Table.Rows())})
	}
	r.Out.KeyValue(rows)

	for _, v := range cmp.Variants {
		if len(v.Fills) == 0 {
			continue
		}
		r.Out.Section(v.Name + " fill values")
		fills := make([][]string, len(v.Fills))
		for i, f := range v.Fills {
			fills[i] = []string{f.Column, strconv.FormatFloat(f.Value, 'f', 6, 64), strconv.Itoa(f.Filled)}
		}
		r.Out.Table([]string{"Feature", "Fill Value", "Filled"}, fills)
	}

	for _, v := range cmp.Variants {
		r.Out.Section("Summary Statistics for " + v.Name)
		r.Out.Table(stats.SummaryHeader, stats.Records(v.Summary))
	}

	dist, err := cmp.Distribution(col)
	if err != nil {
		return err
	}
	series := make([]chart.Series, len(dist))
	for i, d := range dist {
		series[i] = chart.Series{Name: d.Name, Values: d.Values}
	}
	if err := r.chart(r.Charts.Histogram(col+" Distribution by Strategy", col, r.Config.Analysis.HistogramBins, series)); err != nil {
		return err
	}

	if !r.Table.Has(dataset.ColVehicleType) {
		return nil
	}
	counts, err := aggregate.GroupCount(r.Table, dataset.ColVehicleType)
	if err != nil {
		return err
	}
	groups := counts.Sorted()
	return r.chart(r.Charts.Bar("Count of Electric Vehicle Types", dataset.ColVehicleType, "Count",
		aggregate.Labels(groups), aggregate.Values(groups)))
}

func featureEncoding(r *run) error {
	cols := r.Config.Analysis.EncodeColumns
	if err := r.Table.Require(cols...); err != nil {
		return err
	}

	r.preview("Original DataFrame", r.Table)

	encoded, err := transform.Encode(r.Table, cols...)
	if err != nil {
		return err
	}
	r.preview("One-Hot Encoded DataFrame", encoded)

	for _, name := range cols {
		c, _ := r.Table.Column(name)
		r.log.WithColumn(name).Debugw("Encoded column", "categories", len(transform.Categories(c)))
	}

	path := r.Config.ArtifactPath(r.Config.Output.EncodedFile)
	if err := dataset.WriteCSV(path, encoded); err != nil {
		return err
	}
	r.Out.Success("Encoded dataset written to %s (%d columns)", path, encoded.Width())
	return nil
}

func normalization(r *run) error {
	cols := r.Config.Analysis.NormalizeColumns
	if err := r.Table.RequireNumeric(cols...); err != nil {
		return err
	}

	r.preview("Original DataFrame", r.Table)

	outputs := []struct {
		method transform.Method
		title  string
		file   string
	}{
		{transform.MinMax, "Min-Max Scaled DataFrame", r.Config.Output.MinMaxFile},
		{transform.ZScore, "Standard Scaled DataFrame", r.Config.Output.StandardFile},
	}
	for _, o := range outputs {
		scaled, err := transform.Normalize(r.Table, o.method, cols...)
		if err != nil {
			return err
		}
		for _, d := range scaled.Degenerate {
			r.Out.Warn("%s: %v", o.method, &d)
			r.log.WithColumn(d.Column).Warnw("Degenerate column left null", "method", o.method.String(), "reason", d.Reason)
		}

		selected, err := scaled.Table.Select(cols...)
		if err != nil {
			return err
		}
		r.preview(o.title, selected)

		path := r.Config.ArtifactPath(o.file)
		if err := dataset.WriteCSV(path, scaled.Table); err != nil {
			return err
		}
		r.Out.Success("%s dataset written to %s", o.method, path)
	}
	return nil
}

func trimRecords(rows [][]string, n int) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = row[:min(n, len(row))]
	}
	return out
}
