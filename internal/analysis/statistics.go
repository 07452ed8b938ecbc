package analysis

import (
	"math"

	"github.com/dbsmedya/evpop/internal/dataset"
	"github.com/dbsmedya/evpop/internal/missing"
	"github.com/dbsmedya/evpop/internal/stats"
)

func descriptiveStatistics(r *run) error {
	cols := r.Config.Analysis.DescribeColumns
	summaries, err := stats.Describe(r.Table, cols...)
	if err != nil {
		return err
	}
	records := stats.Records(summaries)

	r.Out.Section("Descriptive Statistics")
	r.Out.Table(stats.SummaryHeader, records)

	path := r.Config.ArtifactPath(r.Config.Output.StatsFile)
	if err := dataset.WriteRecords(path, stats.SummaryHeader, records); err != nil {
		return err
	}
	r.Out.Success("Descriptive statistics written to %s", path)

	if r.Config.Output.WorkbookFile == "" {
		return nil
	}
	report := missing.Document(r.Table)
	book := r.Config.ArtifactPath(r.Config.Output.WorkbookFile)
	err = dataset.WriteWorkbook(book,
		dataset.Sheet{Name: "Descriptive Statistics", Header: stats.SummaryHeader, Rows: records},
		dataset.Sheet{Name: "Missing Values", Header: missing.ReportHeader, Rows: report.Records()},
	)
	if err != nil {
		return err
	}
	r.Out.Success("Workbook written to %s", book)
	return nil
}

func investigateRelationships(r *run) error {
	m, err := stats.Correlate(r.Table, r.Config.Analysis.CorrelationColumns...)
	if err != nil {
		return err
	}

	r.Out.Section("Correlation Matrix")
	header, rows := m.Records()
	r.Out.Table(header, rows)

	return r.chart(r.Charts.Heatmap("Correlation Matrix of Numeric Features", m.Columns, heatValues(m)))
}

// heatValues lays a matrix out for the heatmap, undefined cells as NaN.
func heatValues(m *stats.Matrix) [][]float64 {
	out := make([][]float64, m.Size())
	for i := range out {
		out[i] = make([]float64, m.Size())
		for j := range out[i] {
			if v := m.At(i, j); v.Valid {
				out[i][j] = v.Float64
			} else {
				out[i][j] = math.NaN()
			}
		}
	}
	return out
}
