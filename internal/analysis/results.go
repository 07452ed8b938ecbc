package analysis

import (
	"github.com/dbsmedya/evpop/internal/aggregate"
	"github.com/dbsmedya/evpop/internal/dataset"
	"github.com/dbsmedya/evpop/internal/export"
	"github.com/dbsmedya/evpop/internal/missing"
	"github.com/dbsmedya/evpop/internal/stats"
)

// countTables are the group counts published alongside the reports, keyed by
// their export table name.
var countTables = []struct {
	name string
	keys []string
}{
	{"make_counts", []string{dataset.ColMake}},
	{"model_counts", []string{dataset.ColModel}},
	{"city_counts", []string{dataset.ColCity}},
	{"county_counts", []string{dataset.ColCounty}},
	{"vehicle_type_counts", []string{dataset.ColVehicleType}},
	{"model_year_counts", []string{dataset.ColModelYear}},
	{"model_year_type_counts", []string{dataset.ColModelYear, dataset.ColVehicleType}},
}

// Results builds the result tables published by the export command: the
// missing-value report, the descriptive statistics and the group counts.
// Group counts whose key columns are absent are left out.
func (s *Session) Results() ([]export.Table, error) {
	summaries, err := stats.Describe(s.Table, s.Config.Analysis.DescribeColumns...)
	if err != nil {
		return nil, err
	}

	out := []export.Table{
		export.FromReport("missing_values", missing.Document(s.Table)),
		export.FromSummaries("descriptive_statistics", summaries),
	}
	for _, ct := range countTables {
		if s.Table.Require(ct.keys...) != nil {
			s.Log.Debugw("Skipping count table", "table", ct.name, "keys", ct.keys)
			continue
		}
		counts, err := aggregate.GroupCount(s.Table, ct.keys...)
		if err != nil {
			return nil, err
		}
		groups := counts.Sorted()
		if len(ct.keys) > 1 {
			groups = counts.ByKey()
		}
		out = append(out, export.FromCounts(ct.name, counts, groups))
	}
	return out, nil
}
