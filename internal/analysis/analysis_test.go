package analysis

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/evpop/internal/chart"
	"github.com/dbsmedya/evpop/internal/config"
	"github.com/dbsmedya/evpop/internal/dataset"
)

const fixture = `County,City,State,Postal Code,Model Year,Make,Model,Electric Vehicle Type,Electric Range,Base MSRP,Legislative District,DOL Vehicle ID,2020 Census Tract
King,Seattle,WA,98101,2020,TESLA,MODEL 3,Battery Electric Vehicle (BEV),266,0,43,1001,53033000100
King,Seattle,WA,98102,2021,TESLA,MODEL Y,Battery Electric Vehicle (BEV),,0,43,1002,53033000200
King,Bellevue,WA,98004,2019,NISSAN,LEAF,Battery Electric Vehicle (BEV),150,0,48,1003,53033000300
Snohomish,Everett,WA,98201,2018,TOYOTA,PRIUS PRIME,Plug-in Hybrid Electric Vehicle (PHEV),25,27000,38,1004,53061000100
Snohomish,Everett,WA,,2020,KIA,NIRO,Plug-in Hybrid Electric Vehicle (PHEV),26,,38,1005,
Pierce,Tacoma,WA,98402,2021,TESLA,MODEL 3,Battery Electric Vehicle (BEV),0,0,27,1006,53053000100
King,,WA,98052,2022,FORD,MUSTANG MACH-E,Battery Electric Vehicle (BEV),0,59900,45,1007,53033000400
Kitsap,Bremerton,WA,98310,2017,CHEVROLET,BOLT EV,Battery Electric Vehicle (BEV),238,36620,26,1008,53035000100
`

func setup(t *testing.T, mutate func(cfg *config.Config)) (*Session, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "Electric_Vehicle_Population_Data.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))

	cfg := config.DefaultConfig()
	cfg.Dataset.Path = path
	cfg.Output.Dir = dir
	cfg.Output.Charts = false
	cfg.Analysis.TopN = 3
	if mutate != nil {
		mutate(cfg)
	}

	var out bytes.Buffer
	s, err := Open(cfg, nil, &out)
	require.NoError(t, err)
	return s, &out
}

func step(t *testing.T, choice string) Step {
	t.Helper()
	st, ok := Lookup(choice)
	require.True(t, ok, "step %q", choice)
	return st
}

func TestStepsOrder(t *testing.T) {
	all := Steps()
	require.Len(t, all, 11)
	for i, s := range all {
		assert.Equal(t, i+1, s.Number)
		assert.NotEmpty(t, s.Key)
		assert.NotEmpty(t, s.Title)
	}
	assert.Equal(t, "Document Missing Values", all[0].Title)
	assert.Equal(t, "Temporal Analysis", all[10].Title)
}

func TestLookup(t *testing.T) {
	tests := []struct {
		choice string
		want   int
		ok     bool
	}{
		{"1", 1, true},
		{" 7 ", 7, true},
		{"11", 11, true},
		{"temporal", 11, true},
		{"Encoding", 3, true},
		{"0", 0, false},
		{"12", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.choice, func(t *testing.T) {
			s, ok := Lookup(tt.choice)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, s.Number)
		})
	}
}

func TestOpenMissingDataset(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dataset.Path = filepath.Join(t.TempDir(), "absent.csv")

	_, err := Open(cfg, nil, &bytes.Buffer{})
	assert.ErrorIs(t, err, dataset.ErrFileNotFound)
}

func TestSessionHasRunID(t *testing.T) {
	s, _ := setup(t, nil)
	assert.Len(t, s.RunID, 36)
	assert.Equal(t, 8, s.Table.Rows())
}

func TestDocumentMissingValues(t *testing.T) {
	s, out := setup(t, nil)
	require.NoError(t, s.Run(context.Background(), step(t, "1")))

	text := out.String()
	assert.Contains(t, text, "1. Document Missing Values")
	assert.Contains(t, text, "Missing Values Frequency and Percentage")
	assert.Contains(t, text, "12.500000")
	assert.Contains(t, text, "5 of 104")
}

func TestMissingValueStrategies(t *testing.T) {
	s, out := setup(t, nil)
	require.NoError(t, s.Run(context.Background(), step(t, "2")))

	text := out.String()
	assert.Contains(t, text, "Number of rows after each strategy")
	assert.Contains(t, text, "Summary Statistics for Drop Rows")
	assert.Contains(t, text, "Mean Imputation fill values")
}

func TestFeatureEncodingWritesArtifact(t *testing.T) {
	s, out := setup(t, nil)
	require.NoError(t, s.Run(context.Background(), step(t, "3")))

	enc, err := dataset.Load(s.Config.ArtifactPath(s.Config.Output.EncodedFile), dataset.Options{})
	require.NoError(t, err)
	assert.Equal(t, 8, enc.Rows())
	assert.False(t, enc.Has(dataset.ColMake))
	assert.True(t, enc.Has("Make_TESLA"))
	assert.True(t, enc.Has("Model_MODEL 3"))
	assert.Contains(t, out.String(), "more columns")
}

func TestNormalizationWritesArtifacts(t *testing.T) {
	s, _ := setup(t, nil)
	require.NoError(t, s.Run(context.Background(), step(t, "normalization")))

	scaled, err := dataset.Load(s.Config.ArtifactPath(s.Config.Output.MinMaxFile), dataset.Options{})
	require.NoError(t, err)
	years, err := scaled.NumericColumn(dataset.ColModelYear)
	require.NoError(t, err)
	vals := years.Floats()
	assert.Contains(t, vals, 0.0)
	assert.Contains(t, vals, 1.0)

	_, err = os.Stat(s.Config.ArtifactPath(s.Config.Output.StandardFile))
	assert.NoError(t, err)
}

func TestDescriptiveStatisticsArtifacts(t *testing.T) {
	s, out := setup(t, func(cfg *config.Config) { cfg.Output.WorkbookFile = "stats.xlsx" })
	require.NoError(t, s.Run(context.Background(), step(t, "5")))

	data, err := os.ReadFile(s.Config.ArtifactPath(s.Config.Output.StatsFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, ",count,mean,std,min,25%,50%,75%,max,median", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Model Year,8,"))

	_, err = os.Stat(s.Config.ArtifactPath("stats.xlsx"))
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "Workbook written")
}

func TestSpatialWithoutBoundaries(t *testing.T) {
	s, out := setup(t, nil)
	require.NoError(t, s.Run(context.Background(), step(t, "6")))
	assert.Contains(t, out.String(), "skipping region join")
	assert.Contains(t, out.String(), "Spatial Distribution of EVs by County")
}

func TestSpatialWithBoundaries(t *testing.T) {
	geojson := `{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"NAME":"Seattle"},"geometry":null},
		{"type":"Feature","properties":{"NAME":"Everett"},"geometry":null},
		{"type":"Feature","properties":{"NAME":"Spokane"},"geometry":null}]}`
	path := filepath.Join(t.TempDir(), "regions.json")
	require.NoError(t, os.WriteFile(path, []byte(geojson), 0o644))

	s, out := setup(t, func(cfg *config.Config) { cfg.Analysis.BoundaryFile = path })
	require.NoError(t, s.Run(context.Background(), step(t, "spatial")))
	assert.Contains(t, out.String(), "2 of 3 regions matched a city")
}

func TestInvalidColumnKeepsSessionUsable(t *testing.T) {
	s, out := setup(t, func(cfg *config.Config) { cfg.Analysis.EncodeColumns = []string{"Colour"} })

	err := s.Run(context.Background(), step(t, "3"))
	var colErr *dataset.InvalidColumnError
	require.True(t, errors.As(err, &colErr))
	assert.Equal(t, "Colour", colErr.Column)
	assert.Contains(t, err.Error(), "step 3 (Feature Encoding)")

	out.Reset()
	require.NoError(t, s.Run(context.Background(), step(t, "1")))
	assert.Contains(t, out.String(), "Missing Values Frequency")
}

func TestRunCancelled(t *testing.T) {
	s, _ := setup(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Run(ctx, step(t, "1")), context.Canceled)
}

func TestRunAllWithCharts(t *testing.T) {
	s, out := setup(t, func(cfg *config.Config) {
		cfg.Output.Charts = true
		cfg.Output.ChartWidth = 4
		cfg.Output.ChartHeight = 3
	})
	require.NoError(t, s.RunAll(context.Background(), Steps()))

	for _, title := range []string{
		"Missing Values Distribution",
		"Correlation Matrix of Numeric Features",
		"Top 3 Most Popular EV Models",
		"EV Adoption Rates Over Time",
		"Model Popularity Over the Years",
		"Base MSRP by Electric Vehicle Type",
	} {
		_, err := os.Stat(filepath.Join(s.Config.ChartPath(), chart.Slug(title)+".png"))
		assert.NoError(t, err, title)
	}
	assert.Contains(t, out.String(), "Chart written:")
}

func TestResults(t *testing.T) {
	s, _ := setup(t, nil)
	tables, err := s.Results()
	require.NoError(t, err)

	names := make([]string, len(tables))
	for i, tb := range tables {
		names[i] = tb.Name
	}
	assert.Equal(t, []string{
		"missing_values", "descriptive_statistics", "make_counts", "model_counts", "city_counts",
		"county_counts", "vehicle_type_counts", "model_year_counts", "model_year_type_counts",
	}, names)
	assert.Len(t, tables[0].Rows, 13)
	assert.Len(t, tables[1].Rows, 3)
	assert.Equal(t, []any{"TESLA", int64(3)}, tables[2].Rows[0])
}

func TestXValues(t *testing.T) {
	assert.Equal(t, []float64{2019, 2020}, xValues([]string{"2019", "2020"}))
	assert.Equal(t, []float64{0, 1}, xValues([]string{"2019", "n/a"}))
}
