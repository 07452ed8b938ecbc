package geo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/evpop/internal/aggregate"
	"github.com/dbsmedya/evpop/internal/dataset"
)

const states = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"NAME": "Seattle", "STATE": "53"}, "geometry": {"type": "Polygon", "coordinates": []}},
    {"type": "Feature", "properties": {"NAME": "Spokane"}, "geometry": {"type": "MultiPolygon", "coordinates": []}},
    {"type": "Feature", "properties": {"STATE": "41"}, "geometry": null}
  ]
}`

func TestLoadBoundaries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.json")
	require.NoError(t, os.WriteFile(path, []byte(states), 0o644))

	regions, err := LoadBoundaries(path, "NAME")
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, Region{Name: "Seattle", Geometry: "Polygon"}, regions[0])
	assert.Equal(t, "MultiPolygon", regions[1].Geometry)
}

func TestLoadBoundariesErrors(t *testing.T) {
	_, err := LoadBoundaries(filepath.Join(t.TempDir(), "absent.json"), "NAME")
	assert.ErrorIs(t, err, dataset.ErrFileNotFound)

	_, err = ParseBoundaries([]byte("{not json"), "NAME")
	assert.ErrorIs(t, err, ErrInvalidBoundaries)

	_, err = ParseBoundaries([]byte(`{"type":"Feature"}`), "NAME")
	assert.ErrorIs(t, err, ErrInvalidBoundaries)
}

func TestJoinCountsFillsZero(t *testing.T) {
	regions, err := ParseBoundaries([]byte(states), "NAME")
	require.NoError(t, err)

	tbl, err := dataset.NewTable(dataset.NewCategoricalColumn(dataset.ColCity, []string{"Seattle", "Seattle", "Tacoma"}, nil))
	require.NoError(t, err)
	counts, err := aggregate.GroupCount(tbl, dataset.ColCity)
	require.NoError(t, err)

	joined := JoinCounts(regions, counts)
	assert.Equal(t, 2, joined[0].Count)
	assert.Equal(t, 0, joined[1].Count)
	assert.Equal(t, 1, Matched(joined))
	assert.Equal(t, 0, regions[0].Count, "input is not modified")
}
