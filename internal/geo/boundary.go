// Package geo joins registration counts onto the regions of a GeoJSON
// boundary file. Polygons are read for their names only and never drawn.
package geo

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/dbsmedya/evpop/internal/aggregate"
	"github.com/dbsmedya/evpop/internal/dataset"
)

// ErrInvalidBoundaries is returned when a boundary file is not a GeoJSON
// feature collection.
var ErrInvalidBoundaries = errors.New("invalid boundary file")

// Region is one feature of a boundary file.
type Region struct {
	Name     string
	Geometry string
	Count    int
}

// LoadBoundaries reads the features of a GeoJSON file, naming each region by
// properties.<nameField>. Features without that property are skipped.
func LoadBoundaries(path, nameField string) ([]Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", dataset.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("read boundaries: %w", err)
	}
	return ParseBoundaries(data, nameField)
}

// ParseBoundaries is LoadBoundaries over an in-memory document.
func ParseBoundaries(data []byte, nameField string) ([]Region, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidBoundaries)
	}
	features := gjson.GetBytes(data, "features")
	if !features.IsArray() {
		return nil, fmt.Errorf("%w: no features array", ErrInvalidBoundaries)
	}

	var regions []Region
	features.ForEach(func(_, f gjson.Result) bool {
		name := f.Get("properties." + gjson.Escape(nameField))
		if !name.Exists() || name.String() == "" {
			return true
		}
		regions = append(regions, Region{
			Name:     name.String(),
			Geometry: f.Get("geometry.type").String(),
		})
		return true
	})
	return regions, nil
}

// JoinCounts returns a copy of regions with Count set from the single-key
// counts whose value equals the region name; regions without a match get 0.
func JoinCounts(regions []Region, counts *aggregate.Counts) []Region {
	out := make([]Region, len(regions))
	for i, r := range regions {
		r.Count = counts.Get(r.Name)
		out[i] = r
	}
	return out
}

// Matched returns the number of regions with a non-zero count.
func Matched(regions []Region) int {
	n := 0
	for _, r := range regions {
		if r.Count > 0 {
			n++
		}
	}
	return n
}
