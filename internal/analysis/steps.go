package analysis

import (
	"strconv"
	"strings"
)

// Step is one numbered analysis.
type Step struct {
	Number int
	Key    string
	Title  string
	run    func(r *run) error
}

var steps = []Step{
	{Number: 1, Key: "missing", Title: "Document Missing Values", run: documentMissing},
	{Number: 2, Key: "strategies", Title: "Missing Value Strategies", run: missingStrategies},
	{Number: 3, Key: "encoding", Title: "Feature Encoding", run: featureEncoding},
	{Number: 4, Key: "normalization", Title: "Normalization", run: normalization},
	{Number: 5, Key: "statistics", Title: "Descriptive Statistics", run: descriptiveStatistics},
	{Number: 6, Key: "spatial", Title: "Spatial Distribution", run: spatialDistribution},
	{Number: 7, Key: "popularity", Title: "Model Popularity", run: modelPopularity},
	{Number: 8, Key: "relationships", Title: "Investigate Relationships", run: investigateRelationships},
	{Number: 9, Key: "exploration", Title: "Data Exploration Visualizations", run: explorationVisualizations},
	{Number: 10, Key: "comparative", Title: "Comparative Visualization", run: comparativeVisualization},
	{Number: 11, Key: "temporal", Title: "Temporal Analysis", run: temporalAnalysis},
}

// Steps returns the analysis steps in menu order.
func Steps() []Step {
	return append([]Step(nil), steps...)
}

// Lookup finds a step by its number ("1".."11") or key, ignoring case and
// surrounding space.
func Lookup(choice string) (Step, bool) {
	choice = strings.ToLower(strings.TrimSpace(choice))
	if n, err := strconv.Atoi(choice); err == nil {
		if n >= 1 && n <= len(steps) {
			return steps[n-1], true
		}
		return Step{}, false
	}
	for _, s := range steps {
		if s.Key == choice {
			return s, true
		}
	}
	return Step{}, false
}
