// Package analysis runs the numbered exploratory steps over a loaded
// Electric Vehicle Population dataset.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dbsmedya/evpop/internal/chart"
	"github.com/dbsmedya/evpop/internal/config"
	"github.com/dbsmedya/evpop/internal/dataset"
	"github.com/dbsmedya/evpop/internal/logger"
	"github.com/dbsmedya/evpop/internal/render"
)

// maxPreviewColumns caps the columns shown by a table preview.
const maxPreviewColumns = 10

// Session is a loaded dataset together with everything the steps need to
// report on it. Steps never modify Table.
type Session struct {
	Table  *dataset.Table
	Config *config.Config
	Log    *logger.Logger
	Out    *render.Printer
	Charts *chart.Renderer
	RunID  string
}

// NewSession wraps an already loaded table.
func NewSession(t *dataset.Table, cfg *config.Config, log *logger.Logger, w io.Writer) *Session {
	if log == nil {
		log = logger.NewNop()
	}
	runID := uuid.NewString()
	return &Session{
		Table:  t,
		Config: cfg,
		Log:    log.WithRun(runID),
		Out:    render.New(w),
		Charts: &chart.Renderer{
			Dir:     cfg.ChartPath(),
			Enabled: cfg.Output.Charts,
			Width:   float64(cfg.Output.ChartWidth),
			Height:  float64(cfg.Output.ChartHeight),
		},
		RunID: runID,
	}
}

// Open loads the configured dataset and returns a session over it.
func Open(cfg *config.Config, log *logger.Logger, w io.Writer) (*Session, error) {
	delim, err := dataset.ParseDelimiter(cfg.Dataset.Delimiter)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	t, err := dataset.Load(cfg.Dataset.Path, dataset.Options{Delimiter: delim, Sheet: cfg.Dataset.Sheet})
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	s := NewSession(t, cfg, log, w)
	s.Log.Infow("Loaded dataset",
		"path", cfg.Dataset.Path,
		"rows", t.Rows(),
		"columns", t.Width(),
		"duration", time.Since(start),
	)
	return s, nil
}

// Run executes one step. The step's error is returned for the caller to
// report; the session stays usable.
func (s *Session) Run(ctx context.Context, step Step) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r := &run{Session: s, ctx: ctx, log: s.Log.WithStep(step.Number, step.Title)}
	s.Out.Header("%d. %s", step.Number, step.Title)
	r.log.Info("Step started")

	start := time.Now()
	if err := step.run(r); err != nil {
		r.log.Errorw("Step failed", "error", err, "duration", time.Since(start))
		return fmt.Errorf("step %d (%s): %w", step.Number, step.Title, err)
	}
	r.log.Infow("Step finished", "charts", r.charts, "duration", time.Since(start))
	return nil
}

// RunAll executes steps in order and stops at the first failure.
func (s *Session) RunAll(ctx context.Context, steps []Step) error {
	for _, step := range steps {
		if err := s.Run(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

// run is the per-step view of a session.
type run struct {
	*Session
	ctx    context.Context
	log    *logger.Logger
	charts int
}

// chart reports the outcome of a chart call. A chart with nothing to plot is
// skipped with a warning rather than failing the step.
func (r *run) chart(path string, err error) error {
	if errors.Is(err, dataset.ErrEmptyDataset) {
		r.Out.Warn("Skipped chart: no data to plot")
		return nil
	}
	if err != nil {
		return err
	}
	if path != "" {
		r.charts++
		r.Out.Line("Chart written: %s", path)
		r.log.Debugw("Chart written", "path", path)
	}
	return nil
}

// preview prints the first configured rows of t, limited to the first few
// columns.
func (r *run) preview(title string, t *dataset.Table) {
	r.Out.Section(title)
	head := t.Head(r.Config.Output.PreviewRows)

	names := head.Names()
	hidden := 0
	if len(names) > maxPreviewColumns {
		hidden = len(names) - maxPreviewColumns
		names = names[:maxPreviewColumns]
	}

	rows := make([][]string, head.Rows())
	for i := range rows {
		rows[i] = head.Record(i)[:len(names)]
	}
	r.Out.Table(names, rows)
	if hidden > 0 {
		r.Out.Line("... %d more columns", hidden)
	}
	r.Out.Line("[%d rows x %d columns]", t.Rows(), t.Width())
}

// xValues turns numeric labels such as model years into x coordinates;
// labels that do not parse fall back to their position.
func xValues(labels []string) []float64 {
	out := make([]float64, len(labels))
	for i, l := range labels {
		v, err := strconv.ParseFloat(l, 64)
		if err != nil {
			return positions(len(labels))
		}
		out[i] = v
	}
	return out
}

func positions(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}
