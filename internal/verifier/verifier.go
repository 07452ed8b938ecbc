// Package verifier checks exported result tables against the rows written
// to them.
package verifier

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/dbsmedya/evpop/internal/logger"
	"github.com/dbsmedya/evpop/internal/sqlutil"
)

// Method defines how exported tables are verified.
type Method string

const (
	// MethodCount compares each table's row count with the rows written
	MethodCount Method = "count"
	// MethodSkip skips verification entirely
	MethodSkip Method = "skip"
)

// ParseMethod maps a config value to a Method; empty means MethodCount.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return MethodCount, nil
	case MethodCount, MethodSkip:
		return m, nil
	default:
		return "", fmt.Errorf("unsupported verification method: %s", s)
	}
}

// Querier is the subset of *sql.DB, *sql.Conn and *sql.Tx used for counting.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Result holds the verification result for one table.
type Result struct {
	Table    string
	Expected int64
	Actual   int64
	Match    bool
}

// Stats contains overall verification statistics.
type Stats struct {
	TablesVerified int
	TablesPassed   int
	TablesFailed   int
	TotalRows      int64
	Method         Method
	Results        []Result
}

// MismatchError lists the tables whose row counts did not match.
type MismatchError struct {
	Failed []Result
}

func (e *MismatchError) Error() string {
	parts := make([]string, len(e.Failed))
	for i, r := range e.Failed {
		parts[i] = fmt.Sprintf("%s (expected %d, found %d)", r.Table, r.Expected, r.Actual)
	}
	return fmt.Sprintf("verification failed: %d table(s) had mismatches: %s", len(e.Failed), strings.Join(parts, ", "))
}

// Verifier counts rows in exported tables.
type Verifier struct {
	q      Querier
	method Method
	logger *logger.Logger
}

// New creates a verifier that queries through q.
func New(q Querier, method Method, log *logger.Logger) (*Verifier, error) {
	if q == nil {
		return nil, fmt.Errorf("database is nil")
	}
	if log == nil {
		log = logger.NewNop()
	}
	if method == "" {
		method = MethodCount
	}
	return &Verifier{q: q, method: method, logger: log}, nil
}

// Verify checks every table in expected (table name to row count) in name
// order. All tables are counted before a *MismatchError is returned.
func (v *Verifier) Verify(ctx context.Context, expected map[string]int64) (*Stats, error) {
	stats := &Stats{Method: v.method}
	if v.method == MethodSkip {
		v.logger.Info("Verification SKIPPED (method=skip)")
		return stats, nil
	}
	if v.method != MethodCount {
		return nil, fmt.Errorf("unsupported verification method: %s", v.method)
	}

	tables := make([]string, 0, len(expected))
	for t := range expected {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	var failed []Result
	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("verification interrupted: %w", err)
		}

		var actual int64
		query := "SELECT COUNT(*) FROM " + sqlutil.QuoteIdentifier(table)
		if err := v.q.QueryRowContext(ctx, query).Scan(&actual); err != nil {
			return stats, fmt.Errorf("failed to count rows in %s: %w", table, err)
		}

		r := Result{Table: table, Expected: expected[table], Actual: actual, Match: actual == expected[table]}
		stats.Results = append(stats.Results, r)
		stats.TablesVerified++
		stats.TotalRows += actual

		if r.Match {
			stats.TablesPassed++
			v.logger.Debugf("Verification PASSED for table %q (%d rows)", table, actual)
			continue
		}
		stats.TablesFailed++
		failed = append(failed, r)
		v.logger.Errorf("Verification FAILED for table %q: expected %d rows, found %d", table, r.Expected, actual)
	}

	v.logger.Infof("Verification complete: %d tables verified, %d passed, %d failed, %d total rows",
		stats.TablesVerified, stats.TablesPassed, stats.TablesFailed, stats.TotalRows)

	if len(failed) > 0 {
		return stats, &MismatchError{Failed: failed}
	}
	return stats, nil
}
