package export

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dbsmedya/evpop/internal/config"
	"github.com/dbsmedya/evpop/internal/lock"
	"github.com/dbsmedya/evpop/internal/logger"
	"github.com/dbsmedya/evpop/internal/sqlutil"
	"github.com/dbsmedya/evpop/internal/verifier"
)

// DefaultBatchSize is the number of rows per INSERT when none is configured.
const DefaultBatchSize = 500

// Stats summarizes one export run.
type Stats struct {
	Tables       int
	Rows         int64
	Duration     time.Duration
	RowsPerTable map[string]int64
	Verification *verifier.Stats
}

// Exporter writes result tables to MySQL. Each table is stored as
// {prefix}{name}; its previous contents are replaced.
type Exporter struct {
	db        *sql.DB
	prefix    string
	batchSize int
	verify    verifier.Method
	logger    *logger.Logger
}

// New creates an exporter over an open connection pool.
func New(db *sql.DB, cfg config.ExportConfig, log *logger.Logger) (*Exporter, error) {
	if db == nil {
		return nil, fmt.Errorf("export database is nil")
	}
	if log == nil {
		log = logger.NewNop()
	}
	method, err := verifier.ParseMethod(cfg.Verify)
	if err != nil {
		return nil, err
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	return &Exporter{db: db, prefix: cfg.TablePrefix, batchSize: batch, verify: method, logger: log}, nil
}

// TableName returns the SQL identifier a result table is stored under.
func (e *Exporter) TableName(name string) string {
	return sqlutil.SanitizeIdentifier(e.prefix + name)
}

// Export replaces the contents of every table while holding the export lock
// for the table prefix. Missing tables are created first because MySQL
// commits implicitly on CREATE TABLE; the rows are then written inside one
// transaction and the row counts verified after commit. Everything runs on a
// single connection since the advisory lock belongs to the session.
func (e *Exporter) Export(ctx context.Context, tables ...Table) (*Stats, error) {
	start := time.Now()

	plans := make([]plan, 0, len(tables))
	for _, t := range tables {
		p, err := e.plan(t)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("export interrupted: %w", err)
	}
	conn, err := e.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get export connection: %w", err)
	}
	defer conn.Close()

	var stats *Stats
	lk := lock.New(conn, lock.ExportLockName(e.prefix))
	err = lk.WithLock(ctx, lock.TimeoutShort, func() error {
		e.logger.Debugf("Acquired export lock %q", lk.Name())
		var err error
		stats, err = e.write(ctx, conn, plans)
		return err
	})
	if err != nil {
		return nil, err
	}

	stats.Duration = time.Since(start)
	e.logger.Infof("Export complete: %d tables, %d rows, duration: %s", stats.Tables, stats.Rows, stats.Duration)
	return stats, nil
}

func (e *Exporter) write(ctx context.Context, conn *sql.Conn, plans []plan) (*Stats, error) {
	stats := &Stats{RowsPerTable: make(map[string]int64)}

	for _, p := range plans {
		if _, err := conn.ExecContext(ctx, p.createSQL()); err != nil {
			return nil, fmt.Errorf("failed to create table %s: %w", p.table, err)
		}
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin export transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			e.logger.Warn("Rolling back export transaction")
			if rbErr := tx.Rollback(); rbErr != nil {
				e.logger.Errorf("Failed to rollback transaction: %v", rbErr)
			}
		}
	}()

	expected := make(map[string]int64, len(plans))
	for _, p := range plans {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("export interrupted: %w", err)
		}
		n, err := e.writeTable(ctx, tx, p)
		if err != nil {
			return nil, fmt.Errorf("failed to export table %s: %w", p.table, err)
		}
		stats.Tables++
		stats.Rows += n
		stats.RowsPerTable[p.table] = n
		expected[p.table] = int64(len(p.rows))
		e.logger.WithFields(map[string]interface{}{"table": p.table, "rows": n}).Debug("Exported table")
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit export transaction: %w", err)
	}
	tx = nil

	v, err := verifier.New(conn, e.verify, e.logger)
	if err != nil {
		return nil, err
	}
	stats.Verification, err = v.Verify(ctx, expected)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

type plan struct {
	table   string
	columns []string
	types   []ColumnType
	rows    [][]any
}

func (e *Exporter) plan(t Table) (plan, error) {
	if len(t.Columns) == 0 {
		return plan{}, fmt.Errorf("table %q has no columns", t.Name)
	}
	p := plan{table: e.TableName(t.Name), rows: t.Rows}
	seen := make(map[string]int, len(t.Columns))
	for _, c := range t.Columns {
		id := sqlutil.SanitizeIdentifier(c.Name)
		seen[id]++
		if n := seen[id]; n > 1 {
			id = id + "_" + strconv.Itoa(n)
		}
		p.columns = append(p.columns, id)
		p.types = append(p.types, c.Type)
	}
	for i, row := range t.Rows {
		if len(row) != len(p.columns) {
			return plan{}, fmt.Errorf("table %q row %d has %d values, expected %d", t.Name, i, len(row), len(p.columns))
		}
	}
	return p, nil
}

func (p plan) createSQL() string {
	defs := make([]string, len(p.columns))
	for i, c := range p.columns {
		defs[i] = sqlutil.QuoteIdentifier(c) + " " + p.types[i].SQL()
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
		sqlutil.QuoteIdentifier(p.table), strings.Join(defs, ", "))
}

// insertSQL builds a multi-row INSERT for n rows.
// Example: INSERT INTO `ev_counts` (`make`, `count`) VALUES (?, ?), (?, ?)
func (p plan) insertSQL(n int) string {
	quoted := make([]string, len(p.columns))
	for i, c := range p.columns {
		quoted[i] = sqlutil.QuoteIdentifier(c)
	}
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(p.columns)), ", ") + ")"
	tuples := make([]string, n)
	for i := range tuples {
		tuples[i] = tuple
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		sqlutil.QuoteIdentifier(p.table), strings.Join(quoted, ", "), strings.Join(tuples, ", "))
}

func (e *Exporter) writeTable(ctx context.Context, tx *sql.Tx, p plan) (int64, error) {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+sqlutil.QuoteIdentifier(p.table)); err != nil {
		return 0, fmt.Errorf("failed to clear rows: %w", err)
	}

	var written int64
	for start := 0; start < len(p.rows); start += e.batchSize {
		end := min(start+e.batchSize, len(p.rows))
		batch := p.rows[start:end]
		args := make([]any, 0, len(batch)*len(p.columns))
		for _, row := range batch {
			args = append(args, row...)
		}
		result, err := tx.ExecContext(ctx, p.insertSQL(len(batch)), args...)
		if err != nil {
			return written, fmt.Errorf("failed to insert rows %d-%d: %w", start, end-1, err)
		}
		affected, _ := result.RowsAffected()
		written += affected
	}
	return written, nil
}
