package export

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/evpop/internal/aggregate"
	"github.com/dbsmedya/evpop/internal/config"
	"github.com/dbsmedya/evpop/internal/dataset"
	"github.com/dbsmedya/evpop/internal/lock"
	"github.com/dbsmedya/evpop/internal/logger"
	"github.com/dbsmedya/evpop/internal/missing"
	"github.com/dbsmedya/evpop/internal/stats"
	"github.com/dbsmedya/evpop/internal/verifier"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func expectLock(mock sqlmock.Sqlmock, name string, result int) {
	mock.ExpectQuery("SELECT GET_LOCK(?, ?)").
		WithArgs(name, lock.TimeoutShort).
		WillReturnRows(sqlmock.NewRows([]string{"GET_LOCK"}).AddRow(result))
}

func expectUnlock(mock sqlmock.Sqlmock, name string) {
	mock.ExpectQuery("SELECT RELEASE_LOCK(?)").
		WithArgs(name).
		WillReturnRows(sqlmock.NewRows([]string{"RELEASE_LOCK"}).AddRow(1))
}

func expectCount(mock sqlmock.Sqlmock, table string, n int64) {
	mock.ExpectQuery("SELECT COUNT(*) FROM `" + table + "`").
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(n))
}

const createCounts = "CREATE TABLE IF NOT EXISTS `ev_make_counts` (`make` TEXT NULL, `count` BIGINT NULL) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"

func countsTable() Table {
	return Table{
		Name:    "make_counts",
		Columns: []Column{{Name: "Make", Type: Text}, {Name: "Count", Type: Integer}},
		Rows: [][]any{
			{"TESLA", int64(3)},
			{"NISSAN", int64(2)},
			{"KIA", int64(1)},
		},
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, config.ExportConfig{}, logger.NewNop())
	assert.ErrorContains(t, err, "export database is nil")

	db, _ := newMock(t)
	e, err := New(db, config.ExportConfig{TablePrefix: "ev_"}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultBatchSize, e.batchSize)
	assert.Equal(t, "ev_make_counts", e.TableName("make_counts"))
	assert.Equal(t, "ev_descriptive_statistics", e.TableName("Descriptive Statistics"))
	assert.Equal(t, verifier.MethodCount, e.verify)

	_, err = New(db, config.ExportConfig{Verify: "sha256"}, nil)
	assert.ErrorContains(t, err, "unsupported verification method")
}

func TestExport_BatchedInsert(t *testing.T) {
	db, mock := newMock(t)
	e, err := New(db, config.ExportConfig{TablePrefix: "ev_", BatchSize: 2}, logger.NewNop())
	require.NoError(t, err)

	expectLock(mock, "evpop:export:ev_", 1)
	mock.ExpectExec(createCounts).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `ev_make_counts`").WillReturnResult(sqlmock.NewResult(0, 7))
	mock.ExpectExec("INSERT INTO `ev_make_counts` (`make`, `count`) VALUES (?, ?), (?, ?)").
		WithArgs("TESLA", int64(3), "NISSAN", int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO `ev_make_counts` (`make`, `count`) VALUES (?, ?)").
		WithArgs("KIA", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	expectCount(mock, "ev_make_counts", 3)
	expectUnlock(mock, "evpop:export:ev_")

	st, err := e.Export(context.Background(), countsTable())
	require.NoError(t, err)
	assert.Equal(t, 1, st.Tables)
	assert.Equal(t, int64(3), st.Rows)
	assert.Equal(t, int64(3), st.RowsPerTable["ev_make_counts"])
	require.NotNil(t, st.Verification)
	assert.Equal(t, 1, st.Verification.TablesPassed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExport_EmptyTableStillCleared(t *testing.T) {
	db, mock := newMock(t)
	e, _ := New(db, config.ExportConfig{}, logger.NewNop())

	empty := Table{Name: "missing", Columns: []Column{{Name: "Feature", Type: Text}}}
	expectLock(mock, "evpop:export:", 1)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS `missing` (`feature` TEXT NULL) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `missing`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	expectCount(mock, "missing", 0)
	expectUnlock(mock, "evpop:export:")

	st, err := e.Export(context.Background(), empty)
	require.NoError(t, err)
	assert.Equal(t, int64(0), st.Rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExport_RollbackOnInsertError(t *testing.T) {
	db, mock := newMock(t)
	e, _ := New(db, config.ExportConfig{TablePrefix: "ev_"}, logger.NewNop())

	expectLock(mock, "evpop:export:ev_", 1)
	mock.ExpectExec(createCounts).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `ev_make_counts`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO `ev_make_counts` (`make`, `count`) VALUES (?, ?), (?, ?), (?, ?)").
		WillReturnError(errors.New("table is read only"))
	mock.ExpectRollback()
	expectUnlock(mock, "evpop:export:ev_")

	st, err := e.Export(context.Background(), countsTable())
	require.Error(t, err)
	assert.Nil(t, st)
	assert.Contains(t, err.Error(), "failed to export table ev_make_counts")
	assert.Contains(t, err.Error(), "table is read only")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExport_CreateError(t *testing.T) {
	db, mock := newMock(t)
	e, _ := New(db, config.ExportConfig{}, logger.NewNop())

	expectLock(mock, "evpop:export:", 1)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS `make_counts` (`make` TEXT NULL, `count` BIGINT NULL) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4").
		WillReturnError(sql.ErrConnDone)
	expectUnlock(mock, "evpop:export:")

	_, err := e.Export(context.Background(), countsTable())
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExport_LockBusy(t *testing.T) {
	db, mock := newMock(t)
	e, _ := New(db, config.ExportConfig{TablePrefix: "ev_"}, logger.NewNop())

	expectLock(mock, "evpop:export:ev_", 0)

	_, err := e.Export(context.Background(), countsTable())
	assert.ErrorIs(t, err, lock.ErrLockTimeout)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExport_VerificationMismatch(t *testing.T) {
	db, mock := newMock(t)
	e, _ := New(db, config.ExportConfig{TablePrefix: "ev_"}, logger.NewNop())

	expectLock(mock, "evpop:export:ev_", 1)
	mock.ExpectExec(createCounts).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `ev_make_counts`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO `ev_make_counts` (`make`, `count`) VALUES (?, ?), (?, ?), (?, ?)").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()
	expectCount(mock, "ev_make_counts", 5)
	expectUnlock(mock, "evpop:export:ev_")

	_, err := e.Export(context.Background(), countsTable())
	var mismatch *verifier.MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, int64(5), mismatch.Failed[0].Actual)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExport_SkipVerification(t *testing.T) {
	db, mock := newMock(t)
	e, _ := New(db, config.ExportConfig{TablePrefix: "ev_", Verify: "skip"}, logger.NewNop())

	expectLock(mock, "evpop:export:ev_", 1)
	mock.ExpectExec(createCounts).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `ev_make_counts`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO `ev_make_counts` (`make`, `count`) VALUES (?, ?), (?, ?), (?, ?)").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()
	expectUnlock(mock, "evpop:export:ev_")

	st, err := e.Export(context.Background(), countsTable())
	require.NoError(t, err)
	assert.Equal(t, verifier.MethodSkip, st.Verification.Method)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExport_InvalidTables(t *testing.T) {
	db, mock := newMock(t)
	e, _ := New(db, config.ExportConfig{}, logger.NewNop())

	_, err := e.Export(context.Background(), Table{Name: "x"})
	assert.ErrorContains(t, err, "has no columns")

	ragged := countsTable()
	ragged.Rows = append(ragged.Rows, []any{"BMW"})
	_, err = e.Export(context.Background(), ragged)
	assert.ErrorContains(t, err, "row 3 has 1 values, expected 2")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExport_Cancelled(t *testing.T) {
	db, mock := newMock(t)
	e, _ := New(db, config.ExportConfig{}, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Export(ctx, countsTable())
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlan_DuplicateIdentifiers(t *testing.T) {
	db, _ := newMock(t)
	e, _ := New(db, config.ExportConfig{}, logger.NewNop())

	p, err := e.plan(Table{
		Name:    "encoded",
		Columns: []Column{{Name: "Make", Type: Text}, {Name: "make", Type: Text}, {Name: "MAKE!", Type: Text}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"make", "make_2", "make_3"}, p.columns)
}

func TestFromDataset(t *testing.T) {
	tbl, err := dataset.NewTable(
		dataset.NewCategoricalColumn("Make", []string{"TESLA", ""}, []bool{true, false}),
		dataset.NewNumericColumn("Base MSRP", []float64{69900, 0}, []bool{true, false}),
		dataset.NewBooleanColumn("Make_TESLA", []bool{true, false}),
	)
	require.NoError(t, err)

	out := FromDataset("encoded", tbl)
	assert.Equal(t, []Column{{"Make", Text}, {"Base MSRP", Double}, {"Make_TESLA", Flag}}, out.Columns)
	assert.Equal(t, [][]any{{"TESLA", 69900.0, true}, {nil, nil, false}}, out.Rows)
}

func TestFromReportSummariesCounts(t *testing.T) {
	tbl, err := dataset.NewTable(
		dataset.NewCategoricalColumn("Make", []string{"TESLA", "TESLA", "KIA"}, nil),
		dataset.NewNumericColumn("Electric Range", []float64{200, 0, 0}, []bool{true, false, false}),
	)
	require.NoError(t, err)

	rep := FromReport("missing", missing.Document(tbl))
	require.Len(t, rep.Rows, 2)
	assert.Equal(t, "Electric Range", rep.Rows[1][0])
	assert.Equal(t, int64(2), rep.Rows[1][1])

	summaries, err := stats.Describe(tbl)
	require.NoError(t, err)
	sum := FromSummaries("stats", summaries)
	require.Len(t, sum.Columns, 10)
	assert.Equal(t, "median", sum.Columns[9].Name)
	require.Len(t, sum.Rows, 1)
	assert.Equal(t, int64(1), sum.Rows[0][1])
	assert.Nil(t, sum.Rows[0][3], "std of one value is NULL")
	assert.Equal(t, 200.0, sum.Rows[0][2])

	counts, err := aggregate.GroupCount(tbl, dataset.ColMake)
	require.NoError(t, err)
	ct := FromCounts("make_counts", counts, counts.Sorted())
	assert.Equal(t, [][]any{{"TESLA", int64(2)}, {"KIA", int64(1)}}, ct.Rows)
	assert.Equal(t, "Count", ct.Columns[1].Name)
}
