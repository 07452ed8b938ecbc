package verifier

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/evpop/internal/logger"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func expectCount(mock sqlmock.Sqlmock, table string, n int64) {
	mock.ExpectQuery("SELECT COUNT(*) FROM `" + table + "`").
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(n))
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		input   string
		want    Method
		wantErr bool
	}{
		{"", MethodCount, false},
		{"count", MethodCount, false},
		{" SKIP ", MethodSkip, false},
		{"sha256", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestNewVerifier(t *testing.T) {
	_, err := New(nil, MethodCount, nil)
	assert.ErrorContains(t, err, "database is nil")

	db, _ := newMock(t)
	v, err := New(db, "", nil)
	require.NoError(t, err)
	assert.Equal(t, MethodCount, v.method)
}

func TestVerifyCountsMatch(t *testing.T) {
	db, mock := newMock(t)
	v, err := New(db, MethodCount, logger.NewNop())
	require.NoError(t, err)

	// Tables are checked in name order
	expectCount(mock, "ev_make_counts", 3)
	expectCount(mock, "ev_missing_values", 13)

	stats, err := v.Verify(context.Background(), map[string]int64{
		"ev_missing_values": 13,
		"ev_make_counts":    3,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TablesVerified)
	assert.Equal(t, 2, stats.TablesPassed)
	assert.Equal(t, 0, stats.TablesFailed)
	assert.Equal(t, int64(16), stats.TotalRows)
	assert.Equal(t, "ev_make_counts", stats.Results[0].Table)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyMismatchChecksAllTables(t *testing.T) {
	db, mock := newMock(t)
	v, _ := New(db, MethodCount, logger.NewNop())

	expectCount(mock, "a", 1)
	expectCount(mock, "b", 5)
	expectCount(mock, "c", 0)

	stats, err := v.Verify(context.Background(), map[string]int64{"a": 2, "b": 5, "c": 4})
	require.Error(t, err)

	var mismatch *MismatchError
	require.True(t, errors.As(err, &mismatch))
	require.Len(t, mismatch.Failed, 2)
	assert.Equal(t, "verification failed: 2 table(s) had mismatches: a (expected 2, found 1), c (expected 4, found 0)", err.Error())
	assert.Equal(t, 3, stats.TablesVerified)
	assert.Equal(t, 1, stats.TablesPassed)
	assert.Equal(t, 2, stats.TablesFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifySkip(t *testing.T) {
	db, mock := newMock(t)
	v, _ := New(db, MethodSkip, logger.NewNop())

	stats, err := v.Verify(context.Background(), map[string]int64{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, MethodSkip, stats.Method)
	assert.Zero(t, stats.TablesVerified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyQueryError(t *testing.T) {
	db, mock := newMock(t)
	v, _ := New(db, MethodCount, logger.NewNop())

	mock.ExpectQuery("SELECT COUNT(*) FROM `a`").WillReturnError(sql.ErrConnDone)

	_, err := v.Verify(context.Background(), map[string]int64{"a": 1})
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.ErrorContains(t, err, "failed to count rows in a")
}

func TestVerifyCancelled(t *testing.T) {
	db, mock := newMock(t)
	v, _ := New(db, MethodCount, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.Verify(ctx, map[string]int64{"a": 1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, mock.ExpectationsWereMet())
}
