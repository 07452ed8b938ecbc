// Package lock provides MySQL advisory locks that keep two exports from
// writing the same result tables at once.
package lock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrLockTimeout is returned when another session holds the lock.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// Timeout values for lock acquisition (in seconds).
const (
	// TimeoutImmediate returns at once if the lock is taken.
	TimeoutImmediate = 0

	// TimeoutShort fails fast when another export is running.
	TimeoutShort = 1

	// TimeoutMedium waits out a short overlapping export.
	TimeoutMedium = 10
)

// maxNameLength is MySQL's limit on user lock names.
const maxNameLength = 64

// Querier is the subset of *sql.Conn used by AdvisoryLock.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// AdvisoryLock is a named MySQL GET_LOCK lock. MySQL ties the lock to one
// session, so q should be a pinned *sql.Conn rather than a pool.
type AdvisoryLock struct {
	q    Querier
	name string
	held bool
}

// New creates a lock with the given name. Nothing is acquired yet.
func New(q Querier, name string) *AdvisoryLock {
	return &AdvisoryLock{q: q, name: name}
}

// ExportLockName returns the lock name for exports writing tables with the
// given prefix, e.g. "evpop:export:ev_".
func ExportLockName(prefix string) string {
	sanitized := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, prefix)

	name := "evpop:export:" + sanitized
	if len(name) > maxNameLength {
		name = name[:maxNameLength]
	}
	return name
}

// Acquire waits up to timeoutSeconds for the lock. It reports false when the
// timeout was reached.
//
// GET_LOCK returns 1 on success, 0 on timeout and NULL on error.
func (a *AdvisoryLock) Acquire(ctx context.Context, timeoutSeconds int) (bool, error) {
	if a.held {
		return true, nil
	}

	var result sql.NullInt64
	if err := a.q.QueryRowContext(ctx, "SELECT GET_LOCK(?, ?)", a.name, timeoutSeconds).Scan(&result); err != nil {
		return false, fmt.Errorf("failed to execute GET_LOCK: %w", err)
	}
	if !result.Valid {
		return false, fmt.Errorf("GET_LOCK returned NULL for lock %q", a.name)
	}

	switch result.Int64 {
	case 1:
		a.held = true
		return true, nil
	case 0:
		return false, nil
	default:
		return false, fmt.Errorf("unexpected GET_LOCK return value: %d", result.Int64)
	}
}

// Release releases the lock. It reports false when this session did not hold
// it.
//
// RELEASE_LOCK returns 1 on success, 0 when another session holds the lock
// and NULL when no such lock exists.
func (a *AdvisoryLock) Release(ctx context.Context) (bool, error) {
	if !a.held {
		return false, nil
	}

	var result sql.NullInt64
	if err := a.q.QueryRowContext(ctx, "SELECT RELEASE_LOCK(?)", a.name).Scan(&result); err != nil {
		return false, fmt.Errorf("failed to execute RELEASE_LOCK: %w", err)
	}
	a.held = false

	if !result.Valid {
		return false, fmt.Errorf("RELEASE_LOCK returned NULL for lock %q (lock did not exist)", a.name)
	}
	return result.Int64 == 1, nil
}

// IsHeld reports whether this instance holds the lock.
func (a *AdvisoryLock) IsHeld() bool {
	return a.held
}

// Name returns the lock name.
func (a *AdvisoryLock) Name() string {
	return a.name
}

// WithLock runs fn while holding the lock and releases it afterwards, also
// when fn panics. ErrLockTimeout is returned if the lock is busy.
func (a *AdvisoryLock) WithLock(ctx context.Context, timeoutSeconds int, fn func() error) (err error) {
	acquired, err := a.Acquire(ctx, timeoutSeconds)
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !acquired {
		return fmt.Errorf("%w: lock %q is held by another session", ErrLockTimeout, a.name)
	}

	defer func() {
		// The caller's context may already be cancelled.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, releaseErr := a.Release(releaseCtx); releaseErr != nil && err == nil {
			err = fmt.Errorf("failed to release lock: %w", releaseErr)
		}
	}()

	return fn()
}
