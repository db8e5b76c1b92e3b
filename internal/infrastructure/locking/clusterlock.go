package locking

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// ClusterLock serializes apply operations across all portal instances.
// TryAcquire is non-blocking: it either takes the lock immediately or
// reports that another holder has it.
type ClusterLock interface {
	// TryAcquire attempts to take the lock without waiting. It returns
	// false when another session already holds it.
	TryAcquire(ctx context.Context) (bool, error)
	// Release gives the lock back. It is safe to call when the lock was
	// never acquired.
	Release(ctx context.Context) error
}

// mysqlClusterLock implements ClusterLock on top of MySQL GET_LOCK.
// The lock is bound to a dedicated connection pinned for the lifetime
// of the hold, so the server releases it automatically if the process
// dies while holding it.
type mysqlClusterLock struct {
	db   *gorm.DB
	name string

	mu   sync.Mutex
	conn *sql.Conn
}

// NewMySQLClusterLock creates a cluster lock identified by key. All
// instances sharing a database and key contend for the same lock.
func NewMySQLClusterLock(db *gorm.DB, key int64) ClusterLock {
	return &mysqlClusterLock{
		db:   db,
		name: fmt.Sprintf("centrex_apply_%d", key),
	}
}

func (l *mysqlClusterLock) TryAcquire(ctx context.Context) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Already held by this instance: report contention, same as when
	// another session holds it.
	if l.conn != nil {
		return false, nil
	}

	sqlDB, err := l.db.DB()
	if err != nil {
		return false, fmt.Errorf("failed to get database handle: %w", err)
	}

	// GET_LOCK is session-scoped, so the call and the eventual release
	// must run on the same pinned connection.
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to pin connection: %w", err)
	}

	var acquired sql.NullInt64
	row := conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, 0)", l.name)
	if err := row.Scan(&acquired); err != nil {
		conn.Close()
		return false, fmt.Errorf("failed to acquire lock %s: %w", l.name, err)
	}

	if !acquired.Valid || acquired.Int64 != 1 {
		conn.Close()
		return false, nil
	}

	l.conn = conn
	return true, nil
}

func (l *mysqlClusterLock) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.conn == nil {
		return nil
	}

	conn := l.conn
	l.conn = nil
	defer conn.Close()

	var released sql.NullInt64
	row := conn.QueryRowContext(ctx, "SELECT RELEASE_LOCK(?)", l.name)
	if err := row.Scan(&released); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", l.name, err)
	}

	// Closing the pinned connection drops the lock server-side even if
	// RELEASE_LOCK reported it was not held.
	return nil
}
