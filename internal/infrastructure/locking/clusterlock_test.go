package locking

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openLockDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestMySQLClusterLock_TryAcquire_AlreadyHeldLocally(t *testing.T) {
	db := openLockDB(t)
	lock := &mysqlClusterLock{db: db, name: "centrex_apply_1"}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	conn, err := sqlDB.Conn(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	// Simulate a hold by this instance. A second acquire attempt must
	// report contention, not an internal error, so callers can surface
	// it as a conflict.
	lock.conn = conn

	acquired, err := lock.TryAcquire(context.Background())
	assert.NoError(t, err)
	assert.False(t, acquired)
}

func TestMySQLClusterLock_Release_NotHeld(t *testing.T) {
	db := openLockDB(t)
	lock := &mysqlClusterLock{db: db, name: "centrex_apply_1"}

	err := lock.Release(context.Background())
	assert.NoError(t, err)
}

func TestMySQLClusterLock_TryAcquire_ConcurrentCallersGetNoError(t *testing.T) {
	db := openLockDB(t)
	lock := &mysqlClusterLock{db: db, name: "centrex_apply_1"}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	conn, err := sqlDB.Conn(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	lock.conn = conn

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			acquired, err := lock.TryAcquire(context.Background())
			assert.NoError(t, err)
			assert.False(t, acquired)
		}()
	}
	wg.Wait()
}
