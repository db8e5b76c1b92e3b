package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type txRecord struct {
	ID   uint `gorm:"primarykey"`
	Name string
}

func openTxDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&txRecord{}))
	return db
}

func TestTransactionManager_CommitsOnSuccess(t *testing.T) {
	gdb := openTxDB(t)
	tm := NewTransactionManager(gdb)

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		return GetTxFromContext(ctx, gdb).Create(&txRecord{Name: "alice"}).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, gdb.Model(&txRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	gdb := openTxDB(t)
	tm := NewTransactionManager(gdb)

	boom := errors.New("cursor move failed")
	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		if err := GetTxFromContext(ctx, gdb).Create(&txRecord{Name: "alice"}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, gdb.Model(&txRecord{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestTransactionManager_NestedCallJoinsTransaction(t *testing.T) {
	gdb := openTxDB(t)
	tm := NewTransactionManager(gdb)

	boom := errors.New("second write failed")
	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		if err := GetTxFromContext(ctx, gdb).Create(&txRecord{Name: "alice"}).Error; err != nil {
			return err
		}
		// The inner call must join the open transaction, so its write
		// rolls back together with the outer one.
		return tm.RunInTransaction(ctx, func(innerCtx context.Context) error {
			if err := GetTxFromContext(innerCtx, gdb).Create(&txRecord{Name: "bob"}).Error; err != nil {
				return err
			}
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, gdb.Model(&txRecord{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestGetTxFromContext_NoTransactionUsesDefault(t *testing.T) {
	gdb := openTxDB(t)

	handle := GetTxFromContext(context.Background(), gdb)
	require.NotNil(t, handle)
	assert.NoError(t, handle.Create(&txRecord{Name: "carol"}).Error)
}
