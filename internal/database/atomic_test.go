package database

import (
	"context"
	"errors"
	"testing"

	"github.com/clipstream-labs/clipstream/backend/testhelper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type ledgerEntry struct {
	ID     uint `gorm:"primaryKey"`
	Amount int64
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory
	// database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&ledgerEntry{}))
	return db
}

func countEntries(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&ledgerEntry{}).Count(&count).Error)
	return count
}

func TestWithAtomicUnit(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		db := openTestDB(t)
		uow := NewUnitOfWork(db, testhelper.NewTestLogger(false))

		err := uow.WithAtomicUnit(context.Background(), func(tx *gorm.DB) error {
			return tx.Create(&ledgerEntry{Amount: 10}).Error
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), countEntries(t, db))
	})

	t.Run("an error rolls back every write in the unit", func(t *testing.T) {
		db := openTestDB(t)
		uow := NewUnitOfWork(db, testhelper.NewTestLogger(false))

		boom := errors.New("second write refused")
		err := uow.WithAtomicUnit(context.Background(), func(tx *gorm.DB) error {
			if err := tx.Create(&ledgerEntry{Amount: 10}).Error; err != nil {
				return err
			}
			if err := tx.Create(&ledgerEntry{Amount: -10}).Error; err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)
		assert.Equal(t, int64(0), countEntries(t, db))
	})

	t.Run("a panic rolls back and surfaces as an error", func(t *testing.T) {
		db := openTestDB(t)
		uow := NewUnitOfWork(db, testhelper.NewTestLogger(false))

		err := uow.WithAtomicUnit(context.Background(), func(tx *gorm.DB) error {
			if err := tx.Create(&ledgerEntry{Amount: 10}).Error; err != nil {
				return err
			}
			panic("midway")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "panic in atomic unit")
		assert.Equal(t, int64(0), countEntries(t, db))
	})

	t.Run("a cancelled context leaves nothing behind", func(t *testing.T) {
		db := openTestDB(t)
		uow := NewUnitOfWork(db, testhelper.NewTestLogger(false))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := uow.WithAtomicUnit(ctx, func(tx *gorm.DB) error {
			return tx.Create(&ledgerEntry{Amount: 10}).Error
		})
		require.Error(t, err)
		assert.Equal(t, int64(0), countEntries(t, db))
	})
}
