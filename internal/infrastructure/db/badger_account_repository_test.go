package db

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/damon-houk/currency-account-service/internal/domain/entity"
	"github.com/dgraph-io/badger/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()

	dir, err := os.MkdirTemp("", "badger-account-test")
	require.NoError(t, err)

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	opts.SyncWrites = false

	db, err := badger.Open(opts)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
		os.RemoveAll(dir)
	})

	return db
}

func TestBadgerAccountRepository(t *testing.T) {
	repo := NewBadgerAccountRepository(openTestDB(t))
	ctx := context.Background()

	account := entity.NewAccount("John", "Doe", entity.PLN, entity.USD, decimal.RequireFromString("1000.50"))

	saved, err := repo.Save(ctx, account)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, uint64(1), saved.Version)

	t.Run("Round trip", func(t *testing.T) {
		found, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)

		assert.Equal(t, saved.ID, found.ID)
		assert.Equal(t, "John", found.FirstName)
		assert.Equal(t, "Doe", found.LastName)
		assert.Equal(t, entity.PLN, found.BaseCurrency)
		assert.Equal(t, entity.USD, found.TargetCurrency)
		assert.True(t, decimal.RequireFromString("1000.50").Equal(found.BaseAmount))
		assert.True(t, found.TargetAmount.IsZero())
		assert.Equal(t, uint64(1), found.Version)
	})

	t.Run("Overwrite with current version", func(t *testing.T) {
		current, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)

		current.BaseAmount = decimal.NewFromInt(900)
		current.TargetAmount = decimal.RequireFromString("25.97")

		updated, err := repo.Save(ctx, current)
		require.NoError(t, err)
		assert.Equal(t, current.Version+1, updated.Version)

		found, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("25.97").Equal(found.TargetAmount))
	})

	t.Run("Stale version is rejected", func(t *testing.T) {
		// saved still carries version 1
		saved.BaseAmount = decimal.NewFromInt(1)

		_, err := repo.Save(ctx, saved)
		assert.True(t, errors.Is(err, entity.ErrConcurrentUpdate))

		found, err := repo.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(900).Equal(found.BaseAmount))
	})

	t.Run("Not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "non-existent-id")
		assert.True(t, errors.Is(err, entity.ErrAccountNotFound))
	})

	t.Run("Update of unknown account", func(t *testing.T) {
		ghost := account
		ghost.ID = "ghost"
		ghost.Version = 3

		_, err := repo.Save(ctx, ghost)
		assert.True(t, errors.Is(err, entity.ErrAccountNotFound))
	})

	t.Run("Cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := repo.FindByID(cancelled, saved.ID)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
