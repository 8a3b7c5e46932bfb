package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/damon-houk/currency-account-service/internal/domain/entity"
	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
)

const accountKeyPrefix = "account:"

// BadgerAccountRepository implements the account repository interface using BadgerDB.
// Writes are guarded by the account Version: a save is rejected when the stored
// version moved on since the account was read.
type BadgerAccountRepository struct {
	db *badger.DB
}

// NewBadgerAccountRepository creates a new BadgerDB account repository
func NewBadgerAccountRepository(db *badger.DB) *BadgerAccountRepository {
	return &BadgerAccountRepository{db: db}
}

func accountKey(id string) []byte {
	return []byte(accountKeyPrefix + id)
}

// Save stores the account, assigning an ID on first save, and returns the stored copy
func (r *BadgerAccountRepository) Save(ctx context.Context, account entity.Account) (entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return entity.Account{}, err
	}

	if account.ID == "" {
		account.ID = uuid.New().String()
		account.Version = 0
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		stored, err := getAccount(txn, account.ID)
		switch {
		case errors.Is(err, entity.ErrAccountNotFound):
			if account.Version != 0 {
				return err
			}
		case err != nil:
			return err
		case stored.Version != account.Version:
			return fmt.Errorf("%w: stored version %d, saving version %d",
				entity.ErrConcurrentUpdate, stored.Version, account.Version)
		}

		account.Version++

		data, err := json.Marshal(account)
		if err != nil {
			return fmt.Errorf("failed to marshal account: %w", err)
		}

		return txn.Set(accountKey(account.ID), data)
	})

	if errors.Is(err, badger.ErrConflict) {
		return entity.Account{}, fmt.Errorf("%w: %v", entity.ErrConcurrentUpdate, err)
	}
	if err != nil {
		return entity.Account{}, fmt.Errorf("failed to store account %s: %w", account.ID, err)
	}

	return account, nil
}

// FindByID retrieves an account by its unique identifier
func (r *BadgerAccountRepository) FindByID(ctx context.Context, id string) (entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return entity.Account{}, err
	}

	var account entity.Account
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		account, err = getAccount(txn, id)
		return err
	})

	if err != nil {
		return entity.Account{}, err
	}

	return account, nil
}

func getAccount(txn *badger.Txn, id string) (entity.Account, error) {
	var account entity.Account

	item, err := txn.Get(accountKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return account, fmt.Errorf("%w: %s", entity.ErrAccountNotFound, id)
	}
	if err != nil {
		return account, fmt.Errorf("failed to retrieve account: %w", err)
	}

	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &account)
	})
	if err != nil {
		return account, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return account, nil
}
