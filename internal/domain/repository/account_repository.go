package repository

import (
	"context"

	"github.com/damon-houk/currency-account-service/internal/domain/entity"
)

// AccountRepository defines the interface for account storage
type AccountRepository interface {
	// Save stores an account and returns the stored copy. An account without an ID
	// is assigned one. An existing account is overwritten only if its Version matches
	// the stored version; otherwise entity.ErrConcurrentUpdate is returned.
	Save(ctx context.Context, account entity.Account) (entity.Account, error)

	// FindByID retrieves an account by its unique identifier, or entity.ErrAccountNotFound
	FindByID(ctx context.Context, id string) (entity.Account, error)
}
