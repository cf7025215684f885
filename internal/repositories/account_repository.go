// Package repositories provides the data access layer. Two implementations
// exist behind the same interfaces: a GORM/Postgres store for production and
// an in-memory store for tests and database-less development runs.
package repositories

import (
	"corebank/internal/models"
)

// AccountRepository owns Account rows and the append-only transaction ledger.
// Ledger records live behind the same repository so a transfer can mutate two
// balances and append its record inside one storage transaction.
type AccountRepository interface {
	Create(acct *models.Account) error
	GetByID(id uint) (*models.Account, error)
	GetByNumber(number string) (*models.Account, error)
	// GetForUpdate locks the account row until the enclosing storage
	// transaction ends. Only meaningful inside ExecuteInTransaction; callers
	// locking two accounts must acquire them in ascending id order.
	GetForUpdate(id uint) (*models.Account, error)
	ListByUser(userID uint) ([]models.Account, error)
	Update(acct *models.Account) error
	Delete(id uint) error

	// AppendTransaction stores a new ledger record, assigning its id and
	// timestamp. Records are immutable once stored.
	AppendTransaction(tx *models.Transaction) error
	// ListTransactionsFor returns records where the account is either side,
	// ordered by created_at ascending with id as the tie-breaker.
	ListTransactionsFor(accountID uint, limit, offset int) ([]models.Transaction, error)
	// ListTransactionsForAccounts is the multi-account variant used by
	// owner-scoped queries. Same ordering guarantee.
	ListTransactionsForAccounts(accountIDs []uint, limit, offset int) ([]models.Transaction, error)

	// ExecuteInTransaction runs fn against a transaction-scoped repository.
	// All effects commit together or roll back together.
	ExecuteInTransaction(fn func(AccountRepository) error) error
}

// UserRepository owns User rows.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	IncrementTokenVersion(id uint) error
}
