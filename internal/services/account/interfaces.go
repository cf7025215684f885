package account

import (
	"context"

	"corebank/internal/models"
)

// Service is the account store: it owns account lifecycle and is, together
// with the transfer engine, the only path that mutates balances.
type Service interface {
	// Open creates an account for the owner. The initial balance must be
	// non-negative; a positive opening balance is recorded as a deposit in
	// the ledger so balances always reconcile against it.
	Open(ctx context.Context, userID uint, accountType models.AccountType, initialBalance models.Money) (*models.Account, error)

	Get(ctx context.Context, id uint) (*models.Account, error)
	GetByNumber(ctx context.Context, number string) (*models.Account, error)
	// List returns the owner's accounts in creation order.
	List(ctx context.Context, userID uint) ([]models.Account, error)

	// Update changes the account type, the only mutable field besides the
	// balance. Accounts owned by someone else are reported as not found.
	Update(ctx context.Context, userID, id uint, accountType models.AccountType) (*models.Account, error)
	// Delete removes an account. It refuses unless the balance is exactly
	// zero, so funds can never silently vanish.
	Delete(ctx context.Context, userID, id uint) error

	// AdjustBalance applies a signed delta under the store's concurrency
	// control, rejecting any result below zero.
	AdjustBalance(ctx context.Context, accountID uint, delta models.Money) error

	Deposit(ctx context.Context, userID uint, accountNumber string, amount models.Money, description string) (*models.Transaction, error)
	Withdraw(ctx context.Context, userID uint, accountNumber string, amount models.Money, description string) (*models.Transaction, error)
}

// Cache is the optional read-through cache for account lookups.
type Cache interface {
	GetAccountByID(ctx context.Context, id uint) (*models.Account, error)
	GetAccountByNumber(ctx context.Context, number string) (*models.Account, error)
	CacheAccount(ctx context.Context, acct *models.Account) error
	InvalidateAccount(ctx context.Context, acct *models.Account) error
}
