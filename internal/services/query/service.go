// Package query provides read-only, owner-scoped projections over accounts
// and the transaction ledger. It exposes no mutation capability and never
// returns another principal's data.
package query

import (
	"context"
	"fmt"
	"time"

	"corebank/internal/models"
	"corebank/internal/repositories"
	"corebank/internal/services/account"
	"corebank/internal/services/ledger"
)

// AccountView is the read model for a single account.
type AccountView struct {
	ID      uint               `json:"id"`
	Number  string             `json:"account_number"`
	Type    models.AccountType `json:"account_type"`
	Balance models.Money       `json:"balance"`
}

// AccountRef is the short account summary embedded in transaction views.
type AccountRef struct {
	ID     uint   `json:"id"`
	Number string `json:"account_number"`
}

// TransactionView is the read model for one ledger record.
type TransactionView struct {
	ID          uint                   `json:"id"`
	Type        models.TransactionType `json:"transaction_type"`
	From        *AccountRef            `json:"from_account,omitempty"`
	To          *AccountRef            `json:"to_account,omitempty"`
	Amount      models.Money           `json:"amount"`
	Description string                 `json:"description,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// Service is the owner-scoped read side.
type Service interface {
	// Accounts returns the owner's accounts in creation order.
	Accounts(ctx context.Context, userID uint) ([]AccountView, error)
	// Transactions returns ledger records touching the owner's accounts,
	// oldest first. A non-zero accountID narrows the result to one account
	// and must belong to the owner.
	Transactions(ctx context.Context, userID uint, accountID uint, limit, offset int) ([]TransactionView, error)
}

type service struct {
	repo repositories.AccountRepository
}

// NewService creates a new query service.
func NewService(repo repositories.AccountRepository) Service {
	if repo == nil {
		panic("repo is required")
	}
	return &service{repo: repo}
}

func (s *service) Accounts(ctx context.Context, userID uint) ([]AccountView, error) {
	accts, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	views := make([]AccountView, len(accts))
	for i, acct := range accts {
		views[i] = AccountView{
			ID:      acct.ID,
			Number:  acct.Number,
			Type:    acct.Type,
			Balance: acct.Balance,
		}
	}
	return views, nil
}

func (s *service) Transactions(ctx context.Context, userID uint, accountID uint, limit, offset int) ([]TransactionView, error) {
	owned, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	scope := make([]uint, 0, len(owned))
	for _, acct := range owned {
		if accountID == 0 || acct.ID == accountID {
			scope = append(scope, acct.ID)
		}
	}
	if accountID != 0 && len(scope) == 0 {
		// Either absent or owned by someone else; both read as not found.
		return nil, account.ErrAccountNotFound
	}

	if limit <= 0 {
		limit = ledger.DefaultLimit
	}
	if limit > ledger.MaxLimit {
		limit = ledger.MaxLimit
	}
	records, err := s.repo.ListTransactionsForAccounts(scope, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	views := make([]TransactionView, len(records))
	for i, rec := range records {
		views[i] = TransactionView{
			ID:          rec.ID,
			Type:        rec.Type,
			From:        s.ref(rec.FromAccountID),
			To:          s.ref(rec.ToAccountID),
			Amount:      rec.Amount,
			Description: rec.Description,
			CreatedAt:   rec.CreatedAt,
		}
	}
	return views, nil
}

func (s *service) ref(id *uint) *AccountRef {
	if id == nil {
		return nil
	}
	acct, err := s.repo.GetByID(*id)
	if err != nil {
		// Counterparty account since deleted; keep the bare id.
		return &AccountRef{ID: *id}
	}
	return &AccountRef{ID: acct.ID, Number: acct.Number}
}
