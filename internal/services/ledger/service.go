// Package ledger exposes the append-only transaction ledger. Records receive
// their id and timestamp at append time and are never mutated afterwards;
// the package deliberately offers no update or delete operation.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"corebank/internal/models"
	"corebank/internal/repositories"

	"github.com/google/uuid"
)

const (
	// DefaultLimit bounds a ListFor page when the caller does not say.
	DefaultLimit = 50
	// MaxLimit caps how many records a single page may return.
	MaxLimit = 100
)

var (
	ErrInvalidRecord = errors.New("invalid ledger record")
)

// Service is the transaction ledger.
type Service interface {
	// Append stores the record immutably and returns it with id and
	// timestamp assigned.
	Append(ctx context.Context, record *models.Transaction) (*models.Transaction, error)
	// ListFor returns every record where the account is sender or receiver,
	// ordered by created_at ascending with id breaking ties.
	ListFor(ctx context.Context, accountID uint, limit, offset int) ([]models.Transaction, error)
}

type service struct {
	repo repositories.AccountRepository
}

// NewService creates a new ledger service.
func NewService(repo repositories.AccountRepository) Service {
	if repo == nil {
		panic("repo is required")
	}
	return &service{repo: repo}
}

func (s *service) Append(ctx context.Context, record *models.Transaction) (*models.Transaction, error) {
	if record == nil || !record.Type.Valid() || !record.Amount.IsPositive() {
		return nil, ErrInvalidRecord
	}
	if record.Type == models.TransactionTypeTransfer && (record.FromAccountID == nil || record.ToAccountID == nil) {
		return nil, ErrInvalidRecord
	}
	if record.Reference == "" {
		record.Reference = uuid.NewString()
	}

	if err := s.repo.AppendTransaction(record); err != nil {
		return nil, fmt.Errorf("failed to append ledger record: %w", err)
	}
	return record, nil
}

func (s *service) ListFor(ctx context.Context, accountID uint, limit, offset int) ([]models.Transaction, error) {
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	records, err := s.repo.ListTransactionsFor(accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger records: %w", err)
	}
	return records, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}
