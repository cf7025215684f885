package transfer

import (
	"context"
	"errors"
	"fmt"

	"corebank/internal/models"
	"corebank/internal/repositories"
	"corebank/internal/services/account"

	"github.com/google/uuid"
)

type service struct {
	repo   repositories.AccountRepository
	policy DebitPolicy
	cache  Cache
}

// NewService creates a new transfer service. The policy is required; the
// cache is optional.
func NewService(repo repositories.AccountRepository, policy DebitPolicy, cache Cache) Service {
	if repo == nil {
		panic("repo is required")
	}
	if policy == nil {
		panic("debit policy is required")
	}
	return &service{repo: repo, policy: policy, cache: cache}
}

func (s *service) Execute(ctx context.Context, principalID uint, fromNumber, toNumber string, amount models.Money, description string) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, account.ErrInvalidAmount
	}
	if fromNumber == toNumber {
		return nil, ErrSameAccount
	}

	from, err := s.repo.GetByNumber(fromNumber)
	if err != nil {
		return nil, sideError("source", err)
	}
	to, err := s.repo.GetByNumber(toNumber)
	if err != nil {
		return nil, sideError("destination", err)
	}

	if err := s.policy.MayDebit(ctx, principalID, from); err != nil {
		return nil, err
	}

	// A saving account may only feed the same owner's cheque account.
	if from.Type == models.AccountTypeSaving {
		if to.UserID != from.UserID || to.Type != models.AccountTypeCheque {
			return nil, ErrSavingRestricted
		}
	}

	// Fast failure before taking any locks; the authoritative check happens
	// again under the row lock below.
	if from.Balance.Cmp(amount) < 0 {
		return nil, account.ErrInsufficientBalance
	}

	record := &models.Transaction{
		Type:        models.TransactionTypeTransfer,
		Amount:      amount,
		Description: description,
		Reference:   uuid.NewString(),
	}

	err = s.repo.ExecuteInTransaction(func(tx repositories.AccountRepository) error {
		// Lock both rows in ascending id order so two opposing transfers on
		// the same pair can never deadlock.
		src, dst, err := lockPair(tx, from.ID, to.ID)
		if err != nil {
			return err
		}

		if src.Balance.Cmp(amount) < 0 {
			return account.ErrInsufficientBalance
		}
		src.Balance = src.Balance.Sub(amount)
		dst.Balance = dst.Balance.Add(amount)

		if err := tx.Update(src); err != nil {
			return err
		}
		if err := tx.Update(dst); err != nil {
			return err
		}

		record.FromAccountID = &src.ID
		record.ToAccountID = &dst.ID
		return tx.AppendTransaction(record)
	})
	if err != nil {
		switch {
		case errors.Is(err, account.ErrInsufficientBalance):
			return nil, account.ErrInsufficientBalance
		case errors.Is(err, repositories.ErrAccountNotFound):
			return nil, account.ErrAccountNotFound
		default:
			return nil, fmt.Errorf("transfer failed: %w", err)
		}
	}

	s.invalidate(ctx, from, to)
	return record, nil
}

// lockPair acquires row locks on both accounts in ascending id order and
// returns them as (source, destination).
func lockPair(tx repositories.AccountRepository, fromID, toID uint) (*models.Account, *models.Account, error) {
	firstID, secondID := fromID, toID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	first, err := tx.GetForUpdate(firstID)
	if err != nil {
		return nil, nil, err
	}
	second, err := tx.GetForUpdate(secondID)
	if err != nil {
		return nil, nil, err
	}

	if first.ID == fromID {
		return first, second, nil
	}
	return second, first, nil
}

func (s *service) invalidate(ctx context.Context, accts ...*models.Account) {
	if s.cache == nil {
		return
	}
	for _, acct := range accts {
		_ = s.cache.InvalidateAccount(ctx, acct)
	}
}

func sideError(side string, err error) error {
	if errors.Is(err, repositories.ErrAccountNotFound) {
		return fmt.Errorf("%s account: %w", side, account.ErrAccountNotFound)
	}
	return fmt.Errorf("%s account lookup: %w", side, err)
}
