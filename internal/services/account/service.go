package account

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"corebank/internal/models"
	"corebank/internal/repositories"

	"github.com/google/uuid"
)

// Account numbers are 8-digit numeric tokens with a non-zero leading digit.
// Collisions are handled by regenerating, not by widening the namespace.
const (
	numberMin      = 10000000
	numberSpan     = 90000000
	maxNumberTries = 10
)

type service struct {
	repo  repositories.AccountRepository
	cache Cache
}

// NewService creates a new account service. The cache is optional.
func NewService(repo repositories.AccountRepository, cache Cache) Service {
	if repo == nil {
		panic("repo is required")
	}
	return &service{repo: repo, cache: cache}
}

func (s *service) Open(ctx context.Context, userID uint, accountType models.AccountType, initialBalance models.Money) (*models.Account, error) {
	if !accountType.Valid() {
		return nil, ErrInvalidAccountType
	}
	if initialBalance.IsNegative() {
		return nil, ErrInvalidAmount
	}

	acct := &models.Account{
		UserID:  userID,
		Type:    accountType,
		Balance: initialBalance,
	}

	err := s.repo.ExecuteInTransaction(func(tx repositories.AccountRepository) error {
		number, err := s.generateNumber(tx)
		if err != nil {
			return err
		}
		acct.Number = number

		if err := tx.Create(acct); err != nil {
			return err
		}

		if initialBalance.IsPositive() {
			opening := &models.Transaction{
				Type:        models.TransactionTypeDeposit,
				ToAccountID: &acct.ID,
				Amount:      initialBalance,
				Description: "opening balance",
				Reference:   uuid.NewString(),
			}
			return tx.AppendTransaction(opening)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open account: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.CacheAccount(ctx, acct)
	}
	return acct, nil
}

func (s *service) Get(ctx context.Context, id uint) (*models.Account, error) {
	if s.cache != nil {
		if acct, err := s.cache.GetAccountByID(ctx, id); err == nil {
			return acct, nil
		}
	}

	acct, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.CacheAccount(ctx, acct)
	}
	return acct, nil
}

func (s *service) GetByNumber(ctx context.Context, number string) (*models.Account, error) {
	if s.cache != nil {
		if acct, err := s.cache.GetAccountByNumber(ctx, number); err == nil {
			return acct, nil
		}
	}

	acct, err := s.repo.GetByNumber(number)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.CacheAccount(ctx, acct)
	}
	return acct, nil
}

func (s *service) List(ctx context.Context, userID uint) ([]models.Account, error) {
	accts, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accts, nil
}

func (s *service) Update(ctx context.Context, userID, id uint, accountType models.AccountType) (*models.Account, error) {
	if !accountType.Valid() {
		return nil, ErrInvalidAccountType
	}

	var updated *models.Account
	err := s.repo.ExecuteInTransaction(func(tx repositories.AccountRepository) error {
		acct, err := tx.GetForUpdate(id)
		if err != nil {
			return err
		}
		// Someone else's account is reported as absent, never disclosed.
		if acct.UserID != userID {
			return repositories.ErrAccountNotFound
		}
		acct.Type = accountType
		if err := tx.Update(acct); err != nil {
			return err
		}
		updated = acct
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	s.invalidate(ctx, updated)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, userID, id uint) error {
	var deleted *models.Account
	err := s.repo.ExecuteInTransaction(func(tx repositories.AccountRepository) error {
		acct, err := tx.GetForUpdate(id)
		if err != nil {
			return err
		}
		if acct.UserID != userID {
			return repositories.ErrAccountNotFound
		}
		if acct.Balance != 0 {
			return ErrAccountHasBalance
		}
		if err := tx.Delete(acct.ID); err != nil {
			return err
		}
		deleted = acct
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		if errors.Is(err, ErrAccountHasBalance) {
			return ErrAccountHasBalance
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}

	s.invalidate(ctx, deleted)
	return nil
}

func (s *service) AdjustBalance(ctx context.Context, accountID uint, delta models.Money) error {
	var adjusted *models.Account
	err := s.repo.ExecuteInTransaction(func(tx repositories.AccountRepository) error {
		acct, err := tx.GetForUpdate(accountID)
		if err != nil {
			return err
		}
		next := acct.Balance.Add(delta)
		if next.IsNegative() {
			return ErrInsufficientBalance
		}
		acct.Balance = next
		if err := tx.Update(acct); err != nil {
			return err
		}
		adjusted = acct
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		if errors.Is(err, ErrInsufficientBalance) {
			return ErrInsufficientBalance
		}
		return fmt.Errorf("failed to adjust balance: %w", err)
	}

	s.invalidate(ctx, adjusted)
	return nil
}

func (s *service) Deposit(ctx context.Context, userID uint, accountNumber string, amount models.Money, description string) (*models.Transaction, error) {
	return s.move(ctx, userID, accountNumber, amount, description, models.TransactionTypeDeposit)
}

func (s *service) Withdraw(ctx context.Context, userID uint, accountNumber string, amount models.Money, description string) (*models.Transaction, error) {
	return s.move(ctx, userID, accountNumber, amount, description, models.TransactionTypeWithdrawal)
}

// move applies a deposit or withdrawal and appends its ledger record inside
// one storage transaction.
func (s *service) move(ctx context.Context, userID uint, accountNumber string, amount models.Money, description string, txType models.TransactionType) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	record := &models.Transaction{
		Type:        txType,
		Amount:      amount,
		Description: description,
		Reference:   uuid.NewString(),
	}

	var moved *models.Account
	err := s.repo.ExecuteInTransaction(func(tx repositories.AccountRepository) error {
		acct, err := tx.GetByNumber(accountNumber)
		if err != nil {
			return err
		}
		if acct.UserID != userID {
			return repositories.ErrAccountNotFound
		}
		acct, err = tx.GetForUpdate(acct.ID)
		if err != nil {
			return err
		}

		switch txType {
		case models.TransactionTypeDeposit:
			acct.Balance = acct.Balance.Add(amount)
			record.ToAccountID = &acct.ID
		case models.TransactionTypeWithdrawal:
			if acct.Balance.Cmp(amount) < 0 {
				return ErrInsufficientBalance
			}
			acct.Balance = acct.Balance.Sub(amount)
			record.FromAccountID = &acct.ID
		}

		if err := tx.Update(acct); err != nil {
			return err
		}
		if err := tx.AppendTransaction(record); err != nil {
			return err
		}
		moved = acct
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		if errors.Is(err, ErrInsufficientBalance) {
			return nil, ErrInsufficientBalance
		}
		return nil, fmt.Errorf("failed to %s: %w", txType, err)
	}

	s.invalidate(ctx, moved)
	return record, nil
}

func (s *service) invalidate(ctx context.Context, acct *models.Account) {
	if s.cache == nil || acct == nil {
		return
	}
	_ = s.cache.InvalidateAccount(ctx, acct)
}

// generateNumber allocates an unused 8-digit account number, retrying on
// collision.
func (s *service) generateNumber(tx repositories.AccountRepository) (string, error) {
	for i := 0; i < maxNumberTries; i++ {
		number := fmt.Sprintf("%d", numberMin+rand.Int63n(numberSpan))
		_, err := tx.GetByNumber(number)
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return number, nil
		}
		if err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("could not allocate a free account number after %d attempts", maxNumberTries)
}
