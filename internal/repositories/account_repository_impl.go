package repositories

import (
	"errors"
	"fmt"

	"corebank/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates the GORM-backed account repository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(acct *models.Account) error {
	if err := r.db.Create(acct).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateNumber
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *accountRepository) GetByID(id uint) (*models.Account, error) {
	var acct models.Account
	if err := r.db.First(&acct, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &acct, nil
}

func (r *accountRepository) GetByNumber(number string) (*models.Account, error) {
	var acct models.Account
	if err := r.db.Where("number = ?", number).First(&acct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &acct, nil
}

func (r *accountRepository) GetForUpdate(id uint) (*models.Account, error) {
	var acct models.Account
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&acct, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	return &acct, nil
}

func (r *accountRepository) ListByUser(userID uint) ([]models.Account, error) {
	var accts []models.Account
	err := r.db.Where("user_id = ?", userID).Order("id").Find(&accts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accts, nil
}

func (r *accountRepository) Update(acct *models.Account) error {
	result := r.db.Save(acct)
	if result.Error != nil {
		return fmt.Errorf("failed to update account: %w", result.Error)
	}
	return nil
}

func (r *accountRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Account{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *accountRepository) AppendTransaction(tx *models.Transaction) error {
	if err := r.db.Create(tx).Error; err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

func (r *accountRepository) ListTransactionsFor(accountID uint, limit, offset int) ([]models.Transaction, error) {
	return r.listTransactions(
		r.db.Where("from_account_id = ? OR to_account_id = ?", accountID, accountID),
		limit, offset,
	)
}

func (r *accountRepository) ListTransactionsForAccounts(accountIDs []uint, limit, offset int) ([]models.Transaction, error) {
	if len(accountIDs) == 0 {
		return []models.Transaction{}, nil
	}
	return r.listTransactions(
		r.db.Where("from_account_id IN ? OR to_account_id IN ?", accountIDs, accountIDs),
		limit, offset,
	)
}

func (r *accountRepository) listTransactions(q *gorm.DB, limit, offset int) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := q.Order("created_at").Order("id").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, nil
}

func (r *accountRepository) ExecuteInTransaction(fn func(AccountRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&accountRepository{db: tx})
	})
}
