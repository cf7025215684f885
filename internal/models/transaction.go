package models

import (
	"time"
)

// TransactionType classifies ledger entries.
type TransactionType string

const (
	TransactionTypeTransfer   TransactionType = "transfer"
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeTransfer, TransactionTypeDeposit, TransactionTypeWithdrawal:
		return true
	}
	return false
}

// Transaction is one immutable ledger entry. Records are only ever appended;
// no update or delete path exists, which is why the model carries no
// UpdatedAt. IDs are assigned by the store in append order and define the
// total order of the ledger.
//
// FromAccountID is nil for deposits and ToAccountID is nil for withdrawals.
// Transfers always carry both sides.
type Transaction struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Type          TransactionType `gorm:"size:10;not null" json:"transaction_type"`
	FromAccountID *uint           `gorm:"index" json:"from_account,omitempty"`
	ToAccountID   *uint           `gorm:"index" json:"to_account,omitempty"`
	Amount        Money           `gorm:"not null" json:"amount"`
	Description   string          `json:"description,omitempty"`
	Reference     string          `gorm:"uniqueIndex;size:36" json:"reference"`
	CreatedAt     time.Time       `json:"created_at"`
}
