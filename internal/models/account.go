package models

import (
	"time"
)

// AccountType is the closed set of supported account kinds.
type AccountType string

const (
	AccountTypeCheque AccountType = "cheque"
	AccountTypeSaving AccountType = "saving"
)

// Valid reports whether t is one of the supported account types.
func (t AccountType) Valid() bool {
	return t == AccountTypeCheque || t == AccountTypeSaving
}

// Account is a monetary account owned by a user. The balance only changes
// through the account store and the transfer engine, and is never negative.
type Account struct {
	ID        uint        `gorm:"primarykey" json:"id"`
	UserID    uint        `gorm:"index;not null" json:"-"`
	Number    string      `gorm:"uniqueIndex;size:8;not null" json:"account_number"`
	Type      AccountType `gorm:"size:10;not null;default:'cheque'" json:"account_type"`
	Balance   Money       `gorm:"not null;default:0" json:"balance"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"-"`
}
