package transfer

import (
	"context"

	"corebank/internal/models"
)

// DebitPolicy decides whether a principal may draw funds from an account.
// Keeping the decision behind an interface keeps authorization logic out of
// the transfer algorithm itself.
type DebitPolicy interface {
	MayDebit(ctx context.Context, principalID uint, from *models.Account) error
}

// OwnerPolicy permits debits only by the account's owner.
type OwnerPolicy struct{}

func (OwnerPolicy) MayDebit(_ context.Context, principalID uint, from *models.Account) error {
	if from.UserID != principalID {
		return ErrUnauthorized
	}
	return nil
}

// Cache is notified after a transfer commits so stale account entries are
// dropped. Optional.
type Cache interface {
	InvalidateAccount(ctx context.Context, acct *models.Account) error
}

// Service moves funds between accounts as a single atomic unit.
type Service interface {
	// Execute validates, debits the source, credits the destination and
	// appends exactly one ledger record, all of it or none of it. The
	// returned Transaction is the appended record; callers wanting fresh
	// balances must re-read the account store.
	Execute(ctx context.Context, principalID uint, fromNumber, toNumber string, amount models.Money, description string) (*models.Transaction, error)
}
