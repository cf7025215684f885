package query

import (
	"context"
	"testing"

	"corebank/internal/models"
	"corebank/internal/repositories"
	"corebank/internal/services/account"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAccount(t *testing.T, store *repositories.MemoryStore, userID uint, number string, balance models.Money) *models.Account {
	t.Helper()
	acct := &models.Account{UserID: userID, Number: number, Type: models.AccountTypeCheque, Balance: balance}
	require.NoError(t, store.Create(acct))
	return acct
}

func seedTransfer(t *testing.T, store *repositories.MemoryStore, from, to uint, cents int64) {
	t.Helper()
	require.NoError(t, store.AppendTransaction(&models.Transaction{
		Type:          models.TransactionTypeTransfer,
		FromAccountID: &from,
		ToAccountID:   &to,
		Amount:        models.FromCents(cents),
		Reference:     "ref",
	}))
}

func TestAccounts(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewService(store)

	mine := seedAccount(t, store, 1, "10000001", models.FromCents(10000))
	seedAccount(t, store, 2, "10000002", models.FromCents(99999))

	views, err := svc.Accounts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, mine.ID, views[0].ID)
	assert.Equal(t, "10000001", views[0].Number)
	assert.Equal(t, models.FromCents(10000), views[0].Balance)

	// No accounts is an empty result, not an error.
	views, err = svc.Accounts(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestTransactionsScoping(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewService(store)

	mine := seedAccount(t, store, 1, "10000001", 0)
	alsoMine := seedAccount(t, store, 1, "10000002", 0)
	theirs := seedAccount(t, store, 2, "10000003", 0)

	seedTransfer(t, store, mine.ID, alsoMine.ID, 100)
	seedTransfer(t, store, mine.ID, theirs.ID, 200)
	seedTransfer(t, store, theirs.ID, mine.ID, 300)

	// Unscoped: everything touching any of the owner's accounts, once each.
	views, err := svc.Transactions(ctx, 1, 0, 0, 0)
	require.NoError(t, err)
	assert.Len(t, views, 3)

	// Narrowed to one owned account.
	views, err = svc.Transactions(ctx, 1, alsoMine.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, models.FromCents(100), views[0].Amount)

	// Another owner's account reads as absent.
	_, err = svc.Transactions(ctx, 1, theirs.ID, 0, 0)
	assert.ErrorIs(t, err, account.ErrAccountNotFound)

	_, err = svc.Transactions(ctx, 1, 999, 0, 0)
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestTransactionsViews(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewService(store)

	mine := seedAccount(t, store, 1, "10000001", 0)
	other := seedAccount(t, store, 2, "10000002", 0)

	seedTransfer(t, store, mine.ID, other.ID, 500)
	require.NoError(t, store.AppendTransaction(&models.Transaction{
		Type:        models.TransactionTypeDeposit,
		ToAccountID: &mine.ID,
		Amount:      models.FromCents(1000),
		Reference:   "dep",
	}))

	views, err := svc.Transactions(ctx, 1, 0, 0, 0)
	require.NoError(t, err)
	require.Len(t, views, 2)

	xfer := views[0]
	assert.Equal(t, models.TransactionTypeTransfer, xfer.Type)
	require.NotNil(t, xfer.From)
	require.NotNil(t, xfer.To)
	assert.Equal(t, "10000001", xfer.From.Number)
	assert.Equal(t, "10000002", xfer.To.Number)
	assert.False(t, xfer.CreatedAt.IsZero())

	dep := views[1]
	assert.Equal(t, models.TransactionTypeDeposit, dep.Type)
	assert.Nil(t, dep.From)
	require.NotNil(t, dep.To)
}

func TestTransactionsDeletedCounterparty(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewService(store)

	mine := seedAccount(t, store, 1, "10000001", 0)
	gone := seedAccount(t, store, 2, "10000002", 0)

	seedTransfer(t, store, mine.ID, gone.ID, 500)
	require.NoError(t, store.Delete(gone.ID))

	views, err := svc.Transactions(ctx, 1, 0, 0, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)

	// Ledger history survives counterparty deletion; only the number is lost.
	require.NotNil(t, views[0].To)
	assert.Equal(t, gone.ID, views[0].To.ID)
	assert.Empty(t, views[0].To.Number)
}

func TestTransactionsPagination(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewService(store)

	mine := seedAccount(t, store, 1, "10000001", 0)
	for i := 0; i < 7; i++ {
		require.NoError(t, store.AppendTransaction(&models.Transaction{
			Type:        models.TransactionTypeDeposit,
			ToAccountID: &mine.ID,
			Amount:      models.FromCents(100),
		}))
	}

	first, err := svc.Transactions(ctx, 1, 0, 3, 0)
	require.NoError(t, err)
	second, err := svc.Transactions(ctx, 1, 0, 3, 3)
	require.NoError(t, err)
	require.Len(t, first, 3)
	require.Len(t, second, 3)
	assert.Greater(t, second[0].ID, first[2].ID)

	tail, err := svc.Transactions(ctx, 1, 0, 3, 6)
	require.NoError(t, err)
	assert.Len(t, tail, 1)
}
