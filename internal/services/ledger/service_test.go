package ledger

import (
	"context"
	"testing"

	"corebank/internal/models"
	"corebank/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAccount(t *testing.T, store *repositories.MemoryStore, number string) *models.Account {
	t.Helper()
	acct := &models.Account{UserID: 1, Number: number, Type: models.AccountTypeCheque}
	require.NoError(t, store.Create(acct))
	return acct
}

func TestAppend(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewService(store)

	acct := seedAccount(t, store, "10000001")
	other := seedAccount(t, store, "10000002")

	record, err := svc.Append(ctx, &models.Transaction{
		Type:        models.TransactionTypeDeposit,
		ToAccountID: &acct.ID,
		Amount:      models.FromCents(5000),
		Description: "opening balance",
	})
	require.NoError(t, err)
	assert.NotZero(t, record.ID)
	assert.False(t, record.CreatedAt.IsZero())
	assert.NotEmpty(t, record.Reference)

	// A supplied reference is kept as-is.
	record, err = svc.Append(ctx, &models.Transaction{
		Type:          models.TransactionTypeTransfer,
		FromAccountID: &acct.ID,
		ToAccountID:   &other.ID,
		Amount:        models.FromCents(100),
		Reference:     "external-ref",
	})
	require.NoError(t, err)
	assert.Equal(t, "external-ref", record.Reference)
}

func TestAppendValidation(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewService(store)

	acct := seedAccount(t, store, "10000001")

	tests := []struct {
		name   string
		record *models.Transaction
	}{
		{name: "nil record", record: nil},
		{name: "unknown type", record: &models.Transaction{Type: "chargeback", ToAccountID: &acct.ID, Amount: 100}},
		{name: "zero amount", record: &models.Transaction{Type: models.TransactionTypeDeposit, ToAccountID: &acct.ID, Amount: 0}},
		{name: "negative amount", record: &models.Transaction{Type: models.TransactionTypeDeposit, ToAccountID: &acct.ID, Amount: -100}},
		{name: "transfer without source", record: &models.Transaction{Type: models.TransactionTypeTransfer, ToAccountID: &acct.ID, Amount: 100}},
		{name: "transfer without destination", record: &models.Transaction{Type: models.TransactionTypeTransfer, FromAccountID: &acct.ID, Amount: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Append(ctx, tt.record)
			assert.ErrorIs(t, err, ErrInvalidRecord)
		})
	}

	records, err := store.ListTransactionsFor(acct.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAppendAssignsMonotonicIDs(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewService(store)

	acct := seedAccount(t, store, "10000001")

	var lastID uint
	for i := 0; i < 10; i++ {
		record, err := svc.Append(ctx, &models.Transaction{
			Type:        models.TransactionTypeDeposit,
			ToAccountID: &acct.ID,
			Amount:      models.FromCents(100),
		})
		require.NoError(t, err)
		assert.Greater(t, record.ID, lastID)
		lastID = record.ID
	}
}

func TestListFor(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewService(store)

	acct := seedAccount(t, store, "10000001")
	other := seedAccount(t, store, "10000002")

	for i := 0; i < 3; i++ {
		_, err := svc.Append(ctx, &models.Transaction{
			Type:        models.TransactionTypeDeposit,
			ToAccountID: &acct.ID,
			Amount:      models.FromCents(100),
		})
		require.NoError(t, err)
	}
	_, err := svc.Append(ctx, &models.Transaction{
		Type:          models.TransactionTypeTransfer,
		FromAccountID: &acct.ID,
		ToAccountID:   &other.ID,
		Amount:        models.FromCents(50),
	})
	require.NoError(t, err)

	// Sender and receiver both see the transfer.
	records, err := svc.ListFor(ctx, acct.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, records, 4)

	records, err = svc.ListFor(ctx, other.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.TransactionTypeTransfer, records[0].Type)

	// Oldest first.
	records, err = svc.ListFor(ctx, acct.ID, 0, 0)
	require.NoError(t, err)
	for i := 1; i < len(records); i++ {
		assert.Greater(t, records[i].ID, records[i-1].ID)
	}
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, clampLimit(0))
	assert.Equal(t, DefaultLimit, clampLimit(-5))
	assert.Equal(t, 10, clampLimit(10))
	assert.Equal(t, MaxLimit, clampLimit(MaxLimit+1))
}
