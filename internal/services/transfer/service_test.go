package transfer

import (
	"context"
	"sync"
	"testing"

	"corebank/internal/models"
	"corebank/internal/repositories"
	"corebank/internal/services/account"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, s string) models.Money {
	t.Helper()
	m, err := models.ParseMoney(s)
	require.NoError(t, err)
	return m
}

// seedAccount creates an account directly in the store, bypassing number
// generation so tests can use fixed numbers.
func seedAccount(t *testing.T, store *repositories.MemoryStore, userID uint, number string, accountType models.AccountType, balance string) *models.Account {
	t.Helper()
	acct := &models.Account{
		UserID:  userID,
		Number:  number,
		Type:    accountType,
		Balance: mustMoney(t, balance),
	}
	require.NoError(t, store.Create(acct))
	return acct
}

func balanceOf(t *testing.T, store *repositories.MemoryStore, id uint) models.Money {
	t.Helper()
	acct, err := store.GetByID(id)
	require.NoError(t, err)
	return acct.Balance
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewService(store, OwnerPolicy{}, nil)

	a := seedAccount(t, store, 1, "10000001", models.AccountTypeCheque, "1000.00")
	b := seedAccount(t, store, 1, "10000002", models.AccountTypeSaving, "2000.00")

	record, err := svc.Execute(ctx, 1, a.Number, b.Number, mustMoney(t, "100.00"), "rent")
	require.NoError(t, err)

	assert.Equal(t, models.TransactionTypeTransfer, record.Type)
	assert.Equal(t, mustMoney(t, "100.00"), record.Amount)
	assert.Equal(t, "rent", record.Description)
	assert.NotEmpty(t, record.Reference)
	require.NotNil(t, record.FromAccountID)
	require.NotNil(t, record.ToAccountID)
	assert.Equal(t, a.ID, *record.FromAccountID)
	assert.Equal(t, b.ID, *record.ToAccountID)

	assert.Equal(t, mustMoney(t, "900.00"), balanceOf(t, store, a.ID))
	assert.Equal(t, mustMoney(t, "2100.00"), balanceOf(t, store, b.ID))

	records, err := store.ListTransactionsFor(a.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.ID, records[0].ID)
}

func TestExecuteRejections(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewService(store, OwnerPolicy{}, nil)

	a := seedAccount(t, store, 1, "10000001", models.AccountTypeCheque, "900.00")
	b := seedAccount(t, store, 1, "10000002", models.AccountTypeCheque, "2000.00")
	foreign := seedAccount(t, store, 2, "10000003", models.AccountTypeCheque, "500.00")

	tests := []struct {
		name    string
		from    string
		to      string
		amount  string
		wantErr error
	}{
		{name: "insufficient balance", from: a.Number, to: b.Number, amount: "5000.00", wantErr: account.ErrInsufficientBalance},
		{name: "zero amount", from: a.Number, to: b.Number, amount: "0.00", wantErr: account.ErrInvalidAmount},
		{name: "negative amount", from: a.Number, to: b.Number, amount: "-10.00", wantErr: account.ErrInvalidAmount},
		{name: "same account", from: a.Number, to: a.Number, amount: "10.00", wantErr: ErrSameAccount},
		{name: "unknown source", from: "99999999", to: b.Number, amount: "10.00", wantErr: account.ErrAccountNotFound},
		{name: "unknown destination", from: a.Number, to: "99999999", amount: "10.00", wantErr: account.ErrAccountNotFound},
		{name: "not the owner", from: foreign.Number, to: b.Number, amount: "10.00", wantErr: ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Execute(ctx, 1, tt.from, tt.to, mustMoney(t, tt.amount), "")
			assert.ErrorIs(t, err, tt.wantErr)

			// A rejected transfer leaves no trace anywhere.
			assert.Equal(t, mustMoney(t, "900.00"), balanceOf(t, store, a.ID))
			assert.Equal(t, mustMoney(t, "2000.00"), balanceOf(t, store, b.ID))
			records, err := store.ListTransactionsFor(a.ID, 0, 0)
			require.NoError(t, err)
			assert.Empty(t, records)
		})
	}
}

func TestExecuteSavingRestriction(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewService(store, OwnerPolicy{}, nil)

	saving := seedAccount(t, store, 1, "10000001", models.AccountTypeSaving, "500.00")
	ownCheque := seedAccount(t, store, 1, "10000002", models.AccountTypeCheque, "0.00")
	ownSaving := seedAccount(t, store, 1, "10000003", models.AccountTypeSaving, "0.00")
	otherCheque := seedAccount(t, store, 2, "10000004", models.AccountTypeCheque, "0.00")

	// Feeding the owner's own cheque account is the one permitted direction.
	_, err := svc.Execute(ctx, 1, saving.Number, ownCheque.Number, mustMoney(t, "100.00"), "")
	require.NoError(t, err)
	assert.Equal(t, mustMoney(t, "100.00"), balanceOf(t, store, ownCheque.ID))

	_, err = svc.Execute(ctx, 1, saving.Number, ownSaving.Number, mustMoney(t, "100.00"), "")
	assert.ErrorIs(t, err, ErrSavingRestricted)

	_, err = svc.Execute(ctx, 1, saving.Number, otherCheque.Number, mustMoney(t, "100.00"), "")
	assert.ErrorIs(t, err, ErrSavingRestricted)

	// Cheque accounts are unrestricted, including across owners.
	cheque := seedAccount(t, store, 1, "10000005", models.AccountTypeCheque, "50.00")
	_, err = svc.Execute(ctx, 1, cheque.Number, otherCheque.Number, mustMoney(t, "50.00"), "")
	require.NoError(t, err)
}

// faultyRepo injects a storage failure on the ledger append inside a unit of
// work, exercising the all-or-nothing guarantee.
type faultyRepo struct {
	repositories.AccountRepository
}

func (f *faultyRepo) ExecuteInTransaction(fn func(repositories.AccountRepository) error) error {
	return f.AccountRepository.ExecuteInTransaction(func(tx repositories.AccountRepository) error {
		return fn(&faultyRepo{AccountRepository: tx})
	})
}

func (f *faultyRepo) AppendTransaction(*models.Transaction) error {
	return repositories.ErrStorageUnavailable
}

func TestExecuteAtomicityOnStorageFailure(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewService(&faultyRepo{AccountRepository: store}, OwnerPolicy{}, nil)

	a := seedAccount(t, store, 1, "10000001", models.AccountTypeCheque, "1000.00")
	b := seedAccount(t, store, 1, "10000002", models.AccountTypeCheque, "2000.00")

	_, err := svc.Execute(ctx, 1, a.Number, b.Number, mustMoney(t, "100.00"), "doomed")
	require.Error(t, err)
	assert.ErrorIs(t, err, repositories.ErrStorageUnavailable)

	// Both balance updates rolled back with the failed append.
	assert.Equal(t, mustMoney(t, "1000.00"), balanceOf(t, store, a.ID))
	assert.Equal(t, mustMoney(t, "2000.00"), balanceOf(t, store, b.ID))

	records, err := store.ListTransactionsFor(a.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestExecuteConcurrentOpposingTransfers(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewService(store, OwnerPolicy{}, nil)

	a := seedAccount(t, store, 1, "10000001", models.AccountTypeCheque, "1000.00")
	b := seedAccount(t, store, 1, "10000002", models.AccountTypeCheque, "2000.00")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := svc.Execute(ctx, 1, a.Number, b.Number, mustMoney(t, "50.00"), "a to b")
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := svc.Execute(ctx, 1, b.Number, a.Number, mustMoney(t, "30.00"), "b to a")
		assert.NoError(t, err)
	}()
	wg.Wait()

	balA := balanceOf(t, store, a.ID)
	balB := balanceOf(t, store, b.ID)

	assert.Equal(t, mustMoney(t, "980.00"), balA)
	assert.Equal(t, mustMoney(t, "2020.00"), balB)
	assert.Equal(t, mustMoney(t, "3000.00"), balA.Add(balB))

	records, err := store.ListTransactionsFor(a.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestExecuteManyConcurrentTransfersConserveTotal(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	svc := NewService(store, OwnerPolicy{}, nil)

	a := seedAccount(t, store, 1, "10000001", models.AccountTypeCheque, "100.00")
	b := seedAccount(t, store, 1, "10000002", models.AccountTypeCheque, "100.00")

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		from, to := a.Number, b.Number
		if i%2 == 1 {
			from, to = to, from
		}
		go func() {
			defer wg.Done()
			// Drains may outrun funds; rejection is acceptable, corruption is not.
			_, err := svc.Execute(ctx, 1, from, to, mustMoney(t, "25.00"), "")
			if err != nil {
				assert.ErrorIs(t, err, account.ErrInsufficientBalance)
			}
		}()
	}
	wg.Wait()

	balA := balanceOf(t, store, a.ID)
	balB := balanceOf(t, store, b.ID)

	assert.Equal(t, mustMoney(t, "200.00"), balA.Add(balB))
	assert.True(t, balA.IsNonNegative())
	assert.True(t, balB.IsNonNegative())
}
