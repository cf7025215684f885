package repositories

import (
	"sort"
	"sync"
	"time"

	"corebank/internal/models"
)

// MemoryStore is an in-memory AccountRepository used by tests and by
// database-less development runs (STORE=memory). A single mutex serializes
// every operation, and ExecuteInTransaction stages its work on a deep copy
// that is swapped in only on success, so failed units of work roll back
// completely and intermediate states are never observable.
type MemoryStore struct {
	mu    sync.Mutex
	state *memoryState
}

type memoryState struct {
	accounts   map[uint]*models.Account
	numbers    map[string]uint
	ledger     []models.Transaction
	nextAcctID uint
	nextTxID   uint
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newMemoryState()}
}

func newMemoryState() *memoryState {
	return &memoryState{
		accounts:   make(map[uint]*models.Account),
		numbers:    make(map[string]uint),
		nextAcctID: 1,
		nextTxID:   1,
	}
}

func (st *memoryState) clone() *memoryState {
	c := &memoryState{
		accounts:   make(map[uint]*models.Account, len(st.accounts)),
		numbers:    make(map[string]uint, len(st.numbers)),
		ledger:     make([]models.Transaction, len(st.ledger)),
		nextAcctID: st.nextAcctID,
		nextTxID:   st.nextTxID,
	}
	for id, acct := range st.accounts {
		cp := *acct
		c.accounts[id] = &cp
	}
	for number, id := range st.numbers {
		c.numbers[number] = id
	}
	// Ledger records are immutable once appended, so the shallow copy is safe.
	copy(c.ledger, st.ledger)
	return c
}

func (s *MemoryStore) Create(acct *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.create(acct)
}

func (s *MemoryStore) GetByID(id uint) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.getByID(id)
}

func (s *MemoryStore) GetByNumber(number string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.getByNumber(number)
}

// GetForUpdate is equivalent to GetByID here: the store mutex already
// serializes the enclosing unit of work.
func (s *MemoryStore) GetForUpdate(id uint) (*models.Account, error) {
	return s.GetByID(id)
}

func (s *MemoryStore) ListByUser(userID uint) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.listByUser(userID)
}

func (s *MemoryStore) Update(acct *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.update(acct)
}

func (s *MemoryStore) Delete(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.delete(id)
}

func (s *MemoryStore) AppendTransaction(tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.appendTransaction(tx)
}

func (s *MemoryStore) ListTransactionsFor(accountID uint, limit, offset int) ([]models.Transaction, error) {
	return s.ListTransactionsForAccounts([]uint{accountID}, limit, offset)
}

func (s *MemoryStore) ListTransactionsForAccounts(accountIDs []uint, limit, offset int) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.listTransactions(accountIDs, limit, offset)
}

func (s *MemoryStore) ExecuteInTransaction(fn func(AccountRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.state.clone()
	if err := fn(&memoryTx{state: staged}); err != nil {
		return err
	}
	s.state = staged
	return nil
}

// memoryTx is the transaction-scoped view handed to ExecuteInTransaction
// callbacks. It operates on the staged state without further locking.
type memoryTx struct {
	state *memoryState
}

func (t *memoryTx) Create(acct *models.Account) error { return t.state.create(acct) }

func (t *memoryTx) GetByID(id uint) (*models.Account, error) { return t.state.getByID(id) }

func (t *memoryTx) GetForUpdate(id uint) (*models.Account, error) { return t.state.getByID(id) }

func (t *memoryTx) GetByNumber(number string) (*models.Account, error) {
	return t.state.getByNumber(number)
}

func (t *memoryTx) ListByUser(userID uint) ([]models.Account, error) {
	return t.state.listByUser(userID)
}

func (t *memoryTx) Update(acct *models.Account) error { return t.state.update(acct) }

func (t *memoryTx) Delete(id uint) error { return t.state.delete(id) }

func (t *memoryTx) AppendTransaction(tx *models.Transaction) error {
	return t.state.appendTransaction(tx)
}
func (t *memoryTx) ListTransactionsFor(accountID uint, limit, offset int) ([]models.Transaction, error) {
	return t.state.listTransactions([]uint{accountID}, limit, offset)
}
func (t *memoryTx) ListTransactionsForAccounts(accountIDs []uint, limit, offset int) ([]models.Transaction, error) {
	return t.state.listTransactions(accountIDs, limit, offset)
}

// Nested units of work join the enclosing one.
func (t *memoryTx) ExecuteInTransaction(fn func(AccountRepository) error) error {
	return fn(t)
}

func (st *memoryState) create(acct *models.Account) error {
	if _, taken := st.numbers[acct.Number]; taken {
		return ErrDuplicateNumber
	}
	acct.ID = st.nextAcctID
	st.nextAcctID++
	now := time.Now()
	acct.CreatedAt = now
	acct.UpdatedAt = now

	cp := *acct
	st.accounts[cp.ID] = &cp
	st.numbers[cp.Number] = cp.ID
	return nil
}

func (st *memoryState) getByID(id uint) (*models.Account, error) {
	acct, ok := st.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	cp := *acct
	return &cp, nil
}

func (st *memoryState) getByNumber(number string) (*models.Account, error) {
	id, ok := st.numbers[number]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return st.getByID(id)
}

func (st *memoryState) listByUser(userID uint) ([]models.Account, error) {
	out := make([]models.Account, 0)
	for _, acct := range st.accounts {
		if acct.UserID == userID {
			out = append(out, *acct)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (st *memoryState) update(acct *models.Account) error {
	stored, ok := st.accounts[acct.ID]
	if !ok {
		return ErrAccountNotFound
	}
	delete(st.numbers, stored.Number)
	cp := *acct
	cp.UpdatedAt = time.Now()
	st.accounts[cp.ID] = &cp
	st.numbers[cp.Number] = cp.ID
	return nil
}

func (st *memoryState) delete(id uint) error {
	acct, ok := st.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	delete(st.numbers, acct.Number)
	delete(st.accounts, id)
	return nil
}

func (st *memoryState) appendTransaction(tx *models.Transaction) error {
	tx.ID = st.nextTxID
	st.nextTxID++
	tx.CreatedAt = time.Now()
	st.ledger = append(st.ledger, copyTransaction(*tx))
	return nil
}

func (st *memoryState) listTransactions(accountIDs []uint, limit, offset int) ([]models.Transaction, error) {
	match := func(id *uint) bool {
		if id == nil {
			return false
		}
		for _, want := range accountIDs {
			if *id == want {
				return true
			}
		}
		return false
	}

	// The ledger is stored in append order, which is already created_at
	// ascending with id as the tie-breaker.
	out := make([]models.Transaction, 0)
	for _, tx := range st.ledger {
		if match(tx.FromAccountID) || match(tx.ToAccountID) {
			out = append(out, copyTransaction(tx))
		}
	}
	if offset > 0 {
		if offset >= len(out) {
			return []models.Transaction{}, nil
		}
		out = out[offset:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func copyTransaction(tx models.Transaction) models.Transaction {
	if tx.FromAccountID != nil {
		from := *tx.FromAccountID
		tx.FromAccountID = &from
	}
	if tx.ToAccountID != nil {
		to := *tx.ToAccountID
		tx.ToAccountID = &to
	}
	return tx
}
