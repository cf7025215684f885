package repositories

import (
	"sync"
	"time"

	"corebank/internal/models"
)

// MemoryUserStore is the in-memory UserRepository companion to MemoryStore.
type MemoryUserStore struct {
	mu      sync.Mutex
	users   map[uint]*models.User
	byEmail map[string]uint
	byName  map[string]uint
	nextID  uint
}

// NewMemoryUserStore creates an empty in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users:   make(map[uint]*models.User),
		byEmail: make(map[string]uint),
		byName:  make(map[string]uint),
		nextID:  1,
	}
}

func (s *MemoryUserStore) Create(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[user.Email]; taken {
		return ErrDuplicateEmail
	}
	if _, taken := s.byName[user.Username]; taken {
		return ErrDuplicateUsername
	}
	user.ID = s.nextID
	s.nextID++
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.TokenVersion == 0 {
		user.TokenVersion = 1
	}

	cp := *user
	s.users[cp.ID] = &cp
	s.byEmail[cp.Email] = cp.ID
	s.byName[cp.Username] = cp.ID
	return nil
}

func (s *MemoryUserStore) GetByID(id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *user
	return &cp, nil
}

func (s *MemoryUserStore) GetByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

func (s *MemoryUserStore) Update(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[user.ID]
	if !ok {
		return ErrUserNotFound
	}
	delete(s.byEmail, stored.Email)
	delete(s.byName, stored.Username)

	cp := *user
	cp.UpdatedAt = time.Now()
	s.users[cp.ID] = &cp
	s.byEmail[cp.Email] = cp.ID
	s.byName[cp.Username] = cp.ID
	return nil
}

func (s *MemoryUserStore) IncrementTokenVersion(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	user.TokenVersion++
	user.UpdatedAt = time.Now()
	return nil
}
