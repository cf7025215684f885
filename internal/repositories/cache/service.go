// Package cache provides a Redis-backed read-through cache for account
// lookups. Every balance mutation invalidates the affected entries, so the
// cache only ever serves data the store has committed.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"corebank/internal/models"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, s.ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache value: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *CacheService) Close() error {
	return s.client.Close()
}

func accountIDKey(id uint) string { return fmt.Sprintf("account:id:%d", id) }

func accountNumberKey(number string) string { return "account:number:" + number }

// cachedAccount carries every Account field. The API model hides UserID from
// JSON output, so caching the model directly would lose ownership on the
// round trip.
type cachedAccount struct {
	ID        uint               `json:"id"`
	UserID    uint               `json:"user_id"`
	Number    string             `json:"number"`
	Type      models.AccountType `json:"type"`
	Balance   models.Money       `json:"balance"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func toCached(acct *models.Account) cachedAccount {
	return cachedAccount{
		ID:        acct.ID,
		UserID:    acct.UserID,
		Number:    acct.Number,
		Type:      acct.Type,
		Balance:   acct.Balance,
		CreatedAt: acct.CreatedAt,
		UpdatedAt: acct.UpdatedAt,
	}
}

func (c cachedAccount) toModel() *models.Account {
	return &models.Account{
		ID:        c.ID,
		UserID:    c.UserID,
		Number:    c.Number,
		Type:      c.Type,
		Balance:   c.Balance,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CacheAccount stores the account under both its id and number keys.
func (s *CacheService) CacheAccount(ctx context.Context, acct *models.Account) error {
	if acct == nil {
		return errors.New("cannot cache nil account")
	}
	entry := toCached(acct)
	if err := s.Set(ctx, accountIDKey(acct.ID), entry); err != nil {
		return err
	}
	return s.Set(ctx, accountNumberKey(acct.Number), entry)
}

// GetAccountByID returns a cached account or ErrCacheMiss.
func (s *CacheService) GetAccountByID(ctx context.Context, id uint) (*models.Account, error) {
	var entry cachedAccount
	if err := s.Get(ctx, accountIDKey(id), &entry); err != nil {
		return nil, err
	}
	return entry.toModel(), nil
}

// GetAccountByNumber returns a cached account or ErrCacheMiss.
func (s *CacheService) GetAccountByNumber(ctx context.Context, number string) (*models.Account, error) {
	var entry cachedAccount
	if err := s.Get(ctx, accountNumberKey(number), &entry); err != nil {
		return nil, err
	}
	return entry.toModel(), nil
}

// InvalidateAccount drops both cache entries for the account.
func (s *CacheService) InvalidateAccount(ctx context.Context, acct *models.Account) error {
	if acct == nil {
		return nil
	}
	return s.Delete(ctx, accountIDKey(acct.ID), accountNumberKey(acct.Number))
}
