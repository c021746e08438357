package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/edulink/school-system/internal/core/domain"
)

const accountCacheTTL = 30 * time.Second

// AccountCache holds short-lived account snapshots so the hot
// per-request account lookup does not hit MongoDB every time.
// The TTL bounds how long a revocation or lockout can go unnoticed;
// Invalidate is called on logout and lockout to shrink that window
// to zero for the common cases.
// Key format: account:<username>
type AccountCache struct {
	client *redis.Client
}

// NewAccountCache creates an AccountCache wrapping the given Redis client.
func NewAccountCache(client *redis.Client) *AccountCache {
	return &AccountCache{client: client}
}

// Get returns the cached account snapshot for username, if present.
func (c *AccountCache) Get(ctx context.Context, username string) (*domain.Account, bool, error) {
	raw, err := c.client.Get(ctx, c.key(username)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("account cache get: %w", err)
	}

	var account domain.Account
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil, false, fmt.Errorf("account cache decode: %w", err)
	}
	return &account, true, nil
}

// Put stores an account snapshot (expires after accountCacheTTL).
func (c *AccountCache) Put(ctx context.Context, account *domain.Account) error {
	raw, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("account cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(account.Username), raw, accountCacheTTL).Err()
}

// Invalidate drops the cached snapshot for username.
func (c *AccountCache) Invalidate(ctx context.Context, username string) error {
	return c.client.Del(ctx, c.key(username)).Err()
}

func (c *AccountCache) key(username string) string {
	return fmt.Sprintf("account:%s", username)
}
