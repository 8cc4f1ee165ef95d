package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/pet-adoption-service/internal/domain"
)

const roleCachePrefix = "authz:role:"

// CachedRole is the role-resolution result kept in Redis.
type CachedRole struct {
	Role   domain.Role `json:"role"`
	Banned bool        `json:"banned"`
}

// RoleCache keeps resolved roles in Redis for a short TTL. Caching is only
// safe because every role or ban mutation calls Invalidate synchronously;
// the user store remains the source of truth on every miss.
type RoleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRoleCache builds a cache. A nil client or zero TTL disables caching.
func NewRoleCache(client *redis.Client, ttl time.Duration) *RoleCache {
	return &RoleCache{client: client, ttl: ttl}
}

// Get returns the cached role for an email, if present.
func (c *RoleCache) Get(ctx context.Context, email string) (*CachedRole, bool) {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return nil, false
	}
	raw, err := c.client.Get(ctx, roleCachePrefix+email).Result()
	if err != nil {
		return nil, false
	}
	var cached CachedRole
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, false
	}
	return &cached, true
}

// Set stores the resolved role. Failures are ignored; the cache is advisory.
func (c *RoleCache) Set(ctx context.Context, email string, role CachedRole) {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(role)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, roleCachePrefix+email, raw, c.ttl).Err()
}

// Invalidate drops the cached entry so a role or ban change is observed on
// the next request.
func (c *RoleCache) Invalidate(ctx context.Context, email string) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Del(ctx, roleCachePrefix+email).Err()
}
