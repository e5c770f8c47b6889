package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// loadTimeout bounds a shared cache fill, which runs detached from the
// caller that started it.
const loadTimeout = 5 * time.Second

// CachedRepository serves FindByID from Redis and collapses concurrent misses.
// Writes go to the wrapped repository and evict the cached entry.
type CachedRepository struct {
	Repository
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
	// evictions advances on every eviction; a fill that saw an eviction
	// while loading skips its write. writeMu orders fills against evictions.
	evictions atomic.Uint64
	writeMu   sync.Mutex
}

type cachedUser struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"hashed_password"`
	Created        time.Time `json:"created"`
	Updated        time.Time `json:"updated"`
}

// NewCachedRepository wraps repo. A nil client disables caching.
func NewCachedRepository(repo Repository, client *redis.Client, ttl time.Duration) *CachedRepository {
	return &CachedRepository{Repository: repo, client: client, ttl: ttl}
}

// FindByID returns the cached user or loads it from the wrapped repository.
func (c *CachedRepository) FindByID(ctx context.Context, id string) (*User, error) {
	if c.client == nil {
		return c.Repository.FindByID(ctx, id)
	}
	key := profileKey(id)
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var entry cachedUser
		if err := json.Unmarshal(payload, &entry); err == nil {
			user := User(entry)
			return &user, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return c.Repository.FindByID(ctx, id)
	}

	ch := c.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		generation := c.evictions.Load()
		user, err := c.Repository.FindByID(loadCtx, id)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(cachedUser(*user))
		if err != nil {
			return nil, err
		}
		c.writeMu.Lock()
		defer c.writeMu.Unlock()
		if c.evictions.Load() == generation {
			// A failed write only costs the next lookup a database round trip.
			_ = c.client.Set(loadCtx, key, raw, c.ttl).Err()
		}
		return user, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		user := *res.Val.(*User)
		return &user, nil
	}
}

// Update writes through and evicts the cached entry.
func (c *CachedRepository) Update(ctx context.Context, user User) error {
	if err := c.Repository.Update(ctx, user); err != nil {
		return err
	}
	return c.evict(ctx, user.ID)
}

// Delete removes the user and evicts the cached entry.
func (c *CachedRepository) Delete(ctx context.Context, id string) error {
	if err := c.Repository.Delete(ctx, id); err != nil {
		return err
	}
	return c.evict(ctx, id)
}

func (c *CachedRepository) evict(ctx context.Context, id string) error {
	if c.client == nil {
		return nil
	}
	key := profileKey(id)
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.evictions.Add(1)
	c.group.Forget(key)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("users: cache evict: %w", err)
	}
	return nil
}

func profileKey(id string) string {
	return "users:profile:" + id
}

var _ Repository = (*CachedRepository)(nil)
