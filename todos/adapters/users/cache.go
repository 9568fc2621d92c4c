// Package users serves user lookups for the todos service, optionally through
// a Redis cache-aside layer.
package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"todo-tracker/todos/core"
)

const (
	keyPrefix     = "users:"
	lookupTimeout = 5 * time.Second
)

// Cache wraps a core.Users source. Misses for the same id share one lookup.
type Cache struct {
	log    *slog.Logger
	next   core.Users
	client *redis.Client
	ttl    time.Duration

	group singleflight.Group
}

func NewCache(log *slog.Logger, next core.Users, client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{
		log:    log,
		next:   next,
		client: client,
		ttl:    ttl,
	}
}

func cacheKey(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

func (c *Cache) GetUser(ctx context.Context, id int64) (core.User, error) {
	key := cacheKey(id)

	u, found, err := c.get(ctx, key)
	if err != nil {
		// redis trouble must not break assignments
		c.log.Warn("users cache get failed", "key", key, "error", err)
	}
	if found {
		return u, nil
	}

	// the shared lookup outlives any single caller
	ch := c.group.DoChan(key, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()

		u, err := c.next.GetUser(lctx, id)
		if err != nil {
			return core.User{}, err
		}
		if err := c.set(lctx, key, u); err != nil {
			c.log.Warn("users cache set failed", "key", key, "error", err)
		}
		return u, nil
	})

	select {
	case <-ctx.Done():
		return core.User{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return core.User{}, r.Err
		}
		return r.Val.(core.User), nil
	}
}

func (c *Cache) get(ctx context.Context, key string) (core.User, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return core.User{}, false, nil
		}
		return core.User{}, false, fmt.Errorf("users cache get: %w", err)
	}

	var u core.User
	if err := json.Unmarshal(data, &u); err != nil {
		return core.User{}, false, fmt.Errorf("users cache unmarshal: %w", err)
	}
	return u, true, nil
}

func (c *Cache) set(ctx context.Context, key string, u core.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("users cache marshal: %w", err)
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// NewRedisClient connects to Redis and checks the connection.
func NewRedisClient(ctx context.Context, address, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         address,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", address, err)
	}
	return client, nil
}
