package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the small cache surface the handlers need. Backed by Redis in
// production; tests use an in-memory fake.
type Store interface {
	Set(key, value string, expiration time.Duration) error
	Get(key string) (string, error)
	Delete(key string) error
}

// Nil is returned by Get on a cache miss.
var Nil = redis.Nil

type Cache struct {
	client *redis.Client
	ctx    context.Context
}

func New(redisAddr string, db int) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr: redisAddr,
		DB:   db,
	})

	return &Cache{
		client: client,
		ctx:    context.Background(),
	}
}

func (c *Cache) Set(key string, value string, expiration time.Duration) error {
	return c.client.Set(c.ctx, key, value, expiration).Err()
}

func (c *Cache) Get(key string) (string, error) {
	return c.client.Get(c.ctx, key).Result()
}

func (c *Cache) Delete(key string) error {
	return c.client.Del(c.ctx, key).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
