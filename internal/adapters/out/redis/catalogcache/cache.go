// Package catalogcache is a read-through redis cache in front of a ports.Catalog.
// Entries expire after the configured TTL; cache failures fall through to the
// wrapped catalog.
package catalogcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dormeal/internal/core/domain/model/catalog"
	"dormeal/internal/core/domain/model/kernel"
	"dormeal/internal/core/ports"
	"dormeal/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "dormeal:catalog:"

type Cache struct {
	next   ports.Catalog
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

var _ ports.Catalog = (*Cache)(nil)

func New(next ports.Catalog, client *redis.Client, ttl time.Duration, log *zap.Logger) (*Cache, error) {
	if next == nil {
		return nil, errs.NewValueIsRequiredError("next")
	}
	if client == nil {
		return nil, errs.NewValueIsRequiredError("client")
	}
	if ttl <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("ttl", ttl, "1ns", "-")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{next: next, client: client, ttl: ttl, log: log.With(zap.String("component", "catalog_cache"))}, nil
}

func (c *Cache) Schools(ctx context.Context) ([]catalog.School, error) {
	return readThrough(ctx, c, "schools", func() ([]catalog.School, error) {
		return c.next.Schools(ctx)
	})
}

func (c *Cache) School(ctx context.Context, schoolID kernel.UUID) (catalog.School, error) {
	return readThrough(ctx, c, "school:"+schoolID.String(), func() (catalog.School, error) {
		return c.next.School(ctx, schoolID)
	})
}

func (c *Cache) Restaurants(ctx context.Context, schoolID kernel.UUID) ([]catalog.Restaurant, error) {
	return readThrough(ctx, c, "restaurants:"+schoolID.String(), func() ([]catalog.Restaurant, error) {
		return c.next.Restaurants(ctx, schoolID)
	})
}

func (c *Cache) Menu(ctx context.Context, schoolID, restaurantID kernel.UUID) (catalog.Menu, error) {
	key := fmt.Sprintf("menu:%s:%s", schoolID, restaurantID)
	return readThrough(ctx, c, key, func() (catalog.Menu, error) {
		return c.next.Menu(ctx, schoolID, restaurantID)
	})
}

// Errors from load are never cached, so a NotFound today can resolve tomorrow.
func readThrough[T any](ctx context.Context, c *Cache, key string, load func() (T, error)) (T, error) {
	key = keyPrefix + key
	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var cached T
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		c.log.Warn("dropping undecodable cache entry", zap.String("key", key))
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	}

	value, err := load()
	if err != nil {
		return value, err
	}
	if payload, err := json.Marshal(value); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.log.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return value, nil
}
