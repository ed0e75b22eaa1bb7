// Copyright (c) 2025 Mamajin.
// Licensed under the MIT License. See LICENSE.

// Package cache holds the optional Redis copy of vote tallies.
// The database stays authoritative. Each question has a generation counter
// that every vote write increments; entries live under the generation they
// were read at and expire after a TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Mamajin/ku-polls/models"
)

// DefaultTTL caps how long a tally may be served from cache
const DefaultTTL = 30 * time.Second

type RedisTallyCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisTallyCache connects to url (redis://...) and pings it
func NewRedisTallyCache(ctx context.Context, url string, ttl time.Duration) (*RedisTallyCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisTallyCacheFromClient(rdb, ttl), nil
}

func NewRedisTallyCacheFromClient(rdb *redis.Client, ttl time.Duration) *RedisTallyCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisTallyCache{rdb: rdb, ttl: ttl, prefix: "kupolls:tally:"}
}

func (c *RedisTallyCache) key(questionID, generation int64) string {
	return c.prefix + strconv.FormatInt(questionID, 10) + ":" + strconv.FormatInt(generation, 10)
}

// genKey never expires; a reset counter could revive an old entry
func (c *RedisTallyCache) genKey(questionID int64) string {
	return c.prefix + "gen:" + strconv.FormatInt(questionID, 10)
}

// Generation returns the question's current generation, 0 if never bumped
func (c *RedisTallyCache) Generation(ctx context.Context, questionID int64) (int64, error) {
	gen, err := c.rdb.Get(ctx, c.genKey(questionID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read tally generation: %w", err)
	}
	return gen, nil
}

// Get returns the tally cached at generation; found is false on a miss
func (c *RedisTallyCache) Get(ctx context.Context, questionID, generation int64) ([]models.ChoiceTally, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(questionID, generation)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read tally cache: %w", err)
	}

	var tally []models.ChoiceTally
	if err := json.Unmarshal(raw, &tally); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached tally: %w", err)
	}
	return tally, true, nil
}

func (c *RedisTallyCache) Set(ctx context.Context, questionID, generation int64, tally []models.ChoiceTally) error {
	raw, err := json.Marshal(tally)
	if err != nil {
		return fmt.Errorf("failed to encode tally: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key(questionID, generation), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write tally cache: %w", err)
	}
	return nil
}

// Bump retires every entry of the question by moving to a new generation
func (c *RedisTallyCache) Bump(ctx context.Context, questionID int64) error {
	if err := c.rdb.Incr(ctx, c.genKey(questionID)).Err(); err != nil {
		return fmt.Errorf("failed to bump tally generation: %w", err)
	}
	return nil
}

func (c *RedisTallyCache) Close() error {
	return c.rdb.Close()
}
