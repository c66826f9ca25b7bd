// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/unimart/internal/platform/constants"
	"github.com/taibuivan/unimart/pkg/pagination"
)

// scanBatch is the COUNT hint for SCAN during invalidation.
const scanBatch = 100

// RedisSearchCache implements [SearchCache] on Redis.
//
// Only public search pages are cached. Entries hold no per-user data and
// expire after the configured TTL even if an invalidation is missed.
type RedisSearchCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisSearchCache creates a cache whose entries live for ttl.
func NewRedisSearchCache(client redis.UniversalClient, ttl time.Duration) *RedisSearchCache {
	return &RedisSearchCache{client: client, ttl: ttl}
}

// Get implements [SearchCache].
func (cache *RedisSearchCache) Get(context context.Context, filter Filter, page pagination.Params) (*Page, bool, error) {
	payload, err := cache.client.Get(context, SearchKey(filter, page)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis_search_cache_get_failed: %w", err)
	}

	var result Page
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("redis_search_cache_decode_failed: %w", err)
	}
	return &result, true, nil
}

// Set implements [SearchCache].
func (cache *RedisSearchCache) Set(context context.Context, filter Filter, page pagination.Params, result *Page) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("redis_search_cache_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, SearchKey(filter, page), payload, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis_search_cache_set_failed: %w", err)
	}
	return nil
}

// Invalidate implements [SearchCache] by unlinking every key under the search prefix.
func (cache *RedisSearchCache) Invalidate(context context.Context) error {
	iterator := cache.client.Scan(context, 0, constants.RedisPrefixListingSearch+"*", scanBatch).Iterator()

	var batch []string
	for iterator.Next(context) {
		batch = append(batch, iterator.Val())
		if len(batch) == scanBatch {
			if err := cache.client.Unlink(context, batch...).Err(); err != nil {
				return fmt.Errorf("redis_search_cache_invalidate_failed: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iterator.Err(); err != nil {
		return fmt.Errorf("redis_search_cache_scan_failed: %w", err)
	}

	if len(batch) > 0 {
		if err := cache.client.Unlink(context, batch...).Err(); err != nil {
			return fmt.Errorf("redis_search_cache_invalidate_failed: %w", err)
		}
	}
	return nil
}

/*
SearchKey derives the cache key for one search page.

Equivalent filters map to the same key regardless of category order or keyword
case. The filter is hashed so arbitrary user input never reaches the key space.

Example:

	market:listing_search:9f86d081884c7d65...
*/
func SearchKey(filter Filter, page pagination.Params) string {
	categories := make([]string, len(filter.Categories))
	for i, category := range filter.Categories {
		categories[i] = string(category)
	}
	slices.Sort(categories)
	categories = slices.Compact(categories)

	canonical := strings.Join([]string{
		strings.ToLower(filter.Query),
		strings.Join(categories, ","),
		filter.SellerID,
		strconv.Itoa(page.Page),
		strconv.Itoa(page.Limit),
	}, "\x1f")

	sum := sha256.Sum256([]byte(canonical))
	return constants.RedisPrefixListingSearch + hex.EncodeToString(sum[:])
}
