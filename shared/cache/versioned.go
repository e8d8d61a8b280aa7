package cache

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

const versionSuffix = ":version"

// versioned tags a cached payload with the key version current when the payload was loaded.
// Writers bump the version after commit, so a payload loaded before a write is never served
// after it, even when its save lands after the invalidation.
type versioned[T any] struct {
	Version int64 `json:"version"`
	Data    T     `json:"data"`
}

func versionKey(key string) string {
	return key + versionSuffix
}

// currentVersion reports false when the version cannot be read; callers must then neither
// serve nor save an entry.
func currentVersion(ctx context.Context, c RedisCache, key string) (int64, bool) {
	var version int64

	err := c.Get(ctx, versionKey(key), &version)

	switch {
	case err == nil:
		return version, true
	case errors.Is(err, Nil):
		return 0, true
	default:
		log.Warn().Err(err).Str("key", key).Msg("failed to read cache version")

		return 0, false
	}
}

// ReadThrough serves key from the cache when its entry matches the current version, and
// otherwise loads it and saves it under the version read before loading. A ttl of zero or less
// disables caching.
func ReadThrough[T any](ctx context.Context, c RedisCache, key string, ttl int, load func(context.Context) (T, error)) (T, error) {
	if ttl <= 0 {
		return load(ctx) //nolint:wrapcheck
	}

	version, ok := currentVersion(ctx, c, key)
	if ok {
		var entry versioned[T]
		if err := c.Get(ctx, key, &entry); err == nil && entry.Version == version {
			log.Debug().Str("cacheKey", key).Int64("version", version).Msg("cache hit")

			return entry.Data, nil
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err //nolint:wrapcheck
	}

	if !ok {
		return value, nil
	}

	if err = c.Save(ctx, key, versioned[T]{Version: version, Data: value}, ttl); err != nil {
		log.Warn().Err(err).Str("cacheKey", key).Msg("failed to save cache entry")
	}

	return value, nil
}

// Invalidate retires every entry of key saved so far. The version outlives the entries it
// guards so an expired version cannot resurrect an older one.
func Invalidate(ctx context.Context, c RedisCache, key string, ttl int) error {
	if ttl > 0 {
		if _, err := c.Bump(ctx, versionKey(key), 2*ttl); err != nil {
			return err //nolint:wrapcheck
		}
	}

	return c.Delete(ctx, key) //nolint:wrapcheck
}
