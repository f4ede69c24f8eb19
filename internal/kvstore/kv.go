// Package kvstore abstracts the flat key-value substrate the diary server
// persists into. Keys hold either a scalar string, a field mapping, or an
// ordered append-only list, with optional per-key expiry and prefix-pattern
// enumeration.
package kvstore

import (
	"context"
	"time"
)

// Store is the consumed key-value interface. Implementations must return
// common.ErrorNotFound for Get/HGet on an absent key or field; collection
// reads (HGetAll, ListRange, ScanKeys) return empty results instead.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	HGet(ctx context.Context, key string, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HSet(ctx context.Context, key string, fields map[string]string) error

	ListAppend(ctx context.Context, key string, values ...string) error
	ListRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ListLen(ctx context.Context, key string) (int64, error)

	// ScanKeys enumerates keys matching a glob-style pattern such as
	// "chat:ana:*". Order is unspecified.
	ScanKeys(ctx context.Context, pattern string) ([]string, error)

	Expire(ctx context.Context, key string, ttl time.Duration) error

	Ping(ctx context.Context) error
	Close() error
}
