// Package cache carries the key formats and the coarse prefix invalidation
// discipline shared by every cached read path.
package cache

import (
	"context"
	"log/slog"

	"orderdesk/internal/domain/service"
)

// Invalidator drops cache entries by key prefix after writes. Failures are
// logged and swallowed: the database is the source of truth and stale entries
// expire on their own TTL, so a broken cache must not fail the write that
// already committed.
type Invalidator struct {
	store  service.CacheStore
	logger *slog.Logger
}

// NewInvalidator creates the prefix invalidator.
func NewInvalidator(store service.CacheStore, logger *slog.Logger) *Invalidator {
	return &Invalidator{store: store, logger: logger}
}

// DropPrefixes deletes every key under each of the given prefixes.
func (i *Invalidator) DropPrefixes(ctx context.Context, prefixes ...string) {
	for _, prefix := range prefixes {
		keys, err := i.store.Keys(ctx, prefix+"*")
		if err != nil {
			i.logger.WarnContext(ctx, "cache invalidation failed",
				slog.String("prefix", prefix),
				slog.Any("error", err))

			continue
		}
		if len(keys) == 0 {
			continue
		}

		if err := i.store.Del(ctx, keys...); err != nil {
			i.logger.WarnContext(ctx, "cache invalidation failed",
				slog.String("prefix", prefix),
				slog.Any("error", err))
		}
	}
}

// DropKeys deletes the given exact keys, logging failures.
func (i *Invalidator) DropKeys(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}

	if err := i.store.Del(ctx, keys...); err != nil {
		i.logger.WarnContext(ctx, "cache invalidation failed",
			slog.Int("keys", len(keys)),
			slog.Any("error", err))
	}
}
