package impl

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	deliverycontext "orderdesk/internal/delivery/context"
	"orderdesk/internal/domain/service"

	"github.com/pkg/errors"
)

// readThrough serves value T from the cache under key, falling back to fetch
// on a miss. A cache read failure is logged and treated as a miss, and a
// failed store after fetch is logged and ignored: the cache accelerates
// reads, it never gates them.
func readThrough[T any](
	ctx context.Context,
	store service.CacheStore,
	logger *slog.Logger,
	key string,
	ttl time.Duration,
	fetch func(context.Context) (T, error),
) (T, error) {
	log := deliverycontext.GetLoggerOrDefault(ctx, logger)

	var zero T

	cached, err := store.Get(ctx, key)
	if err == nil {
		var value T
		if err := json.Unmarshal([]byte(cached), &value); err == nil {
			return value, nil
		}
		// A corrupt entry falls through to the authoritative source.
		log.WarnContext(ctx, "discarding undecodable cache entry", slog.String("key", key))
	} else if !errors.Is(err, service.ErrCacheMiss) {
		log.WarnContext(ctx, "cache read failed, falling back to store",
			slog.String("key", key), slog.Any("error", err))
	}

	value, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		log.WarnContext(ctx, "failed to encode cache entry", slog.String("key", key), slog.Any("error", err))

		return value, nil
	}
	if err := store.Set(ctx, key, string(payload), ttl); err != nil {
		log.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.Any("error", err))
	}

	return value, nil
}
