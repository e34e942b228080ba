package impl

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"orderdesk/config"
	"orderdesk/internal/domain/entity"
	"orderdesk/internal/domain/service"
	"orderdesk/internal/pagination"

	"github.com/google/uuid"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:      12,
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: time.Hour * 24 * 7,
		},
		Cache: &config.CacheConfig{
			ListTTL: 300 * time.Second,
			CodeTTL: 15 * time.Minute,
		},
	}
}

// memoryStore is an in-memory CacheStore for exercising the read-through and
// invalidation paths without Redis.
type memoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}}
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.data[key]
	if !ok {
		return "", service.ErrCacheMiss
	}

	return value, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value

	return nil
}

func (s *memoryStore) Keys(_ context.Context, pattern string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}

	return keys, nil
}

func (s *memoryStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
	}

	return nil
}

func (s *memoryStore) TTL(_ context.Context, _ string) (time.Duration, error) {
	return 0, nil
}

func (s *memoryStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]

	return ok
}

func (s *memoryStore) value(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.data[key]
}

// sliceSource serves a fixed slice as a paginator source.
func sliceSource[T any](rows []T) pagination.FuncSource[T] {
	return pagination.FuncSource[T]{
		FindPageFn: func(_ context.Context, limit, offset int) ([]T, error) {
			if offset >= len(rows) {
				return []T{}, nil
			}
			end := offset + limit
			if end > len(rows) {
				end = len(rows)
			}

			return rows[offset:end], nil
		},
		CountFn: func(_ context.Context) (int64, error) {
			return int64(len(rows)), nil
		},
	}
}

func adminPrincipal() entity.Principal {
	return entity.Principal{UserID: uuid.New(), Email: "admin@example.com", Role: entity.RoleAdmin}
}

func freelancerPrincipal(id uuid.UUID) entity.Principal {
	return entity.Principal{UserID: id, Email: "freelancer@example.com", Role: entity.RoleFreelancer}
}
