package cache

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Key prefixes shared between readers and invalidators. Invalidation is
// coarse on purpose: dropping every key under a prefix is cheaper to reason
// about than tracking which filter combinations a write affects.
const (
	OrderListPrefix    = "orders:"
	UserListPrefix     = "users:"
	CustomerListPrefix = "customers:"

	OrderDetailPrefix    = "order:"
	UserDetailPrefix     = "user:"
	CustomerDetailPrefix = "customer:"

	statsPrefix   = "stats:user:"
	verifyPrefix  = "verify:"
	resetPrefix   = "reset:"
	refreshPrefix = "refresh:"
)

// ListKey builds a list-cache key covering every parameter that changes the
// page contents. Filters are serialized with sorted field names so the same
// query always lands on the same key.
func ListKey(prefix string, page, size int, sortBy, sortDir string, filters map[string]string) string {
	return fmt.Sprintf("%spage=%d:size=%d:sort=%s:%s:filter=%s",
		prefix, page, size, sortBy, sortDir, encodeFilters(filters))
}

// DetailKey builds a single-entity cache key, e.g. "order:<id>".
func DetailKey(prefix string, id uuid.UUID) string {
	return prefix + id.String()
}

// StatsKey builds the per-user statistics key for one metric.
func StatsKey(userID uuid.UUID, metric string) string {
	return statsPrefix + userID.String() + ":" + metric
}

// StatsPrefix returns the invalidation prefix covering every metric of one
// user.
func StatsPrefix(userID uuid.UUID) string {
	return statsPrefix + userID.String() + ":"
}

// VerifyKey holds a one-time email verification code.
func VerifyKey(email string) string {
	return verifyPrefix + strings.ToLower(email)
}

// ResetKey holds a one-time password reset code.
func ResetKey(email string) string {
	return resetPrefix + strings.ToLower(email)
}

// RefreshKey holds the refresh token currently issued to a user. Logout
// deletes it, which invalidates the whole refresh chain.
func RefreshKey(userID uuid.UUID) string {
	return refreshPrefix + userID.String()
}

func encodeFilters(filters map[string]string) string {
	compact := make(map[string]string, len(filters))
	for field, value := range filters {
		if value == "" {
			continue
		}
		compact[field] = value
	}
	if len(compact) == 0 {
		return "{}"
	}

	fields := make([]string, 0, len(compact))
	for field := range compact {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var sb strings.Builder
	sb.WriteByte('{')
	for i, field := range fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		name, _ := json.Marshal(field)
		value, _ := json.Marshal(compact[field])
		sb.Write(name)
		sb.WriteByte(':')
		sb.Write(value)
	}
	sb.WriteByte('}')

	return sb.String()
}
