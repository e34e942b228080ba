// Package service provides hand-written testify mocks for the domain service
// interfaces, used by the service tests.
package service

import (
	"context"
	"testing"
	"time"

	"orderdesk/internal/domain/entity"
	"orderdesk/internal/domain/service"

	"github.com/stretchr/testify/mock"
)

// MockPasswordHasher mocks service.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

// NewMockPasswordHasher creates a mock wired to the test lifecycle.
func NewMockPasswordHasher(t *testing.T) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

// MockTokenService mocks service.TokenService.
type MockTokenService struct {
	mock.Mock
}

// NewMockTokenService creates a mock wired to the test lifecycle.
func NewMockTokenService(t *testing.T) *MockTokenService {
	m := &MockTokenService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTokenService) GenerateTokens(user *entity.User) (string, string, error) {
	args := m.Called(user)

	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)

	var claims *service.Claims
	if v := args.Get(0); v != nil {
		claims = v.(*service.Claims)
	}

	return claims, args.Error(1)
}

func (m *MockTokenService) ValidateRefreshToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)

	var claims *service.Claims
	if v := args.Get(0); v != nil {
		claims = v.(*service.Claims)
	}

	return claims, args.Error(1)
}

func (m *MockTokenService) GetAccessTokenDuration() time.Duration {
	return m.Called().Get(0).(time.Duration)
}

// MockCacheStore mocks service.CacheStore.
type MockCacheStore struct {
	mock.Mock
}

// NewMockCacheStore creates a mock wired to the test lifecycle.
func NewMockCacheStore(t *testing.T) *MockCacheStore {
	m := &MockCacheStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCacheStore) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)

	return args.String(0), args.Error(1)
}

func (m *MockCacheStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCacheStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	args := m.Called(ctx, pattern)

	var keys []string
	if v := args.Get(0); v != nil {
		keys = v.([]string)
	}

	return keys, args.Error(1)
}

func (m *MockCacheStore) Del(ctx context.Context, keys ...string) error {
	callArgs := make([]any, 0, len(keys)+1)
	callArgs = append(callArgs, ctx)
	for _, key := range keys {
		callArgs = append(callArgs, key)
	}

	return m.Called(callArgs...).Error(0)
}

func (m *MockCacheStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	args := m.Called(ctx, key)

	return args.Get(0).(time.Duration), args.Error(1)
}

// MockMailer mocks service.Mailer.
type MockMailer struct {
	mock.Mock
}

// NewMockMailer creates a mock wired to the test lifecycle.
func NewMockMailer(t *testing.T) *MockMailer {
	m := &MockMailer{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockMailer) SendVerificationCode(ctx context.Context, email, code string) error {
	return m.Called(ctx, email, code).Error(0)
}

func (m *MockMailer) SendPasswordResetCode(ctx context.Context, email, code string) error {
	return m.Called(ctx, email, code).Error(0)
}
