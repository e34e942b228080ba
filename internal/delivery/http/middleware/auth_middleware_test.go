package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	deliverycontext "orderdesk/internal/delivery/context"
	"orderdesk/internal/domain/entity"
	"orderdesk/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokenService struct {
	claims *service.Claims
	err    error
}

func (s *stubTokenService) GenerateTokens(user *entity.User) (string, string, error) {
	return "", "", errors.New("not implemented")
}

func (s *stubTokenService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	return s.claims, s.err
}

func (s *stubTokenService) ValidateRefreshToken(tokenString string) (*service.Claims, error) {
	return s.claims, s.err
}

func (s *stubTokenService) GetAccessTokenDuration() time.Duration {
	return time.Hour
}

type stubLedger struct {
	values map[string]string
	err    error
}

func (s *stubLedger) Get(ctx context.Context, key string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if v, ok := s.values[key]; ok {
		return v, nil
	}

	return "", service.ErrCacheMiss
}

func (s *stubLedger) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return nil
}

func (s *stubLedger) Del(ctx context.Context, keys ...string) error { return nil }

func (s *stubLedger) Keys(ctx context.Context, pattern string) ([]string, error) {
	return nil, nil
}

func (s *stubLedger) TTL(ctx context.Context, key string) (time.Duration, error) {
	return 0, service.ErrCacheMiss
}

func validClaims() *service.Claims {
	return &service.Claims{
		UserID: uuid.New(),
		Email:  "dev@example.com",
		Role:   entity.RoleFreelancer,
		Type:   "access",
	}
}

func runAuthenticate(t *testing.T, m *AuthMiddleware, authHeader string) (*httptest.ResponseRecorder, entity.Principal, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var principal entity.Principal
	var reached bool
	handler := m.Authenticate(func(c echo.Context) error {
		principal, reached = deliverycontext.GetPrincipal(c.Request().Context())

		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))

	return rec, principal, reached
}

func TestAuthenticate_ValidToken(t *testing.T) {
	claims := validClaims()
	m := NewAuthMiddleware(
		&stubTokenService{claims: claims},
		&stubLedger{},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	rec, principal, reached := runAuthenticate(t, m, "Bearer good-token")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
	assert.Equal(t, claims.UserID, principal.UserID)
	assert.Equal(t, entity.RoleFreelancer, principal.Role)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	m := NewAuthMiddleware(
		&stubTokenService{claims: validClaims()},
		&stubLedger{},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	rec, _, reached := runAuthenticate(t, m, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestAuthenticate_RejectsNonBearer(t *testing.T) {
	m := NewAuthMiddleware(
		&stubTokenService{claims: validClaims()},
		&stubLedger{},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	rec, _, reached := runAuthenticate(t, m, "Basic dXNlcjpwYXNz")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestAuthenticate_RevokedTokenRejected(t *testing.T) {
	m := NewAuthMiddleware(
		&stubTokenService{claims: validClaims()},
		&stubLedger{values: map[string]string{"revoked-token": "revoked"}},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	rec, _, reached := runAuthenticate(t, m, "Bearer revoked-token")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
	assert.Contains(t, rec.Body.String(), "TOKEN_REVOKED")
}

func TestAuthenticate_LedgerOutageFailsOpen(t *testing.T) {
	m := NewAuthMiddleware(
		&stubTokenService{claims: validClaims()},
		&stubLedger{err: errors.New("connection refused")},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	rec, _, reached := runAuthenticate(t, m, "Bearer good-token")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

func TestRequireRole(t *testing.T) {
	m := NewAuthMiddleware(
		&stubTokenService{},
		&stubLedger{},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	run := func(principal *entity.Principal, roles ...entity.Role) *httptest.ResponseRecorder {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		if principal != nil {
			req = req.WithContext(deliverycontext.WithPrincipal(req.Context(), *principal))
		}
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := m.RequireRole(roles...)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		require.NoError(t, handler(c))

		return rec
	}

	admin := &entity.Principal{UserID: uuid.New(), Role: entity.RoleAdmin}
	freelancer := &entity.Principal{UserID: uuid.New(), Role: entity.RoleFreelancer}

	assert.Equal(t, http.StatusOK, run(admin, entity.RoleAdmin).Code)
	assert.Equal(t, http.StatusForbidden, run(freelancer, entity.RoleAdmin).Code)
	assert.Equal(t, http.StatusUnauthorized, run(nil, entity.RoleAdmin).Code)
	assert.Equal(t, http.StatusOK, run(freelancer, entity.RoleAdmin, entity.RoleFreelancer).Code)
}
