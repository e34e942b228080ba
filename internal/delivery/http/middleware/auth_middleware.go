// Package middleware contains the echo middleware for the HTTP delivery.
package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "orderdesk/internal/delivery/context"
	"orderdesk/internal/delivery/http/response"
	"orderdesk/internal/domain/entity"
	"orderdesk/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthMiddleware validates bearer tokens and places the resulting principal
// on the request context.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	ledger   service.CacheStore
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, ledger service.CacheStore, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, ledger: ledger, logger: logger}
}

// Authenticate validates the JWT access token and rejects tokens present in
// the revocation ledger, regardless of signature validity.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "UNAUTHORIZED", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, "UNAUTHORIZED", "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.ValidateAccessToken(tokenString)
		if err != nil {
			return response.Unauthorized(c, "TOKEN_INVALID", "Invalid or expired token")
		}

		// Revocation check: the raw token string is the ledger key.
		marker, err := m.ledger.Get(c.Request().Context(), tokenString)
		if err == nil && marker == "revoked" {
			return response.Unauthorized(c, "TOKEN_REVOKED", "Token has been revoked")
		}
		if err != nil && !errors.Is(err, service.ErrCacheMiss) {
			// A broken ledger must not lock every user out.
			m.logger.Warn("Revocation ledger unavailable, accepting validated token",
				slog.Any("error", err))
		}

		principal := entity.Principal{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		}

		ctx := c.Request().Context()
		ctx = deliverycontext.WithPrincipal(ctx, principal)
		ctx = deliverycontext.WithAccessToken(ctx, tokenString)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// RequireRole rejects requests whose principal does not carry one of the
// given roles. It must be used AFTER Authenticate.
func (m *AuthMiddleware) RequireRole(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := deliverycontext.GetPrincipal(c.Request().Context())
			if !ok {
				return response.Unauthorized(c, "UNAUTHORIZED", "Authentication required")
			}

			if !entity.Roles(roles).Contains(principal.Role) {
				return response.Forbidden(c, "FORBIDDEN", "Insufficient role")
			}

			return next(c)
		}
	}
}
