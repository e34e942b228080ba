// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"

	deliverycontext "orderdesk/internal/delivery/context"
	"orderdesk/internal/delivery/http/response"
	domainerrors "orderdesk/internal/domain/errors"
	"orderdesk/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// pageQuery is the shared pagination query shape. perPage is clamped to
// [1,500] here, at the validation boundary, never inside the paginator.
type pageQuery struct {
	Page    int    `query:"page" validate:"omitempty,min=1"`
	PerPage int    `query:"perPage" validate:"omitempty,min=1,max=500"`
	SortBy  string `query:"sortBy"`
	SortDir string `query:"sortDir" validate:"omitempty,oneof=asc desc"`
}

// principalFrom extracts the authenticated principal placed on the request
// context by the auth middleware.
func principalFrom(c echo.Context) (entity.Principal, error) {
	principal, ok := deliverycontext.GetPrincipal(c.Request().Context())
	if !ok {
		return entity.Principal{}, domainerrors.ErrUnauthorized
	}

	return principal, nil
}

// pathID parses the named path parameter as a UUID.
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WithDetails("invalid " + name)
	}

	return id, nil
}

// HealthCheck reports liveness.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "")
}
