package handler

import (
	"log/slog"
	"net/http"

	"orderdesk/internal/delivery/http/response"
	"orderdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CustomerHandler holds dependencies for customer handlers.
type CustomerHandler struct {
	uc     usecase.CustomerUsecase
	logger *slog.Logger
}

// NewCustomerHandler is the constructor for CustomerHandler, injected by Fx.
func NewCustomerHandler(uc usecase.CustomerUsecase, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{uc: uc, logger: logger}
}

type createCustomerRequest struct {
	FullName string  `json:"fullName" validate:"required,max=200"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Telegram *string `json:"telegram" validate:"omitempty,max=64"`
	Company  *string `json:"company" validate:"omitempty,max=200"`
}

// Create persists a new customer.
func (h *CustomerHandler) Create(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req createCustomerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid customer input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	customer, err := h.uc.Create(c.Request().Context(), principal, usecase.CreateCustomerInput{
		FullName: req.FullName,
		Email:    req.Email,
		Telegram: req.Telegram,
		Company:  req.Company,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, customer, "Customer created")
}

type listCustomersQuery struct {
	pageQuery
}

// List returns a page of customers visible to the caller.
func (h *CustomerHandler) List(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	var q listCustomersQuery
	if err := c.Bind(&q); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid listing parameters")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	page, err := h.uc.List(c.Request().Context(), principal, usecase.ListCustomersInput{
		Page:    q.Page,
		PerPage: q.PerPage,
		SortBy:  q.SortBy,
		SortDir: q.SortDir,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, page, "")
}

// Get returns a single customer.
func (h *CustomerHandler) Get(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	customer, err := h.uc.Get(c.Request().Context(), principal, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, customer, "")
}

type updateCustomerRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,max=200"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Telegram *string `json:"telegram" validate:"omitempty,max=64"`
	Company  *string `json:"company" validate:"omitempty,max=200"`
}

// Update modifies a customer.
func (h *CustomerHandler) Update(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid update input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	customer, err := h.uc.Update(c.Request().Context(), principal, id, usecase.UpdateCustomerInput{
		FullName: req.FullName,
		Email:    req.Email,
		Telegram: req.Telegram,
		Company:  req.Company,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, customer, "Customer updated")
}

type attachOrdersRequest struct {
	OrderIDs []uuid.UUID `json:"orderIds" validate:"required,min=1"`
}

// AttachOrders links a batch of orders to a customer atomically.
func (h *CustomerHandler) AttachOrders(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req attachOrdersRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order list")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	customer, err := h.uc.AttachOrders(c.Request().Context(), principal, id, req.OrderIDs)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, customer, "Orders attached")
}

// Delete removes a customer and detaches its orders.
func (h *CustomerHandler) Delete(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Request().Context(), principal, id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Customer deleted")
}
