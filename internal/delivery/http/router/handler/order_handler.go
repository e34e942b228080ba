package handler

import (
	"log/slog"
	"net/http"
	"time"

	"orderdesk/internal/delivery/http/response"
	"orderdesk/internal/domain/entity"
	"orderdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// OrderHandler holds dependencies for order handlers.
type OrderHandler struct {
	uc     usecase.OrderUsecase
	logger *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(uc usecase.OrderUsecase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, logger: logger}
}

type createOrderRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	Price       float64    `json:"price" validate:"gte=0"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     time.Time  `json:"endDate"`
	Category    string     `json:"category" validate:"required,oneof=DEVELOPMENT DESIGN MARKETING COPYWRITING OTHER"`
	CustomerID  *uuid.UUID `json:"customerId"`
}

// Create persists a new order owned by the caller.
func (h *OrderHandler) Create(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.uc.Create(c.Request().Context(), principal, usecase.CreateOrderInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Category:    entity.OrderCategory(req.Category),
		CustomerID:  req.CustomerID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, order, "Order created")
}

type listOrdersQuery struct {
	pageQuery
	Status   string `query:"status" validate:"omitempty,oneof=NEW INPROGRESS REJECTED DONE"`
	Category string `query:"category" validate:"omitempty,oneof=DEVELOPMENT DESIGN MARKETING COPYWRITING OTHER"`
}

// List returns a page of orders visible to the caller.
func (h *OrderHandler) List(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	var q listOrdersQuery
	if err := c.Bind(&q); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid listing parameters")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	input := usecase.ListOrdersInput{
		Page:    q.Page,
		PerPage: q.PerPage,
		SortBy:  q.SortBy,
		SortDir: q.SortDir,
	}
	if q.Status != "" {
		status := entity.OrderStatus(q.Status)
		input.Status = &status
	}
	if q.Category != "" {
		category := entity.OrderCategory(q.Category)
		input.Category = &category
	}

	page, err := h.uc.List(c.Request().Context(), principal, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, page, "")
}

// Get returns a single order.
func (h *OrderHandler) Get(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.uc.Get(c.Request().Context(), principal, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "")
}

type updateOrderRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Price       *float64   `json:"price" validate:"omitempty,gte=0"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	Category    *string    `json:"category" validate:"omitempty,oneof=DEVELOPMENT DESIGN MARKETING COPYWRITING OTHER"`
}

// Update modifies an order.
func (h *OrderHandler) Update(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid update input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := usecase.UpdateOrderInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if req.Category != nil {
		category := entity.OrderCategory(*req.Category)
		input.Category = &category
	}

	order, err := h.uc.Update(c.Request().Context(), principal, id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Order updated")
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=NEW INPROGRESS REJECTED DONE"`
}

// SetStatus moves an order through its lifecycle.
func (h *OrderHandler) SetStatus(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid status input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.uc.SetStatus(c.Request().Context(), principal, id, entity.OrderStatus(req.Status))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Order status updated")
}

// Delete removes an order.
func (h *OrderHandler) Delete(c echo.Context) error {
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

	return response.Success(c, http.StatusOK, nil, "Order deleted")
}
