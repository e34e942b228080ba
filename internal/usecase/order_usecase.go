package usecase

import (
	"context"
	"time"

	"orderdesk/internal/domain/entity"
	"orderdesk/internal/pagination"

	"github.com/google/uuid"
)

// CreateOrderInput defines the data required to create an order. The owner is
// always the calling principal.
type CreateOrderInput struct {
	Title       string
	Description string
	Price       float64
	StartDate   time.Time
	EndDate     time.Time
	Category    entity.OrderCategory
	CustomerID  *uuid.UUID
}

// UpdateOrderInput carries the mutable order fields. Nil pointers leave the
// current value untouched.
type UpdateOrderInput struct {
	Title       *string
	Description *string
	Price       *float64
	StartDate   *time.Time
	EndDate     *time.Time
	Category    *entity.OrderCategory
}

// ListOrdersInput carries pagination plus the order listing filters.
type ListOrdersInput struct {
	Page     int
	PerPage  int
	Status   *entity.OrderStatus
	Category *entity.OrderCategory
	SortBy   string
	SortDir  string
}

// OrderUsecase defines the interface for order operations.
type OrderUsecase interface {
	// Create persists a new order owned by the caller.
	Create(ctx context.Context, principal entity.Principal, input CreateOrderInput) (*entity.Order, error)

	// List returns a page of orders. FREELANCERs see their own orders;
	// ADMIN and MANAGER see all.
	List(ctx context.Context, principal entity.Principal, input ListOrdersInput) (*pagination.Page[*entity.Order], error)

	// Get returns a single order after the ownership gate.
	Get(ctx context.Context, principal entity.Principal, id uuid.UUID) (*entity.Order, error)

	// Update modifies an order after the ownership gate.
	Update(ctx context.Context, principal entity.Principal, id uuid.UUID, input UpdateOrderInput) (*entity.Order, error)

	// SetStatus moves an order through its lifecycle after the ownership gate.
	SetStatus(ctx context.Context, principal entity.Principal, id uuid.UUID, status entity.OrderStatus) (*entity.Order, error)

	// Delete removes an order after the ownership gate.
	Delete(ctx context.Context, principal entity.Principal, id uuid.UUID) error
}
