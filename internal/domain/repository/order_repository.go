package repository

import (
	"context"
	"errors"

	"orderdesk/internal/domain/entity"
	"orderdesk/internal/pagination"

	"github.com/google/uuid"
)

// ErrOrderNotFound is a domain-specific error returned when an order is not found.
var ErrOrderNotFound = errors.New("order not found")

// ListOrdersQuery narrows and orders the order listing. A nil OwnerID means
// no ownership scope (privileged callers); otherwise only that user's orders
// are visible.
type ListOrdersQuery struct {
	OwnerID  *uuid.UUID
	Status   *entity.OrderStatus
	Category *entity.OrderCategory
	SortBy   string
	SortDir  string
}

// OrderRepository defines the standard operations for order persistence.
type OrderRepository interface {
	// FindByID retrieves a single order by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// FindByIDs retrieves the orders matching the given IDs, in no particular order.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Order, error)

	// Create persists a new order entity to the storage.
	Create(ctx context.Context, order *entity.Order) error

	// Update modifies an existing order entity in the storage.
	Update(ctx context.Context, order *entity.Order) error

	// Delete removes an order by ID.
	Delete(ctx context.Context, id uuid.UUID) error

	// PageSource returns the paginator source for the given listing query.
	PageSource(query ListOrdersQuery) pagination.Source[*entity.Order]

	// StatsForUser aggregates the given user's orders by status and price.
	StatsForUser(ctx context.Context, userID uuid.UUID) (*entity.OrderStats, error)
}
