package usecase

import (
	"context"

	"orderdesk/internal/domain/entity"
	"orderdesk/internal/pagination"

	"github.com/google/uuid"
)

// CreateCustomerInput defines the data required to create a customer.
type CreateCustomerInput struct {
	FullName string
	Email    *string
	Telegram *string
	Company  *string
}

// UpdateCustomerInput carries the mutable customer fields. Nil pointers leave
// the current value untouched.
type UpdateCustomerInput struct {
	FullName *string
	Email    *string
	Telegram *string
	Company  *string
}

// ListCustomersInput carries pagination plus the customer listing controls.
type ListCustomersInput struct {
	Page    int
	PerPage int
	SortBy  string
	SortDir string
}

// CustomerUsecase defines the interface for customer operations. A caller
// owns a customer through the orders linked to it, so every gate below the
// ADMIN bypass runs against the caller's orders.
type CustomerUsecase interface {
	// Create persists a new customer. Any authenticated caller.
	Create(ctx context.Context, principal entity.Principal, input CreateCustomerInput) (*entity.Customer, error)

	// List returns a page of customers reachable by the caller.
	List(ctx context.Context, principal entity.Principal, input ListCustomersInput) (*pagination.Page[*entity.Customer], error)

	// Get returns a single customer after the ownership-via-orders gate.
	Get(ctx context.Context, principal entity.Principal, id uuid.UUID) (*entity.Customer, error)

	// Update modifies a customer after the ownership-via-orders gate.
	Update(ctx context.Context, principal entity.Principal, id uuid.UUID, input UpdateCustomerInput) (*entity.Customer, error)

	// Delete removes a customer after the ownership-via-orders gate. Linked
	// orders are detached, not deleted.
	Delete(ctx context.Context, principal entity.Principal, id uuid.UUID) error

	// AttachOrders links the given orders to the customer. Every order must
	// exist, be owned by the caller unless ADMIN, and carry no existing link;
	// all gates run before any write.
	AttachOrders(ctx context.Context, principal entity.Principal, id uuid.UUID, orderIDs []uuid.UUID) (*entity.Customer, error)
}
