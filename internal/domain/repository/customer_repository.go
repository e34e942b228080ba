package repository

import (
	"context"
	"errors"

	"orderdesk/internal/domain/entity"
	"orderdesk/internal/pagination"

	"github.com/google/uuid"
)

// ErrCustomerNotFound is a domain-specific error returned when a customer is not found.
var ErrCustomerNotFound = errors.New("customer not found")

// ListCustomersQuery narrows and orders the customer listing. A nil OwnerID
// means no ownership scope; otherwise only customers with at least one order
// owned by that user are visible.
type ListCustomersQuery struct {
	OwnerID *uuid.UUID
	SortBy  string
	SortDir string
}

// CustomerRepository defines the standard operations for customer persistence.
type CustomerRepository interface {
	// FindByID retrieves a single customer by ID, preloading its linked orders.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)

	// Create persists a new customer entity to the storage.
	Create(ctx context.Context, customer *entity.Customer) error

	// Update modifies an existing customer entity in the storage.
	Update(ctx context.Context, customer *entity.Customer) error

	// Delete removes a customer by ID; linked orders are detached, not deleted.
	Delete(ctx context.Context, id uuid.UUID) error

	// PageSource returns the paginator source for the given listing query.
	PageSource(query ListCustomersQuery) pagination.Source[*entity.Customer]

	// CountOrdersOwnedBy returns how many of the customer's linked orders
	// belong to the given user. Drives the customer ownership gate.
	CountOrdersOwnedBy(ctx context.Context, customerID, userID uuid.UUID) (int64, error)
}
