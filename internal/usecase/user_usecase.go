package usecase

import (
	"context"

	"orderdesk/internal/domain/entity"
	"orderdesk/internal/pagination"

	"github.com/google/uuid"
)

// ListUsersInput carries pagination plus the admin listing filters.
type ListUsersInput struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
}

// UpdateUserInput carries the mutable user fields. Nil pointers leave the
// current value untouched.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Country   *string
}

// ChangePasswordInput rotates a user's password after checking the old one.
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

// UserUsecase defines the interface for user account operations.
type UserUsecase interface {
	// List returns a page of users. ADMIN only.
	List(ctx context.Context, principal entity.Principal, input ListUsersInput) (*pagination.Page[*entity.User], error)

	// Get returns a single user. Self or ADMIN.
	Get(ctx context.Context, principal entity.Principal, id uuid.UUID) (*entity.User, error)

	// Update modifies a user's profile. Self or ADMIN; an email change
	// resets the verified flag and must stay unique.
	Update(ctx context.Context, principal entity.Principal, id uuid.UUID, input UpdateUserInput) (*entity.User, error)

	// ChangePassword rotates the caller's own password.
	ChangePassword(ctx context.Context, principal entity.Principal, input ChangePasswordInput) error

	// Delete removes a user. ADMIN only.
	Delete(ctx context.Context, principal entity.Principal, id uuid.UUID) error
}
