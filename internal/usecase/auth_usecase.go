// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"orderdesk/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Country   *string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// ResetPasswordInput redeems a one-time reset code for a new password.
type ResetPasswordInput struct {
	Email       string
	Code        string
	NewPassword string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RefreshOutput returns a fresh token pair.
type RefreshOutput struct {
	AccessToken  string
	RefreshToken string
}

// AuthUsecase defines the interface for authentication operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error)
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)
	Refresh(ctx context.Context, refreshToken string) (*RefreshOutput, error)

	// Logout writes the presented access token to the revocation ledger and
	// drops the stored refresh token.
	Logout(ctx context.Context, principal entity.Principal, accessToken string) error

	// SendVerificationCode issues a one-time email verification code.
	SendVerificationCode(ctx context.Context, email string) error

	// VerifyEmail redeems a verification code and marks the address verified.
	VerifyEmail(ctx context.Context, email, code string) error

	// ForgotPassword issues a one-time password reset code.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword redeems a reset code and replaces the user's password.
	ResetPassword(ctx context.Context, input ResetPasswordInput) error
}
