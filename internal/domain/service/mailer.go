package service

import "context"

// Mailer delivers one-time codes to users. Delivery mechanics live behind
// this interface; the services only decide when a code goes out.
type Mailer interface {
	// SendVerificationCode emails the code proving control of the address.
	SendVerificationCode(ctx context.Context, email, code string) error

	// SendPasswordResetCode emails the code authorizing a password reset.
	SendPasswordResetCode(ctx context.Context, email, code string) error
}
