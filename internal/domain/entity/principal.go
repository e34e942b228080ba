package entity

import "github.com/google/uuid"

// Principal is the authenticated identity attached to a request after the
// access token has been validated. Services use it for role and ownership
// gates; it never reaches the persistence layer.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}

// Owns reports whether the principal is the owner identified by userID.
func (p Principal) Owns(userID uuid.UUID) bool {
	return p.UserID == userID
}
