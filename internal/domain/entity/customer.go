package entity

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a client that orders are performed for. Customers are shared
// between users: a user "owns" a customer only through the orders linked to it.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"fullName"`
	Email     *string   `json:"email,omitempty"`
	Telegram  *string   `json:"telegram,omitempty"`
	Company   *string   `json:"company,omitempty"`
	Orders    []*Order  `json:"orders,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasOrderOwnedBy reports whether at least one of the customer's loaded
// orders belongs to the given user. This is the ownership rule for customers.
func (c *Customer) HasOrderOwnedBy(userID uuid.UUID) bool {
	for _, order := range c.Orders {
		if order.IsOwnedBy(userID) {
			return true
		}
	}

	return false
}
