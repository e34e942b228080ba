package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus tracks the lifecycle of an order.
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "NEW"
	OrderStatusInProgress OrderStatus = "INPROGRESS"
	OrderStatusRejected   OrderStatus = "REJECTED"
	OrderStatusDone       OrderStatus = "DONE"
)

// String returns the string representation of the OrderStatus.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the OrderStatus is a valid value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusNew, OrderStatusInProgress, OrderStatusRejected, OrderStatusDone:
		return true
	default:
		return false
	}
}

// OrderCategory classifies the kind of work an order covers.
type OrderCategory string

const (
	OrderCategoryDevelopment OrderCategory = "DEVELOPMENT"
	OrderCategoryDesign      OrderCategory = "DESIGN"
	OrderCategoryMarketing   OrderCategory = "MARKETING"
	OrderCategoryCopywriting OrderCategory = "COPYWRITING"
	OrderCategoryOther       OrderCategory = "OTHER"
)

// String returns the string representation of the OrderCategory.
func (c OrderCategory) String() string {
	return string(c)
}

// IsValid checks if the OrderCategory is a valid value.
func (c OrderCategory) IsValid() bool {
	switch c {
	case OrderCategoryDevelopment, OrderCategoryDesign, OrderCategoryMarketing,
		OrderCategoryCopywriting, OrderCategoryOther:
		return true
	default:
		return false
	}
}

// Order is a unit of work tracked for a user. Every order has exactly one
// owning user; it may be linked to at most one customer at a time, and the
// link is only ever moved through an explicit detach.
type Order struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	StartDate   time.Time     `json:"startDate"`
	EndDate     time.Time     `json:"endDate"`
	Category    OrderCategory `json:"category"`
	Status      OrderStatus   `json:"status"`
	UserID      uuid.UUID     `json:"userId"`
	CustomerID  *uuid.UUID    `json:"customerId,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// IsOwnedBy reports whether the given user owns this order.
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}

// IsLinked reports whether the order already carries a customer link.
func (o *Order) IsLinked() bool {
	return o.CustomerID != nil
}

// OrderStats aggregates a user's orders for the statistics endpoints.
type OrderStats struct {
	UserID       uuid.UUID             `json:"userId"`
	Total        int64                 `json:"total"`
	ByStatus     map[OrderStatus]int64 `json:"byStatus"`
	DoneRevenue  float64               `json:"doneRevenue"`
	AvgDonePrice float64               `json:"avgDonePrice"`
}
