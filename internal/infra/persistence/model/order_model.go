package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderModel mirrors the 'orders' table. The customer link is a nullable
// foreign key; the additive "attach" semantics live in the service layer.
type OrderModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	Price       float64   `gorm:"not null;check:price >= 0"`
	StartDate   time.Time
	EndDate     time.Time
	Category    string     `gorm:"type:varchar(20);not null;index"`
	Status      string     `gorm:"type:varchar(20);not null;index"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	CustomerID  *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}
