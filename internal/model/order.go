package model

import (
	"time"

	"github.com/google/uuid"
)

// Order records a confirmed checkout in the local ledger.
type Order struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     int64     `gorm:"not null;index" json:"user_id"`
	CartID     int       `gorm:"not null;uniqueIndex" json:"cart_id"`
	Email      string    `gorm:"type:varchar(320);not null" json:"email"`
	TotalPrice int       `gorm:"not null" json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Order) TableName() string { return "orders" }
