package repository

import (
	"context"

	"github.com/Pavel2232/ShopBot/internal/model"
)

type OrderRepository interface {
	// Create inserts the order unless one already exists for the same cart.
	Create(ctx context.Context, order *model.Order) error
	// GetByCartID returns gorm.ErrRecordNotFound when the cart has no order.
	GetByCartID(ctx context.Context, cartID int) (*model.Order, error)
}
