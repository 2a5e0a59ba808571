package repository

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/Pavel2232/ShopBot/internal/model"
)

type memoryOrderRepository struct {
	mu     sync.RWMutex
	byCart map[int]model.Order
}

// NewMemoryOrderRepository keeps the ledger in process memory for runs without PostgreSQL.
func NewMemoryOrderRepository() OrderRepository {
	return &memoryOrderRepository{byCart: make(map[int]model.Order)}
}

func (r *memoryOrderRepository) Create(_ context.Context, order *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byCart[order.CartID]; ok {
		return nil
	}
	r.byCart[order.CartID] = *order
	return nil
}

func (r *memoryOrderRepository) GetByCartID(_ context.Context, cartID int) (*model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.byCart[cartID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &order, nil
}
