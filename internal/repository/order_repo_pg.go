package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Pavel2232/ShopBot/internal/model"
)

type pgOrderRepository struct {
	db *gorm.DB
}

func NewPGOrderRepository(db *gorm.DB) OrderRepository {
	return &pgOrderRepository{db: db}
}

func (r *pgOrderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "cart_id"}}, DoNothing: true}).
		Create(order).Error
}

func (r *pgOrderRepository) GetByCartID(ctx context.Context, cartID int) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).First(&order, "cart_id = ?", cartID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}
