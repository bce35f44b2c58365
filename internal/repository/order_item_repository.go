package repository

import (
	"context"

	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"gorm.io/gorm"
)

type OrderItemRepository interface {
	CreateBatch(ctx context.Context, items []models.OrderItem) error
	GetByOrderID(ctx context.Context, orderID string) ([]models.OrderItem, error)
}

type orderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) CreateBatch(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("MenuItem").Create(&items).Error
}

func (r *orderItemRepository) GetByOrderID(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).Preload("MenuItem").Where("order_id = ?", orderID).Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
