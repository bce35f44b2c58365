package repository

import (
	"context"

	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"gorm.io/gorm"
)

type OrderRepository interface {
	// PlaceOrder inserts the order row and then its line items in one transaction.
	PlaceOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	FindByIDPrefix(ctx context.Context, prefix string) (*models.Order, error)
	GetByUserID(ctx context.Context, userID string) ([]models.Order, error)
	GetDriverFeed(ctx context.Context) ([]models.Order, error)
	GetAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus, driverID *string) error
	Delete(ctx context.Context, id string) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) PlaceOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		return NewOrderItemRepository(tx).CreateBatch(ctx, items)
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").Preload("Items.MenuItem").First(&order, "id = ?", id).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &order, nil
}

// FindByIDPrefix returns the first order whose id starts with prefix. With a non-unique prefix
// whichever row the database yields first wins.
func (r *orderRepository) FindByIDPrefix(ctx context.Context, prefix string) (*models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Where("id::text LIKE ?", prefix+"%").Limit(1).Find(&orders).Error
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrNotFound
	}
	return &orders[0], nil
}

func (r *orderRepository) GetByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Preload("Items").Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetDriverFeed(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Where("status <> ?", models.OrderCancelled).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).Preload("Items").Preload("Items.MenuItem").Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus, driverID *string) error {
	updates := map[string]interface{}{"status": status}
	if driverID != nil {
		updates["driver_id"] = *driverID
	}
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
