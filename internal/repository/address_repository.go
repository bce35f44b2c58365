package repository

import (
	"context"

	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"gorm.io/gorm"
)

type AddressRepository interface {
	Create(ctx context.Context, address *models.UserAddress) error
	GetByUserID(ctx context.Context, userID string) ([]models.UserAddress, error)
	Exists(ctx context.Context, userID, street, city string) (bool, error)
	// Delete removes the address only if it belongs to userID.
	Delete(ctx context.Context, userID string, id uint) error
}

type addressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) Create(ctx context.Context, address *models.UserAddress) error {
	return r.db.WithContext(ctx).Create(address).Error
}

func (r *addressRepository) GetByUserID(ctx context.Context, userID string) ([]models.UserAddress, error) {
	var addresses []models.UserAddress
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("is_default DESC, created_at DESC").Find(&addresses).Error
	return addresses, err
}

func (r *addressRepository) Exists(ctx context.Context, userID, street, city string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserAddress{}).
		Where("user_id = ? AND street = ? AND city = ?", userID, street, city).
		Count(&count).Error
	return count > 0, err
}

func (r *addressRepository) Delete(ctx context.Context, userID string, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.UserAddress{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
