package repository

import (
	"context"

	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	GetAll(ctx context.Context) ([]models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	UpdateRole(ctx context.Context, id string, role models.Role) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &profile, nil
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("lower(email) = lower(?)", email).First(&profile).Error; err != nil {
		return nil, mapError(err)
	}
	return &profile, nil
}

func (r *profileRepository) GetAll(ctx context.Context) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&profiles).Error
	return profiles, err
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *profileRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	return r.updateColumn(ctx, id, "role", role)
}

func (r *profileRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return r.updateColumn(ctx, id, "password_hash", hash)
}

func (r *profileRepository) updateColumn(ctx context.Context, id, column string, value interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Profile{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
