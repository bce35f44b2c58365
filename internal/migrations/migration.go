package migrations

import (
	"context"
	"errors"
	"fmt"

	"github.com/VedantNarayan/champaran-meat-house/internal/logger"
	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"github.com/VedantNarayan/champaran-meat-house/internal/repository"
	"github.com/VedantNarayan/champaran-meat-house/internal/services"
	"gorm.io/gorm"
)

// Seed holds the credentials of the first admin.
type Seed struct {
	AdminEmail    string
	AdminPassword string
}

var defaultCategories = []string{"Mutton", "Chicken", "Fish", "Rice & Breads", "Beverages"}

func allModels() []interface{} {
	return []interface{}{
		&models.Profile{},
		&models.UserAddress{},
		&models.Category{},
		&models.MenuItem{},
		&models.Banner{},
		&models.GalleryImage{},
		&models.Order{},
		&models.OrderItem{},
	}
}

// RunMigrations creates or updates all tables and inserts default data.
func RunMigrations(ctx context.Context, db *gorm.DB, seed Seed, log *logger.Logger) error {
	log.Info("running database migrations")

	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := createDefaultData(ctx, db, seed, log); err != nil {
		log.Warn("failed to create default data", "error", err)
	}

	log.Info("database migrations completed")
	return nil
}

// DropAll removes every table. Only scripts/init-db calls it.
func DropAll(db *gorm.DB) error {
	return db.Migrator().DropTable(allModels()...)
}

func createDefaultData(ctx context.Context, db *gorm.DB, seed Seed, log *logger.Logger) error {
	profileRepo := repository.NewProfileRepository(db)
	userService := services.NewUserService(profileRepo, nil, nil, 0, 0, log)

	_, err := profileRepo.GetByEmail(ctx, seed.AdminEmail)
	switch {
	case err == nil:
		log.Info("admin profile already exists", "email", seed.AdminEmail)
	case errors.Is(err, repository.ErrNotFound):
		admin, err := userService.SignUp(ctx, services.SignUpInput{
			Email:    seed.AdminEmail,
			Password: seed.AdminPassword,
			FullName: "Administrator",
		})
		if err != nil {
			return fmt.Errorf("failed to create admin profile: %w", err)
		}
		if err := profileRepo.UpdateRole(ctx, admin.ID, models.RoleAdmin); err != nil {
			return fmt.Errorf("failed to promote admin profile: %w", err)
		}
		log.Info("admin profile created", "email", seed.AdminEmail)
	default:
		return err
	}

	categories := repository.NewSortableRepository[models.Category](db, "name ASC")
	existing, err := categories.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for i, name := range defaultCategories {
		if err := categories.Create(ctx, &models.Category{Name: name, SortOrder: i + 1}); err != nil {
			return fmt.Errorf("failed to create category %q: %w", name, err)
		}
	}
	log.Info("default categories created", "count", len(defaultCategories))
	return nil
}
