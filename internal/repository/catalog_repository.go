package repository

import (
	"context"

	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SortableRepository stores one manually ordered catalog collection.
type SortableRepository[T any] interface {
	List(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uint) error
	SortEntries(ctx context.Context) ([]models.SortEntry, error)
	NextSortOrder(ctx context.Context) (int, error)
	// Swap exchanges the sort keys of a and b atomically. It fails with ErrStaleSortOrder
	// when either row no longer carries the key the caller observed.
	Swap(ctx context.Context, a, b models.SortEntry) error
	// Renumber rewrites sort keys to 1..n following the given order.
	Renumber(ctx context.Context, ids []uint) error
}

type sortableRepository[T any] struct {
	db       *gorm.DB
	tiebreak string
}

// NewSortableRepository returns a repository listing rows by sort_order, then by tiebreak.
func NewSortableRepository[T any](db *gorm.DB, tiebreak string) SortableRepository[T] {
	return &sortableRepository[T]{db: db, tiebreak: tiebreak}
}

func (r *sortableRepository[T]) ordered(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC").Order(r.tiebreak).Order("id ASC")
}

func (r *sortableRepository[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	err := r.ordered(r.db.WithContext(ctx)).Find(&items).Error
	return items, err
}

func (r *sortableRepository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var item T
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &item, nil
}

func (r *sortableRepository[T]) Create(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *sortableRepository[T]) Update(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *sortableRepository[T]) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sortableRepository[T]) SortEntries(ctx context.Context) ([]models.SortEntry, error) {
	var entries []models.SortEntry
	err := r.ordered(r.db.WithContext(ctx).Model(new(T))).Select("id", "sort_order").Find(&entries).Error
	return entries, err
}

func (r *sortableRepository[T]) NextSortOrder(ctx context.Context) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(new(T)).Select("COALESCE(MAX(sort_order), 0)").Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (r *sortableRepository[T]) Swap(ctx context.Context, a, b models.SortEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked []models.SortEntry
		err := tx.Model(new(T)).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "sort_order").
			Where("id IN ?", []uint{a.ID, b.ID}).
			Order("id ASC").
			Find(&locked).Error
		if err != nil {
			return err
		}
		if len(locked) != 2 {
			return ErrNotFound
		}
		for _, row := range locked {
			if (row.ID == a.ID && row.SortOrder != a.SortOrder) || (row.ID == b.ID && row.SortOrder != b.SortOrder) {
				return ErrStaleSortOrder
			}
		}

		if err := tx.Model(new(T)).Where("id = ?", a.ID).Update("sort_order", b.SortOrder).Error; err != nil {
			return err
		}
		return tx.Model(new(T)).Where("id = ?", b.ID).Update("sort_order", a.SortOrder).Error
	})
}

func (r *sortableRepository[T]) Renumber(ctx context.Context, ids []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			if err := tx.Model(new(T)).Where("id = ?", id).Update("sort_order", i+1).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
