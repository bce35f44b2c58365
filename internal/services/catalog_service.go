package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/VedantNarayan/champaran-meat-house/internal/logger"
	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"github.com/VedantNarayan/champaran-meat-house/internal/repository"
)

// CatalogService manages one manually ordered collection: menu items, categories, banners or
// gallery images.
type CatalogService[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id uint) (*T, error)
	// Create appends the item after the current last one.
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uint) error
	// MoveUp and MoveDown swap the item with its neighbour and return the list as stored
	// afterwards. At either end they are no-ops.
	MoveUp(ctx context.Context, id uint) ([]T, error)
	MoveDown(ctx context.Context, id uint) ([]T, error)
}

type catalogService[T any, PT interface {
	*T
	models.Sortable
}] struct {
	repo repository.SortableRepository[T]
	kind models.CatalogKind
	log  *logger.Logger
}

func NewCatalogService[T any, PT interface {
	*T
	models.Sortable
}](repo repository.SortableRepository[T], kind models.CatalogKind, log *logger.Logger) CatalogService[T] {
	return &catalogService[T, PT]{repo: repo, kind: kind, log: log}
}

func (s *catalogService[T, PT]) List(ctx context.Context) ([]T, error) {
	return s.repo.List(ctx)
}

func (s *catalogService[T, PT]) Get(ctx context.Context, id uint) (*T, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *catalogService[T, PT]) Create(ctx context.Context, item *T) error {
	next, err := s.repo.NextSortOrder(ctx)
	if err != nil {
		return fmt.Errorf("failed to get next sort order: %w", err)
	}
	PT(item).SetSortOrder(next)
	return s.repo.Create(ctx, item)
}

func (s *catalogService[T, PT]) Update(ctx context.Context, item *T) error {
	if _, err := s.repo.GetByID(ctx, PT(item).GetID()); err != nil {
		return err
	}
	return s.repo.Update(ctx, item)
}

func (s *catalogService[T, PT]) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *catalogService[T, PT]) MoveUp(ctx context.Context, id uint) ([]T, error) {
	return s.move(ctx, id, -1)
}

func (s *catalogService[T, PT]) MoveDown(ctx context.Context, id uint) ([]T, error) {
	return s.move(ctx, id, 1)
}

func (s *catalogService[T, PT]) move(ctx context.Context, id uint, step int) ([]T, error) {
	entries, err := s.repo.SortEntries(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, e := range entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, repository.ErrNotFound
	}

	target := idx + step
	if target < 0 || target >= len(entries) {
		return s.repo.List(ctx)
	}

	// Equal keys cannot be swapped into a different order, so number the list first.
	if entries[idx].SortOrder == entries[target].SortOrder {
		ids := make([]uint, len(entries))
		for i, e := range entries {
			ids[i] = e.ID
			entries[i].SortOrder = i + 1
		}
		if err := s.repo.Renumber(ctx, ids); err != nil {
			return s.refetch(ctx, id, err)
		}
	}

	if err := s.repo.Swap(ctx, entries[idx], entries[target]); err != nil {
		return s.refetch(ctx, id, err)
	}

	return s.repo.List(ctx)
}

// refetch returns the stored order alongside the swap failure so callers can redraw.
func (s *catalogService[T, PT]) refetch(ctx context.Context, id uint, cause error) ([]T, error) {
	s.log.Warn("reorder failed", "kind", s.kind, "id", id, "error", cause)
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Join(cause, err)
	}
	return items, cause
}
