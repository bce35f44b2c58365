package services

import (
	"context"
	"fmt"

	"github.com/VedantNarayan/champaran-meat-house/internal/cart"
	"github.com/VedantNarayan/champaran-meat-house/internal/logger"
	"github.com/VedantNarayan/champaran-meat-house/internal/models"
)

// MenuLookup resolves the menu item a cart line refers to.
type MenuLookup interface {
	GetByID(ctx context.Context, id uint) (*models.MenuItem, error)
}

type CartService interface {
	Get(ctx context.Context, clientID string) (*cart.Cart, error)
	AddItem(ctx context.Context, clientID string, menuItemID uint, variant string) (*cart.Cart, error)
	RemoveOne(ctx context.Context, clientID string, menuItemID uint, variant string) (*cart.Cart, error)
	RemoveLine(ctx context.Context, clientID, lineID string) (*cart.Cart, error)
	Clear(ctx context.Context, clientID string) error
}

type cartService struct {
	store cart.Store
	menu  MenuLookup
	log   *logger.Logger
}

func NewCartService(store cart.Store, menu MenuLookup, log *logger.Logger) CartService {
	return &cartService{store: store, menu: menu, log: log}
}

func (s *cartService) Get(ctx context.Context, clientID string) (*cart.Cart, error) {
	return cart.Load(ctx, s.store, clientID, s.log)
}

// AddItem prices the line from the menu, never from the client.
func (s *cartService) AddItem(ctx context.Context, clientID string, menuItemID uint, variant string) (*cart.Cart, error) {
	item, err := s.menu.GetByID(ctx, menuItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	if !item.IsAvailable {
		return nil, ErrItemUnavailable
	}

	c, err := s.Get(ctx, clientID)
	if err != nil {
		return nil, err
	}
	err = c.AddItem(ctx, cart.Product{
		ID:       item.ID,
		Name:     item.Name,
		Price:    item.Price,
		ImageURL: item.ImageURL,
		Variant:  variant,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *cartService) RemoveOne(ctx context.Context, clientID string, menuItemID uint, variant string) (*cart.Cart, error) {
	c, err := s.Get(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if err := c.RemoveOneByProduct(ctx, menuItemID, variant); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *cartService) RemoveLine(ctx context.Context, clientID, lineID string) (*cart.Cart, error) {
	c, err := s.Get(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if err := c.RemoveLine(ctx, lineID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *cartService) Clear(ctx context.Context, clientID string) error {
	c, err := s.Get(ctx, clientID)
	if err != nil {
		return err
	}
	return c.Clear(ctx)
}
