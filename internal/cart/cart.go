// Package cart is the per-client cart accumulator. State lives in memory and every mutation
// writes the whole line list back to the Store.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/VedantNarayan/champaran-meat-house/internal/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNoCart is returned by a Store when nothing has been saved for the client yet.
var ErrNoCart = errors.New("cart not found")

type Store interface {
	LoadCart(ctx context.Context, clientID string) ([]byte, error)
	SaveCart(ctx context.Context, clientID string, data []byte) error
}

type Line struct {
	ID         string          `json:"id"`
	MenuItemID uint            `json:"menuItemId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	ImageURL   string          `json:"image_url,omitempty"`
	Variant    string          `json:"variant,omitempty"`
}

// Product is what gets added to the cart.
type Product struct {
	ID       uint            `json:"id" binding:"required"`
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url"`
	Variant  string          `json:"variant"`
}

type Cart struct {
	clientID string
	store    Store
	log      *logger.Logger
	lines    []Line
}

// Load rehydrates the cart for clientID. A missing or unreadable stored list gives an empty
// cart; only store errors are returned.
func Load(ctx context.Context, store Store, clientID string, log *logger.Logger) (*Cart, error) {
	c := &Cart{clientID: clientID, store: store, log: log, lines: []Line{}}

	data, err := store.LoadCart(ctx, clientID)
	if errors.Is(err, ErrNoCart) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal(data, &lines); err != nil {
		log.Warn("failed to parse stored cart, starting empty", "client_id", clientID, "error", err)
		return c, nil
	}
	if lines != nil {
		c.lines = lines
	}
	return c, nil
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// AddItem increments the line for (product, variant) or appends a new one.
func (c *Cart) AddItem(ctx context.Context, p Product) error {
	for i := range c.lines {
		if c.lines[i].MenuItemID == p.ID && c.lines[i].Variant == p.Variant {
			c.lines[i].Quantity++
			return c.persist(ctx)
		}
	}

	c.lines = append(c.lines, Line{
		ID:         newLineID(),
		MenuItemID: p.ID,
		Name:       p.Name,
		Price:      p.Price,
		Quantity:   1,
		ImageURL:   p.ImageURL,
		Variant:    p.Variant,
	})
	return c.persist(ctx)
}

// RemoveOneByProduct drops one unit from the most recently added line for the product. An
// empty variant matches any variant. Nothing matching is a no-op.
func (c *Cart) RemoveOneByProduct(ctx context.Context, productID uint, variant string) error {
	for i := len(c.lines) - 1; i >= 0; i-- {
		l := c.lines[i]
		if l.MenuItemID == productID && (variant == "" || l.Variant == variant) {
			c.decrementAt(i)
			return c.persist(ctx)
		}
	}
	return nil
}

// RemoveLine drops one unit from the line with the given id.
func (c *Cart) RemoveLine(ctx context.Context, lineID string) error {
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.decrementAt(i)
			return c.persist(ctx)
		}
	}
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear(ctx context.Context) error {
	c.lines = []Line{}
	return c.persist(ctx)
}

// TotalItems is the sum of quantities.
func (c *Cart) TotalItems() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// TotalPrice is the sum of unit price times quantity.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) decrementAt(i int) {
	if c.lines[i].Quantity > 1 {
		c.lines[i].Quantity--
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

func (c *Cart) persist(ctx context.Context) error {
	data, err := json.Marshal(c.lines)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	if err := c.store.SaveCart(ctx, c.clientID, data); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func newLineID() string {
	return uuid.NewString()[:9]
}
