package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"unique;not null"`
	ImageURL  string    `json:"image_url"`
	SortOrder int       `json:"sort_order" gorm:"not null;default:0;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MenuItem struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	CategoryID  *uint           `json:"category_id" gorm:"index"`
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	ImageURL    string          `json:"image_url"`
	IsVeg       bool            `json:"is_veg" gorm:"default:false"`
	IsAvailable bool            `json:"is_available" gorm:"not null"`
	SortOrder   int             `json:"sort_order" gorm:"not null;default:0;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Banner struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url" gorm:"not null"`
	IsActive  bool      `json:"is_active" gorm:"not null"`
	SortOrder int       `json:"sort_order" gorm:"not null;default:0;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type GalleryImage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Caption   string    `json:"caption"`
	ImageURL  string    `json:"image_url" gorm:"not null"`
	SortOrder int       `json:"sort_order" gorm:"not null;default:0;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CatalogKind names one of the manually ordered collections.
type CatalogKind string

const (
	KindMenuItems     CatalogKind = "menu_items"
	KindCategories    CatalogKind = "categories"
	KindBanners       CatalogKind = "banners"
	KindGalleryImages CatalogKind = "gallery_images"
)

// SortEntry is the projection used by reordering: identity, current sort key and tiebreak.
type SortEntry struct {
	ID        uint
	SortOrder int
}

// Sortable is implemented by every manually ordered catalog row.
type Sortable interface {
	GetID() uint
	SetSortOrder(order int)
}

func (c *Category) GetID() uint { return c.ID }
func (c *Category) SetSortOrder(o int) { c.SortOrder = o }
func (m *MenuItem) GetID() uint { return m.ID }
func (m *MenuItem) SetSortOrder(o int) { m.SortOrder = o }
func (b *Banner) GetID() uint { return b.ID }
func (b *Banner) SetSortOrder(o int) { b.SortOrder = o }
func (g *GalleryImage) GetID() uint { return g.ID }
func (g *GalleryImage) SetSortOrder(o int) { g.SortOrder = o }

// Defaulter is implemented by rows whose new instances do not start from the zero value.
// Boolean defaults live here rather than in gorm tags, which would override an explicit false.
type Defaulter interface {
	ApplyDefaults()
}

func (m *MenuItem) ApplyDefaults() { m.IsAvailable = true }
func (b *Banner) ApplyDefaults() { b.IsActive = true }
