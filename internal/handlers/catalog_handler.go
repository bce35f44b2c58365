package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/VedantNarayan/champaran-meat-house/internal/logger"
	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"github.com/VedantNarayan/champaran-meat-house/internal/repository"
	"github.com/VedantNarayan/champaran-meat-house/internal/services"
	"github.com/gin-gonic/gin"
)

// CatalogHandler serves one sortable collection, publicly and to admins.
type CatalogHandler[T any, PT interface {
	*T
	models.Sortable
}] struct {
	svc services.CatalogService[T]
	// visible filters the public listing. nil shows everything.
	visible func(c *gin.Context, item *T) bool
	log     *logger.Logger
}

func NewCatalogHandler[T any, PT interface {
	*T
	models.Sortable
}](svc services.CatalogService[T], visible func(c *gin.Context, item *T) bool, log *logger.Logger) *CatalogHandler[T, PT] {
	return &CatalogHandler[T, PT]{svc: svc, visible: visible, log: log}
}

func (h *CatalogHandler[T, PT]) PublicList(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if h.visible != nil {
		shown := make([]T, 0, len(items))
		for i := range items {
			if h.visible(c, &items[i]) {
				shown = append(shown, items[i])
			}
		}
		items = shown
	}
	c.JSON(http.StatusOK, items)
}

func (h *CatalogHandler[T, PT]) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *CatalogHandler[T, PT]) Create(c *gin.Context) {
	item := new(T)
	if d, ok := any(item).(models.Defaulter); ok {
		d.ApplyDefaults()
	}
	if err := c.ShouldBindJSON(item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if PT(item).GetID() != 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must not be set"})
		return
	}

	if err := h.svc.Create(c.Request.Context(), item); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *CatalogHandler[T, PT]) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	item, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := c.ShouldBindJSON(item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if PT(item).GetID() != id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id mismatch"})
		return
	}

	if err := h.svc.Update(c.Request.Context(), item); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CatalogHandler[T, PT]) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *CatalogHandler[T, PT]) MoveUp(c *gin.Context) {
	h.move(c, h.svc.MoveUp)
}

func (h *CatalogHandler[T, PT]) MoveDown(c *gin.Context) {
	h.move(c, h.svc.MoveDown)
}

// move responds with the stored list. When the swap failed the list is the refetched order and
// is returned next to the error.
func (h *CatalogHandler[T, PT]) move(c *gin.Context, fn func(ctx context.Context, id uint) ([]T, error)) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	items, err := fn(c.Request.Context(), id)
	if err != nil {
		if items == nil || errors.Is(err, repository.ErrNotFound) {
			respondError(c, h.log, err)
			return
		}
		h.log.Warn("reorder failed, returning stored order", "id", id, "error", err)
		c.JSON(http.StatusConflict, gin.H{"error": "Reorder failed, list refreshed", "items": items})
		return
	}
	c.JSON(http.StatusOK, items)
}

// MenuItemVisible shows available items, optionally filtered by ?veg= and ?category_id=.
func MenuItemVisible(c *gin.Context, m *models.MenuItem) bool {
	if !m.IsAvailable {
		return false
	}
	switch c.Query("veg") {
	case "true":
		if !m.IsVeg {
			return false
		}
	case "false":
		if m.IsVeg {
			return false
		}
	}
	if cat := c.Query("category_id"); cat != "" {
		return m.CategoryID != nil && strconv.FormatUint(uint64(*m.CategoryID), 10) == cat
	}
	return true
}

func BannerVisible(_ *gin.Context, b *models.Banner) bool {
	return b.IsActive
}
