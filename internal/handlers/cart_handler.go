package handlers

import (
	"net/http"

	"github.com/VedantNarayan/champaran-meat-house/internal/cart"
	"github.com/VedantNarayan/champaran-meat-house/internal/logger"
	"github.com/VedantNarayan/champaran-meat-house/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CartHandler struct {
	cartService services.CartService
	deliveryFee decimal.Decimal
	log         *logger.Logger
}

func NewCartHandler(cartService services.CartService, deliveryFee decimal.Decimal, log *logger.Logger) *CartHandler {
	return &CartHandler{cartService: cartService, deliveryFee: deliveryFee, log: log}
}

func (h *CartHandler) render(c *gin.Context, ct *cart.Cart) {
	subtotal := ct.TotalPrice()
	c.JSON(http.StatusOK, gin.H{
		"items":        ct.Lines(),
		"total_items":  ct.TotalItems(),
		"subtotal":     subtotal,
		"delivery_fee": h.deliveryFee,
		"total":        subtotal.Add(h.deliveryFee),
	})
}

func (h *CartHandler) GetCart(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	ct, err := h.cartService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.render(c, ct)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	var req struct {
		MenuItemID uint   `json:"menu_item_id" binding:"required"`
		Variant    string `json:"variant"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	ct, err := h.cartService.AddItem(c.Request.Context(), id, req.MenuItemID, req.Variant)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.render(c, ct)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	menuItemID, ok := uintParam(c, "menuItemId")
	if !ok {
		return
	}

	ct, err := h.cartService.RemoveOne(c.Request.Context(), id, menuItemID, c.Query("variant"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.render(c, ct)
}

func (h *CartHandler) RemoveLine(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	ct, err := h.cartService.RemoveLine(c.Request.Context(), id, c.Param("lineId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.render(c, ct)
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	if err := h.cartService.Clear(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": []cart.Line{}, "total_items": 0})
}
