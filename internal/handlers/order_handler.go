package handlers

import (
	"net/http"

	"github.com/VedantNarayan/champaran-meat-house/internal/auth"
	"github.com/VedantNarayan/champaran-meat-house/internal/lifecycle"
	"github.com/VedantNarayan/champaran-meat-house/internal/logger"
	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"github.com/VedantNarayan/champaran-meat-house/internal/services"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService   services.OrderService
	addressService services.AddressService
	log            *logger.Logger
}

func NewOrderHandler(orderService services.OrderService, addressService services.AddressService, log *logger.Logger) *OrderHandler {
	return &OrderHandler{orderService: orderService, addressService: addressService, log: log}
}

func (h *OrderHandler) MyOrders(c *gin.Context) {
	orders, err := h.orderService.GetOrdersByUser(c.Request.Context(), auth.PrincipalFrom(c).UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// TrackOrder is the order status page. Order ids are unguessable, so it is open to guests.
func (h *OrderHandler) TrackOrder(c *gin.Context) {
	tracking, err := h.orderService.Track(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, tracking)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	var req struct {
		Confirm bool `json:"confirm"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order, err := h.orderService.ChangeStatus(c.Request.Context(), actorFrom(c), c.Param("id"),
		lifecycle.Request{Target: models.OrderCancelled, Confirmed: req.Confirm})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) MyAddresses(c *gin.Context) {
	addresses, err := h.addressService.List(c.Request.Context(), auth.PrincipalFrom(c).UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, addresses)
}

func (h *OrderHandler) AddAddress(c *gin.Context) {
	var req struct {
		FullName    string `json:"full_name" binding:"required"`
		PhoneNumber string `json:"phone_number" binding:"required"`
		Street      string `json:"street" binding:"required"`
		City        string `json:"city" binding:"required"`
		IsDefault   bool   `json:"is_default"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	address := &models.UserAddress{
		UserID:      auth.PrincipalFrom(c).UserID,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Street:      req.Street,
		City:        req.City,
		IsDefault:   req.IsDefault,
	}
	if err := h.addressService.Create(c.Request.Context(), address); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, address)
}

func (h *OrderHandler) DeleteAddress(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.addressService.Delete(c.Request.Context(), auth.PrincipalFrom(c).UserID, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
