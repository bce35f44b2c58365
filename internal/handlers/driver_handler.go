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

type DriverHandler struct {
	orderService services.OrderService
	log          *logger.Logger
}

func NewDriverHandler(orderService services.OrderService, log *logger.Logger) *DriverHandler {
	return &DriverHandler{orderService: orderService, log: log}
}

func (h *DriverHandler) Board(c *gin.Context) {
	board, err := h.orderService.DriverBoard(c.Request.Context(), auth.PrincipalFrom(c).UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// Pickup claims the order for the calling driver.
func (h *DriverHandler) Pickup(c *gin.Context) {
	h.move(c, models.OrderOutForDelivery)
}

func (h *DriverHandler) Deliver(c *gin.Context) {
	h.move(c, models.OrderDelivered)
}

func (h *DriverHandler) move(c *gin.Context, target models.OrderStatus) {
	order, err := h.orderService.ChangeStatus(c.Request.Context(), actorFrom(c), c.Param("id"), lifecycle.Request{Target: target})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
