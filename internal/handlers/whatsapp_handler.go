package handlers

import (
	"errors"
	"net/http"

	"github.com/VedantNarayan/champaran-meat-house/internal/logger"
	"github.com/VedantNarayan/champaran-meat-house/internal/notification"
	"github.com/VedantNarayan/champaran-meat-house/internal/repository"
	"github.com/VedantNarayan/champaran-meat-house/internal/services"
	"github.com/gin-gonic/gin"
)

type WhatsAppHandler struct {
	notificationService services.NotificationService
	verifyToken         string
	log                 *logger.Logger
}

func NewWhatsAppHandler(notificationService services.NotificationService, verifyToken string, log *logger.Logger) *WhatsAppHandler {
	return &WhatsAppHandler{notificationService: notificationService, verifyToken: verifyToken, log: log}
}

// VerifyWebhook answers the subscription handshake.
func (h *WhatsAppHandler) VerifyWebhook(c *gin.Context) {
	challenge, ok := notification.VerifySubscription(
		c.Query("hub.mode"),
		c.Query("hub.verify_token"),
		c.Query("hub.challenge"),
		h.verifyToken,
	)
	if !ok {
		c.String(http.StatusForbidden, "Forbidden")
		return
	}
	c.String(http.StatusOK, challenge)
}

// HandleWebhook applies chef commands such as "confirm 3f9a2b1c". Anything that is not a
// command, or names no order, is acknowledged and ignored.
func (h *WhatsAppHandler) HandleWebhook(c *gin.Context) {
	var payload notification.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.String(http.StatusBadRequest, "Invalid request format")
		return
	}
	if payload.Object == "" {
		c.String(http.StatusNotFound, "Not Found")
		return
	}

	if from, text, ok := payload.FirstText(); ok {
		order, err := h.notificationService.HandleInbound(c.Request.Context(), from, text)
		switch {
		case err != nil:
			h.log.Error("failed to apply chat command", "text", text, "error", err)
		case order != nil:
			h.log.Info("order updated from chat", "order_id", order.ID, "status", order.Status)
		}
	}

	c.String(http.StatusOK, "EVENT_RECEIVED")
}

// NotifyOrder relays the kitchen summary for an existing order.
func (h *WhatsAppHandler) NotifyOrder(c *gin.Context) {
	var req struct {
		OrderID string `json:"orderId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order ID is required"})
		return
	}

	err := h.notificationService.NotifyOrderCreated(c.Request.Context(), req.OrderID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		h.log.Error("notification failed", "order_id", req.OrderID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notification sent"})
}
