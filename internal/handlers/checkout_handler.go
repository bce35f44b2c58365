package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/VedantNarayan/champaran-meat-house/internal/auth"
	"github.com/VedantNarayan/champaran-meat-house/internal/logger"
	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"github.com/VedantNarayan/champaran-meat-house/internal/payment"
	"github.com/VedantNarayan/champaran-meat-house/internal/services"
	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkoutService services.CheckoutService
	log             *logger.Logger
}

func NewCheckoutHandler(checkoutService services.CheckoutService, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService, log: log}
}

// CreateIntent prices the caller's cart and opens a payment order for it.
func (h *CheckoutHandler) CreateIntent(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}

	intent, err := h.checkoutService.CreateIntent(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, services.ErrEmptyCart) {
			h.log.Error("payment intent failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment order"})
			return
		}
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, intent)
}

func (h *CheckoutHandler) VerifyPayment(c *gin.Context) {
	var req payment.Verification
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.checkoutService.VerifyPayment(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Transaction not legit!"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"msg":       "success",
		"orderId":   req.IntentID,
		"paymentId": req.PaymentID,
	})
}

type checkoutRequest struct {
	Payment payment.Verification   `json:"payment" binding:"required"`
	Address models.DeliveryAddress `json:"address" binding:"required"`
}

func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	id, ok := cartID(c)
	if !ok {
		return
	}
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if req.Address.FullName == "" || req.Address.Phone == "" || req.Address.Street == "" || req.Address.City == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, phone, street and city are required"})
		return
	}

	in := services.CheckoutInput{ClientID: id, Payment: req.Payment, Address: req.Address}
	if p := auth.PrincipalFrom(c); p != nil {
		userID := p.UserID
		in.UserID = &userID
	}

	order, err := h.checkoutService.PlaceOrder(c.Request.Context(), in)
	if err != nil {
		var notRecorded *services.OrderNotRecordedError
		if errors.As(err, &notRecorded) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":      fmt.Sprintf("Payment successful but order creation failed. Please contact support with Payment ID: %s", notRecorded.PaymentID),
				"payment_id": notRecorded.PaymentID,
			})
			return
		}
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order_id": order.ID, "order": order})
}
