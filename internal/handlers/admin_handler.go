package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/VedantNarayan/champaran-meat-house/internal/lifecycle"
	"github.com/VedantNarayan/champaran-meat-house/internal/logger"
	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"github.com/VedantNarayan/champaran-meat-house/internal/services"
	"github.com/VedantNarayan/champaran-meat-house/internal/storage"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminHandler struct {
	orderService  services.OrderService
	userService   services.UserService
	exportService services.ExportService
	images        *storage.ImageStore
	log           *logger.Logger
}

func NewAdminHandler(
	orderService services.OrderService,
	userService services.UserService,
	exportService services.ExportService,
	images *storage.ImageStore,
	log *logger.Logger,
) *AdminHandler {
	return &AdminHandler{
		orderService:  orderService,
		userService:   userService,
		exportService: exportService,
		images:        images,
		log:           log,
	}
}

func (h *AdminHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.GetAllOrders(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *AdminHandler) SetOrderStatus(c *gin.Context) {
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order, err := h.orderService.ChangeStatus(c.Request.Context(), actorFrom(c), c.Param("id"), lifecycle.Request{Target: req.Status})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *AdminHandler) DeleteOrder(c *gin.Context) {
	if err := h.orderService.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *AdminHandler) ExportOrders(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.exportService.WriteOrders(c.Request.Context(), &buf); err != nil {
		h.log.Error("order export failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *AdminHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.userService.GetAllProfiles(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

func (h *AdminHandler) SetRole(c *gin.Context) {
	var req struct {
		Role models.Role `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	profile, err := h.userService.SetRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *AdminHandler) CreateDriver(c *gin.Context) {
	var req services.SignUpInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	driver, err := h.userService.CreateDriver(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": driver})
}

// UploadImage stores a multipart "image" under the "folder" form value and returns its URL.
func (h *AdminHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image uploaded"})
		return
	}

	url, err := h.images.Save(fileHeader, c.DefaultPostForm("folder", "menu"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
