package handlers

import (
	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"github.com/gin-gonic/gin"
)

// Handlers bundles everything RegisterRoutes mounts.
type Handlers struct {
	Auth       *AuthHandler
	Cart       *CartHandler
	Checkout   *CheckoutHandler
	Orders     *OrderHandler
	Driver     *DriverHandler
	Admin      *AdminHandler
	WhatsApp   *WhatsAppHandler
	Realtime   *RealtimeHandler
	MenuItems  *CatalogHandler[models.MenuItem, *models.MenuItem]
	Categories *CatalogHandler[models.Category, *models.Category]
	Banners    *CatalogHandler[models.Banner, *models.Banner]
	Gallery    *CatalogHandler[models.GalleryImage, *models.GalleryImage]
}

// RegisterRoutes mounts the API. Authentication and the edge gate must already be installed on
// the router; restricted groups apply the gate again so they stay guarded if mounted elsewhere.
func RegisterRoutes(router *gin.Engine, h *Handlers, uploadDir string) {
	router.Static("/uploads", uploadDir)

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", h.Auth.SignUp)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/logout", h.Auth.Logout)
		authGroup.POST("/forgot-password", h.Auth.ForgotPassword)
		authGroup.POST("/reset-password", h.Auth.ResetPassword)
		authGroup.GET("/me", RequireAuth(), h.Auth.Me)
		authGroup.PUT("/me", RequireAuth(), h.Auth.UpdateMe)
		authGroup.PUT("/password", RequireAuth(), h.Auth.UpdatePassword)
	}
	api.POST("/dev/role", RequireAuth(), h.Auth.SwitchRole)

	api.GET("/menu-items", h.MenuItems.PublicList)
	api.GET("/categories", h.Categories.PublicList)
	api.GET("/banners", h.Banners.PublicList)
	api.GET("/gallery", h.Gallery.PublicList)

	cart := api.Group("/cart")
	{
		cart.GET("", h.Cart.GetCart)
		cart.POST("/items", h.Cart.AddItem)
		cart.DELETE("/items/:menuItemId", h.Cart.RemoveItem)
		cart.DELETE("/lines/:lineId", h.Cart.RemoveLine)
		cart.DELETE("", h.Cart.ClearCart)
	}

	api.POST("/payments/intent", h.Checkout.CreateIntent)
	api.POST("/payments/verify", h.Checkout.VerifyPayment)
	api.POST("/checkout", h.Checkout.PlaceOrder)

	api.GET("/orders/:id/track", h.Orders.TrackOrder)
	orders := api.Group("/orders", RequireAuth())
	{
		orders.GET("", h.Orders.MyOrders)
		orders.POST("/:id/cancel", h.Orders.CancelOrder)
	}
	addresses := api.Group("/addresses", RequireAuth())
	{
		addresses.GET("", h.Orders.MyAddresses)
		addresses.POST("", h.Orders.AddAddress)
		addresses.DELETE("/:id", h.Orders.DeleteAddress)
	}

	driver := api.Group("/driver", Gate())
	{
		driver.GET("/orders", h.Driver.Board)
		driver.POST("/orders/:id/pickup", h.Driver.Pickup)
		driver.POST("/orders/:id/deliver", h.Driver.Deliver)
	}

	admin := api.Group("/admin", Gate())
	{
		admin.GET("/orders", h.Admin.ListOrders)
		admin.GET("/orders/export", h.Admin.ExportOrders)
		admin.PUT("/orders/:id/status", h.Admin.SetOrderStatus)
		admin.DELETE("/orders/:id", h.Admin.DeleteOrder)

		admin.GET("/profiles", h.Admin.ListProfiles)
		admin.PUT("/profiles/:id/role", h.Admin.SetRole)
		admin.POST("/drivers", h.Admin.CreateDriver)
		admin.POST("/uploads", h.Admin.UploadImage)

		admin.POST("/mfa/enroll", h.Auth.EnrollMFA)
		admin.POST("/mfa/verify", h.Auth.ConfirmMFA)
		admin.DELETE("/mfa", h.Auth.DisableMFA)

		mountCatalog(admin.Group("/menu-items"), h.MenuItems)
		mountCatalog(admin.Group("/categories"), h.Categories)
		mountCatalog(admin.Group("/banners"), h.Banners)
		mountCatalog(admin.Group("/gallery"), h.Gallery)
	}

	api.GET("/webhooks/whatsapp", h.WhatsApp.VerifyWebhook)
	api.POST("/webhooks/whatsapp", h.WhatsApp.HandleWebhook)
	api.POST("/notifications/order", RequireAuth(), h.WhatsApp.NotifyOrder)

	api.GET("/realtime", h.Realtime.Subscribe)
}

type catalogRoutes interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	MoveUp(c *gin.Context)
	MoveDown(c *gin.Context)
}

func mountCatalog(g *gin.RouterGroup, h catalogRoutes) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/move-up", h.MoveUp)
	g.POST("/:id/move-down", h.MoveDown)
}
