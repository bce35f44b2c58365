package main

import (
	"context"
	"os"

	"github.com/VedantNarayan/champaran-meat-house/internal/auth"
	"github.com/VedantNarayan/champaran-meat-house/internal/config"
	"github.com/VedantNarayan/champaran-meat-house/internal/database"
	"github.com/VedantNarayan/champaran-meat-house/internal/handlers"
	"github.com/VedantNarayan/champaran-meat-house/internal/logger"
	"github.com/VedantNarayan/champaran-meat-house/internal/migrations"
	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"github.com/VedantNarayan/champaran-meat-house/internal/notification"
	"github.com/VedantNarayan/champaran-meat-house/internal/payment"
	"github.com/VedantNarayan/champaran-meat-house/internal/realtime"
	"github.com/VedantNarayan/champaran-meat-house/internal/redis"
	"github.com/VedantNarayan/champaran-meat-house/internal/repository"
	"github.com/VedantNarayan/champaran-meat-house/internal/services"
	"github.com/VedantNarayan/champaran-meat-house/internal/storage"
	"github.com/VedantNarayan/champaran-meat-house/pkg/razorpay"
	"github.com/VedantNarayan/champaran-meat-house/pkg/whatsapp"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, cfg.LogLevel)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	seed := migrations.Seed{AdminEmail: cfg.AdminEmail, AdminPassword: cfg.AdminPassword}
	if err := migrations.RunMigrations(context.Background(), db, seed, log.WithComponent("migrations")); err != nil {
		log.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Initialize Redis (sessions, role cache, carts)
	redisClient, err := redis.Initialize(cfg.RedisURL, cfg.CartDuration())
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	// Payment gateway
	gateway := razorpay.NewClient(cfg.RazorpayAPIURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	oracle := payment.NewOracle(gateway, cfg.RazorpayKeySecret, cfg.PaymentMode, cfg.IsDevelopment(), log.WithComponent("payment"))

	// Notification relays
	relays := []notification.Relay{notification.NewLogRelay(log.WithComponent("relay"))}
	if cfg.WhatsAppAPIURL != "" && cfg.ChefWhatsAppNumber != "" {
		whatsappClient := whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppUsername, cfg.WhatsAppPassword, cfg.WhatsAppPath)
		relays = append(relays, notification.NewWhatsAppRelay(whatsappClient, cfg.ChefWhatsAppNumber))
	}
	if cfg.RabbitMQURL != "" {
		conn, ch, err := notification.DialRabbit(cfg.RabbitMQURL)
		if err != nil {
			log.Warn("rabbitmq relay disabled", "error", err)
		} else {
			defer conn.Close()
			defer ch.Close()
			relays = append(relays, notification.NewRabbitRelay(ch))
		}
	}
	relay := notification.NewMultiRelay(log.WithComponent("relay"), relays...)

	hub := realtime.NewHub()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.SessionDuration())
	images := storage.NewImageStore(cfg.UploadDir, cfg.PublicBaseURL)

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	menuRepo := repository.NewSortableRepository[models.MenuItem](db, "name ASC")
	categoryRepo := repository.NewSortableRepository[models.Category](db, "name ASC")
	bannerRepo := repository.NewSortableRepository[models.Banner](db, "created_at ASC")
	galleryRepo := repository.NewSortableRepository[models.GalleryImage](db, "created_at ASC")

	// Initialize services
	userService := services.NewUserService(profileRepo, redisClient, tokens, cfg.SessionDuration(), cfg.CacheDuration(), log.WithComponent("users"))
	addressService := services.NewAddressService(addressRepo)
	cartService := services.NewCartService(redisClient, menuRepo, log.WithComponent("cart"))
	orderService := services.NewOrderService(orderRepo, hub, relay, log.WithComponent("orders"))
	notificationService := services.NewNotificationService(orderRepo, orderService, relay, cfg.ChefWhatsAppNumber, log.WithComponent("notifications"))
	checkoutService := services.NewCheckoutService(
		orderRepo,
		redisClient,
		oracle,
		redisClient,
		addressService,
		notificationService,
		hub,
		cfg.DeliveryFee,
		cfg.Currency,
		log.WithComponent("checkout"),
	)
	exportService := services.NewExportService(orderRepo)

	menuService := services.NewCatalogService[models.MenuItem, *models.MenuItem](menuRepo, models.KindMenuItems, log.WithComponent("catalog"))
	categoryService := services.NewCatalogService[models.Category, *models.Category](categoryRepo, models.KindCategories, log.WithComponent("catalog"))
	bannerService := services.NewCatalogService[models.Banner, *models.Banner](bannerRepo, models.KindBanners, log.WithComponent("catalog"))
	galleryService := services.NewCatalogService[models.GalleryImage, *models.GalleryImage](galleryRepo, models.KindGalleryImages, log.WithComponent("catalog"))

	// Initialize handlers
	httpLog := log.WithComponent("http")
	h := &handlers.Handlers{
		Auth:       handlers.NewAuthHandler(userService, cfg.DevMode, httpLog),
		Cart:       handlers.NewCartHandler(cartService, cfg.DeliveryFee, httpLog),
		Checkout:   handlers.NewCheckoutHandler(checkoutService, httpLog),
		Orders:     handlers.NewOrderHandler(orderService, addressService, httpLog),
		Driver:     handlers.NewDriverHandler(orderService, httpLog),
		Admin:      handlers.NewAdminHandler(orderService, userService, exportService, images, httpLog),
		WhatsApp:   handlers.NewWhatsAppHandler(notificationService, cfg.WhatsAppVerifyToken, httpLog),
		Realtime:   handlers.NewRealtimeHandler(hub, cfg.CORSOrigins, httpLog),
		MenuItems:  handlers.NewCatalogHandler[models.MenuItem, *models.MenuItem](menuService, handlers.MenuItemVisible, httpLog),
		Categories: handlers.NewCatalogHandler[models.Category, *models.Category](categoryService, nil, httpLog),
		Banners:    handlers.NewCatalogHandler[models.Banner, *models.Banner](bannerService, handlers.BannerVisible, httpLog),
		Gallery:    handlers.NewCatalogHandler[models.GalleryImage, *models.GalleryImage](galleryService, nil, httpLog),
	}

	// Setup routes
	router := gin.Default()
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	router.Use(handlers.Authenticate(userService), handlers.Gate())
	handlers.RegisterRoutes(router, h, images.Dir())

	// Start server
	log.Info("server starting", "port", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", handlers.CartHeader)
	c.AllowCredentials = true
	for _, o := range origins {
		if o == "*" {
			c.AllowOriginFunc = func(string) bool { return true }
			return c
		}
	}
	c.AllowOrigins = origins
	return c
}
