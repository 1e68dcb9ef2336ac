package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hakeemmukif/distraction-shop-v2/auth"
	"github.com/hakeemmukif/distraction-shop-v2/clients"
	"github.com/hakeemmukif/distraction-shop-v2/config"
	"github.com/hakeemmukif/distraction-shop-v2/handlers"
	"github.com/hakeemmukif/distraction-shop-v2/models"
	"github.com/hakeemmukif/distraction-shop-v2/rabbitmq"
	"github.com/hakeemmukif/distraction-shop-v2/schedule"
	"github.com/hakeemmukif/distraction-shop-v2/store"
)

func main() {
	cfg := config.LoadConfig()

	log.Printf("Starting Distraction Shop storefront on port %s", cfg.Port)

	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Shop settings and override state
	week, err := schedule.FromConfig(cfg.Schedule)
	if err != nil {
		log.Fatalf("Invalid shop schedule: %v", err)
	}
	settings, err := store.NewSettings(week, cfg.Timezone, cfg.ContactEmail)
	if err != nil {
		log.Fatalf("Invalid shop settings: %v", err)
	}
	override := schedule.NewOverrideState()

	// Payments provider
	payments := clients.NewPaymentsClient(cfg.PaymentAPIURL, cfg.PaymentAPIKey, cfg.WebhookSecret, cfg.CheckoutSuccess, cfg.CheckoutCancel)

	// Fulfillment queue
	channelPool, err := rabbitmq.NewChannelPool(cfg.RabbitMQURL, cfg.RabbitMQQueue, cfg.ChannelPoolSize)
	if err != nil {
		log.Fatalf("Failed to create RabbitMQ channel pool: %v", err)
	}
	defer channelPool.Close()
	publisher := rabbitmq.NewPublisher(channelPool, cfg.RabbitMQQueue)

	// Stores
	orders := store.NewOrders()
	users := store.NewUsers()
	if cfg.AdminPassword != "" {
		if _, err := users.Create(cfg.AdminEmail, "Superadmin", cfg.AdminPassword, models.RoleSuperadmin); err != nil {
			log.Fatalf("Failed to seed superadmin user: %v", err)
		}
		log.Printf("Seeded superadmin user %s", cfg.AdminEmail)
	} else {
		log.Println("ADMIN_PASSWORD not set, back office has no seeded account")
	}

	tokens := auth.NewManager(cfg.JWTSecret)

	// Handlers
	shopHandler := handlers.NewShopHandler(settings, override)
	productHandler := handlers.NewProductHandler(payments)
	cartHandler := handlers.NewCartHandler(payments)
	checkoutHandler := handlers.NewCheckoutHandler(cartHandler, payments, payments, settings, override)
	webhookHandler := handlers.NewWebhookHandler(payments, payments, orders, publisher)
	orderHandler := handlers.NewOrderHandler(orders)
	adminHandler := handlers.NewAdminHandler(users, tokens, settings, payments)
	userHandler := handlers.NewUserHandler(users)

	router := gin.Default()

	// Storefront
	router.GET("/shop/status", shopHandler.GetStatus)
	router.GET("/products", productHandler.ListProducts)
	router.GET("/products/:productId", productHandler.GetProduct)
	router.POST("/carts", cartHandler.CreateCart)
	router.GET("/carts/:cartId", cartHandler.GetCart)
	router.POST("/carts/:cartId/items", cartHandler.AddItem)
	router.PUT("/carts/:cartId/items", cartHandler.UpdateItem)
	router.DELETE("/carts/:cartId/items", cartHandler.RemoveItem)
	router.DELETE("/carts/:cartId", cartHandler.ClearCart)
	router.POST("/checkout", checkoutHandler.Checkout)
	router.GET("/orders/by-session", orderHandler.BySession)
	router.GET("/orders/lookup", orderHandler.Lookup)
	router.POST("/webhooks/payment", webhookHandler.HandleEvent)

	// Back office
	router.POST("/admin/login", adminHandler.Login)
	admin := router.Group("/admin", tokens.RequireRole(models.RoleAdmin))
	{
		admin.GET("/settings/schedule", adminHandler.GetSchedule)
		admin.PUT("/settings/schedule", adminHandler.UpdateSchedule)
		admin.GET("/shop/override", shopHandler.GetOverride)
		admin.POST("/shop/override", shopHandler.SetOverride)
		admin.GET("/orders", orderHandler.List)
		admin.POST("/products", adminHandler.CreateProduct)
		admin.PUT("/products/:productId", adminHandler.UpdateProduct)
		admin.DELETE("/products/:productId", adminHandler.DeleteProduct)
	}
	superadmin := router.Group("/superadmin", tokens.RequireRole(models.RoleSuperadmin))
	{
		superadmin.GET("/users", userHandler.List)
		superadmin.POST("/users", userHandler.Create)
		superadmin.PUT("/users/:userId", userHandler.Update)
		superadmin.DELETE("/users/:userId", userHandler.Delete)
		superadmin.PUT("/orders/:orderNumber", orderHandler.UpdateStatus)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Received shutdown signal, draining requests...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}

	log.Println("Storefront shut down gracefully")
}
