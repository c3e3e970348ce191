/**
 * @description
 * API Route definitions.
 * Sets up the router groups and assigns handlers.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2
 * - backend/internal/api/handlers
 * - backend/internal/api/middleware
 * - backend/internal/services
 */

package api

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/pasarin-app/backend/internal/api/handlers"
	"github.com/pasarin-app/backend/internal/api/middleware"
	"github.com/pasarin-app/backend/internal/config"
	"github.com/pasarin-app/backend/internal/integrations/freshdetect"
	"github.com/pasarin-app/backend/internal/integrations/locationiq"
	"github.com/pasarin-app/backend/internal/services"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {
	// 1. Initialize Middleware
	if err := middleware.InitAuthMiddleware(cfg); err != nil {
		log.Printf("Failed to init auth middleware: %v", err)
		// App still starts in dev modes without a secret, but protected
		// routes will fail.
	}

	// 2. Initialize Services
	auctionService := services.NewAuctionService(db, rdb)
	orderService := services.NewOrderService(db)
	sweeper := services.NewSweeper(auctionService, rdb)
	bidHub := services.NewBidStreamHub(rdb, services.BidEventChannel)

	// 3. Initialize Handlers
	authHandler := handlers.NewAuthHandler(db)
	auctionHandler := handlers.NewAuctionHandler(db, auctionService, sweeper, bidHub, cfg.Uploads.Dir)
	bidHandler := handlers.NewBidHandler(db)
	productHandler := handlers.NewProductHandler(db)
	orderHandler := handlers.NewOrderHandler(db, orderService)
	articleHandler := handlers.NewArticleHandler(db)
	locationHandler := handlers.NewLocationHandler(db, locationiq.NewClient(cfg))
	chatHandler := handlers.NewChatHandler(db)
	profileHandler := handlers.NewProfileHandler(db, cfg.Uploads.Dir)
	roleChangeHandler := handlers.NewRoleChangeHandler(db)
	fishHandler := handlers.NewFishHandler(freshdetect.NewClient(cfg))

	// 4. Define Routes
	app.Static("/uploads", cfg.Uploads.Dir)

	api := app.Group("/api")

	// Public Routes
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)

	// Auction Routes
	auctions := api.Group("/auctions")
	auctions.Get("/stream", auctionHandler.StreamBids)
	auctions.Post("/close_expired", auctionHandler.CloseExpired)
	auctions.Get("/:id/highest_bid", middleware.Protected(), auctionHandler.HighestBid)
	auctions.Get("/:id/bids/me", middleware.Protected(), bidHandler.MyAuctionBids)
	auctions.Get("/:id/bids/history", middleware.Protected(), bidHandler.AuctionBidHistory)
	auctions.Get("/:id/bids", middleware.Protected(), bidHandler.ListAuctionBids)
	auctions.Get("/", middleware.Protected(), auctionHandler.ListAuctions)
	auctions.Post("/", middleware.Protected(), auctionHandler.CreateAuction)
	auctions.Put("/:id", middleware.Protected(), auctionHandler.UpdateAuction)
	auctions.Delete("/:id", middleware.Protected(), auctionHandler.DeleteAuction)
	auctions.Post("/:id/close", middleware.Protected(), auctionHandler.CloseAuction)
	auctions.Post("/:id/bid", middleware.Protected(), auctionHandler.PlaceBid)

	// Bid Routes (Protected)
	api.Get("/bids", middleware.Protected(), bidHandler.ListMyBids)

	// Product Routes
	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Get("/:id", productHandler.GetProduct)
	products.Post("/", middleware.Protected(), productHandler.CreateProduct)
	products.Put("/:id", middleware.Protected(), productHandler.UpdateProduct)
	products.Put("/:id/stock", middleware.Protected(), productHandler.UpdateStock)
	products.Delete("/:id", middleware.Protected(), productHandler.DeleteProduct)

	// Order Routes (Protected)
	orders := api.Group("/orders", middleware.Protected())
	orders.Get("/", orderHandler.ListOrders)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Post("/", orderHandler.CreateOrder)
	orders.Put("/:id/status", orderHandler.UpdateOrderStatus)

	// Article Routes
	articles := api.Group("/articles")
	articles.Get("/", articleHandler.ListArticles)
	articles.Get("/:id", articleHandler.GetArticle)
	articles.Post("/", middleware.Protected(), articleHandler.CreateArticle)
	articles.Put("/:id", middleware.Protected(), articleHandler.UpdateArticle)
	articles.Delete("/:id", middleware.Protected(), articleHandler.DeleteArticle)

	// Location Routes (Protected)
	locations := api.Group("/locations", middleware.Protected())
	locations.Get("/", locationHandler.ListLocations)
	locations.Get("/:id", locationHandler.GetLocation)
	locations.Post("/", locationHandler.CreateLocation)

	// Chat Routes (Protected)
	chats := api.Group("/chats", middleware.Protected())
	chats.Get("/", chatHandler.ListConversations)
	chats.Get("/search", chatHandler.SearchUser)
	chats.Get("/:partner_id", chatHandler.GetThread)
	chats.Post("/", chatHandler.SendMessage)

	// Profile Routes
	api.Get("/profile", middleware.Protected(), profileHandler.GetMyProfile)
	api.Put("/profile", middleware.Protected(), profileHandler.UpdateMyProfile)
	api.Get("/profiles", middleware.Protected(), profileHandler.ListProfiles)
	api.Get("/profiles/:id", middleware.Protected(), profileHandler.GetProfile)

	// Role Change Routes (Protected)
	roleRequests := api.Group("/role_change_requests", middleware.Protected())
	roleRequests.Post("/", roleChangeHandler.RequestRoleChange)
	roleRequests.Get("/", roleChangeHandler.ListRoleChangeRequests)
	roleRequests.Post("/:id/approve", roleChangeHandler.ApproveRoleChange)
	roleRequests.Post("/:id/reject", roleChangeHandler.RejectRoleChange)

	// Fish Detection (Protected)
	api.Post("/detect", middleware.Protected(), fishHandler.Detect)
}
