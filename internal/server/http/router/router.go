package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/polkiloo/campusmarket/internal/config"
	"github.com/polkiloo/campusmarket/internal/server/http/handlers"
	"github.com/polkiloo/campusmarket/internal/server/http/middleware"
)

const healthPath = "/healthz"

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.MarketFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.MaxMultipartMemory = 8 << 20

	engine.Use(gin.Recovery())
	engine.Use(otelgin.Middleware(cfg.ServiceName, otelgin.WithFilter(func(r *http.Request) bool {
		return r.URL.Path != healthPath
	})))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	orderHandler := handlers.NewOrderHandler(facade)
	reviewHandler := handlers.NewReviewHandler(facade)
	listingHandler := handlers.NewListingHandler(facade)
	accountHandler := handlers.NewAccountHandler(facade)
	conversationHandler := handlers.NewConversationHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	engine.GET(healthPath, healthHandler.Check)

	api := engine.Group("/api")

	orders := api.Group("/orders")
	orders.POST("/create", orderHandler.Create)
	orders.GET("/buyer/:uid", orderHandler.BuyerOrders)
	orders.GET("/seller/:uid", orderHandler.SellerOrders)
	orders.GET("/:id", orderHandler.Get)
	orders.POST("/:id/complete", orderHandler.Complete)
	orders.POST("/:id/cancel/request", orderHandler.RequestCancel)
	orders.POST("/:id/cancel/accept", orderHandler.AcceptCancel)
	orders.POST("/:id/cancel/reject", orderHandler.RejectCancel)

	reviews := api.Group("/reviews")
	reviews.POST("/create", reviewHandler.Create)
	reviews.GET("/order/:id", reviewHandler.ByOrder)
	reviews.GET("/seller/:uid", reviewHandler.Seller)

	listings := api.Group("/listings")
	listings.GET("", listingHandler.Search)
	listings.POST("", listingHandler.Create)
	listings.GET("/categories", listingHandler.Categories)
	listings.GET("/price-reference", listingHandler.PriceReference)
	listings.GET("/:id", listingHandler.Get)

	users := api.Group("/users")
	users.POST("", accountHandler.Create)
	users.GET("/:uid", accountHandler.Profile)
	users.GET("/:uid/overview", accountHandler.Overview)
	users.PUT("/:uid", accountHandler.UpdateProfile)
	users.POST("/:uid/password", accountHandler.ChangePassword)
	users.GET("/:uid/listings", accountHandler.Listings)
	users.PUT("/:uid/listings/:id", accountHandler.UpdateListing)
	users.DELETE("/:uid/listings/:id", accountHandler.DeleteListing)

	conversations := api.Group("/conversations")
	conversations.POST("", conversationHandler.Start)
	conversations.GET("", conversationHandler.List)
	conversations.GET("/:id/messages", conversationHandler.Messages)
	conversations.POST("/:id/messages", conversationHandler.Send)

	return engine
}
