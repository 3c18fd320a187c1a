package routes

import (
	"stayflow/handlers"
	"stayflow/middleware"

	"github.com/gin-gonic/gin"
)

// HandlerBundle collects the handlers the router wires up.
type HandlerBundle struct {
	Units        *handlers.UnitHandler
	Availability *handlers.AvailabilityHandler
	Blocks       *handlers.BlockHandler
	Bookings     *handlers.BookingHandler
	Feeds        *handlers.FeedHandler
	Webhook      *handlers.WebhookHandler
}

// RegisterRoutes wires all endpoints. /health and /public are open;
// everything under /api and /webhook requires the API key.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.GET("/health", handlers.HealthCheck)

	// Public calendar feeds: OTAs poll these without credentials.
	r.GET("/public/:filename", hb.Feeds.ServeFeed)

	api := r.Group("/api")
	{
		api.Use(middleware.APIKeyAuthMiddleware())
		api.GET("/units", hb.Units.ListUnits)
		api.GET("/availability", hb.Availability.CheckAvailability)
		api.POST("/blocks", hb.Blocks.AddBlock)
		api.DELETE("/blocks", hb.Blocks.RemoveBlock)
		api.GET("/blocks/:unit", hb.Blocks.ListBlocks)
		api.POST("/feeds/:unit/regenerate", hb.Blocks.RegenerateFeed)
		api.POST("/bookings", hb.Bookings.ConfirmBooking)
	}

	webhook := r.Group("/webhook")
	{
		webhook.Use(middleware.APIKeyAuthMiddleware())
		webhook.POST("/chat", hb.Webhook.HandleChatEvent)
	}
}
