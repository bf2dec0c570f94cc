package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"slotline/handlers"
	"slotline/utils"
)

// CORSMiddleware returns the shared CORS policy.
func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}

// RegisterAvailabilityRoutes registers the slot listing endpoint.
func RegisterAvailabilityRoutes(r *gin.Engine, h *handlers.AvailabilityHandler) {
	api := r.Group("/api/availability")
	{
		api.GET("", h.GetAvailability)
	}
}

// RegisterHoldRoutes registers the hold lifecycle endpoints.
func RegisterHoldRoutes(r *gin.Engine, h *handlers.HoldHandler) {
	api := r.Group("/api/booking-holds")
	{
		api.POST("", h.CreateHold)
		api.GET("/:id", h.GetHold)
	}
}

// RegisterBookingRoutes registers finalization and post-confirmation endpoints.
func RegisterBookingRoutes(r *gin.Engine, h *handlers.BookingHandler) {
	api := r.Group("/api/bookings")
	{
		api.POST("/from-hold", h.FinalizeFromHold)
		api.POST("/:id/reschedule", h.Reschedule)
		api.POST("/:id/cancel", h.Cancel)
	}
}

// RegisterRequestRoutes registers the on-demand request endpoints.
func RegisterRequestRoutes(r *gin.Engine, h *handlers.RequestHandler) {
	api := r.Group("/api/on-demand-requests")
	{
		api.POST("", h.Create)
		api.POST("/:id/accept", h.Accept)
		api.POST("/:id/decline", h.Decline)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}
