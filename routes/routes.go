package routes

import (
	"net/http"
	"time"

	"schooltrip/handlers"
	"schooltrip/middleware"
	"schooltrip/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterCatalogRoutes registers the public tour and bus listings.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.GET("/tours", hb.Catalog.ListTours)
		api.GET("/tours/:id", hb.Catalog.GetTour)
		api.GET("/buses", hb.Catalog.ListBuses)
	}
}

// RegisterBookingRoutes registers booking record endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle, logger *zap.Logger) {
	api := r.Group("/api")
	{
		api.GET("/bookings/:id", hb.Bookings.GetBooking)

		// Protected routes (Require Authentication)
		protected := api.Group("")
		protected.Use(middleware.RequireUser(hb.Tokens, hb.Users, logger))
		protected.POST("/bookings", hb.Bookings.CreateBooking)
		protected.PATCH("/update-booking/:id", hb.Bookings.UpdateBooking)
	}
}

// RegisterWizardRoutes registers the server-side booking wizard.
func RegisterWizardRoutes(r *gin.Engine, hb *handlers.HandlerBundle, logger *zap.Logger) {
	wiz := r.Group("/api/wizard/sessions")
	{
		wiz.POST("", hb.Wizard.CreateSession)
		wiz.GET("/:id", hb.Wizard.GetSession)
		wiz.PUT("/:id/quote", hb.Wizard.UpdateQuote)
		wiz.GET("/:id/buses", hb.Wizard.Buses)
		wiz.POST("/:id/back", hb.Wizard.Back)
		wiz.POST("/:id/restart", hb.Wizard.Restart)

		auth := middleware.RequireUser(hb.Tokens, hb.Users, logger)
		wiz.POST("/:id/submit", auth, hb.Wizard.Submit)
		wiz.POST("/:id/transport", auth, hb.Wizard.SelectTransport)
		wiz.POST("/:id/contact", auth, hb.Wizard.SubmitContact)
	}
}

func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/auth/google", hb.Auth.GoogleSignInHandler)
}

// RegisterAIRoutes registers the chat entry points.
func RegisterAIRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/ai/site-chat", hb.AI.SiteChatHandler)
	r.GET("/webhook", hb.Webhook.Verify)
	r.POST("/webhook", hb.Webhook.Receive)
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle, logger *zap.Logger) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.RequireAdmin(hb.Tokens, hb.Users, logger))
		adminGroup.GET("/bookings", hb.Admin.ListBookingsHandler)
		adminGroup.PATCH("/bookings/:id/status", hb.Admin.SetBookingStatusHandler)
		adminGroup.POST("/tours", hb.Admin.CreateTourHandler)
		adminGroup.PUT("/tours/:id", hb.Admin.UpdateTourHandler)
		adminGroup.DELETE("/tours/:id", hb.Admin.DeleteTourHandler)
		adminGroup.POST("/tours/:id/image", hb.Storage.UploadTourImageHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		if !status.Healthy() {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, origins []string, maxReqPerMin int, logger *zap.Logger) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(maxReqPerMin, logger))

	RegisterCatalogRoutes(r, hb)
	RegisterBookingRoutes(r, hb, logger)
	RegisterWizardRoutes(r, hb, logger)
	RegisterAuthRoutes(r, hb)
	RegisterAIRoutes(r, hb)
	RegisterAdminRoutes(r, hb, logger)
	RegisterHealthRoute(r)
}
