package routes

import (
	"net/http"
	"time"

	"sahara/handlers"
	"sahara/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterChatRoutes registers the assistant endpoint. Auth is optional.
func RegisterChatRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.POST("/chat", middleware.OptionalAuth(hb.AuthService), hb.ChatHandler)
}

// RegisterAppointmentRoutes registers appointment endpoints.
func RegisterAppointmentRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	appointments := api.Group("/appointments")
	{
		appointments.POST("", hb.CreateAppointmentHandler)
		appointments.GET("/user/:userId", hb.ListUserAppointmentsHandler)
	}
}

// RegisterTicketRoutes registers the provider search endpoints.
func RegisterTicketRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	tickets := api.Group("/tickets")
	{
		tickets.GET("/bus", hb.SearchBusHandler)
		tickets.GET("/movie", hb.SearchMovieHandler)
		tickets.GET("/flight", hb.SearchFlightHandler)

		tickets.POST("/bus/search", hb.SearchBusHandler)
		tickets.POST("/movie/search", hb.SearchMovieHandler)
		tickets.POST("/flight/search", hb.SearchFlightHandler)
	}
}

// RegisterUserRoutes registers user directory endpoints.
func RegisterUserRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	users := api.Group("/users")
	{
		users.POST("/sync", hb.SyncUserHandler)
		users.GET("/:id", hb.GetUserByIDHandler)
		users.PATCH("/:id", hb.UpdateUserHandler)
	}
}

// RegisterAuthRoutes registers identity endpoints.
func RegisterAuthRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	authGroup := api.Group("/auth")
	{
		authGroup.Use(middleware.RequireAuth(hb.AuthService))
		authGroup.GET("/me", hb.MeHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", func(c *gin.Context) {
		body := gin.H{"status": "ok"}
		if hb.Health != nil {
			body["services"] = hb.Health.Status().Services
		}
		c.JSON(http.StatusOK, body)
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, allowedOrigins []string) {
	allowAll := len(allowedOrigins) == 0
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
	}
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if allowAll {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
		corsConfig.AllowCredentials = true
	}
	r.Use(cors.New(corsConfig))

	api := r.Group("/api")
	RegisterChatRoutes(api, hb)
	RegisterAppointmentRoutes(api, hb)
	RegisterTicketRoutes(api, hb)
	RegisterUserRoutes(api, hb)
	RegisterAuthRoutes(api, hb)
	RegisterHealthRoute(r, hb)
}
