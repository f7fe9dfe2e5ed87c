// Package handlers exposes the HTTP surface of the ticket API.
package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/devdesk/backend/auth"
	"github.com/devdesk/backend/middleware"
	"github.com/devdesk/backend/services"
)

// RouterDeps carries everything the router needs. EventHub may be nil; the
// stream endpoint then reports unavailable.
type RouterDeps struct {
	Tokens  *auth.TokenService
	Auth    *services.AuthService
	Users   *services.UserService
	Tickets *services.TicketService
	Hub     *services.EventHub
}

// NewRouter builds the gin engine with CORS, the health check and all API
// routes. Ticket and user routes require a verified token.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.Default()

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(config))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	authHandler := NewAuthHandler(deps.Auth)
	userHandler := NewUserHandler(deps.Users, deps.Tickets)
	ticketHandler := NewTicketHandler(deps.Tickets)
	eventHandler := NewEventHandler(deps.Hub)

	requireAuth := middleware.RequireAuth(deps.Tokens)

	// WebSocket route for the live ticket event stream (outside /api group)
	router.GET("/ws/events", eventHandler.Stream)

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
		}

		users := api.Group("/users", requireAuth)
		{
			users.GET("", userHandler.List)
			users.GET("/:id/tickets/created", userHandler.CreatedTickets)
			users.GET("/:id/tickets/assigned", userHandler.AssignedTickets)
		}

		tickets := api.Group("/tickets", requireAuth)
		{
			tickets.GET("", ticketHandler.List)
			tickets.GET("/:id", ticketHandler.Get)
			tickets.POST("", ticketHandler.Create)
			tickets.PUT("/:id", ticketHandler.Update)
			tickets.DELETE("/:id", ticketHandler.Remove)
		}

		events := api.Group("/events", requireAuth)
		{
			events.GET("/stats", eventHandler.Stats)
		}
	}

	return router
}
