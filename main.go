package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/devdesk/backend/auth"
	"github.com/devdesk/backend/config"
	"github.com/devdesk/backend/database"
	"github.com/devdesk/backend/handlers"
	"github.com/devdesk/backend/natsserver"
	"github.com/devdesk/backend/services"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Start embedded NATS server for the ticket event stream
	natsServer, err := natsserver.New(natsserver.Config{Port: cfg.NATSPort})
	if err != nil {
		log.Fatalf("❌ Failed to start NATS server: %v", err)
	}
	defer natsServer.Shutdown()

	// Event hub for WebSocket streaming
	hub, err := services.NewEventHub(natsServer.Conn())
	if err != nil {
		log.Fatalf("❌ Failed to start event hub: %v", err)
	}
	defer hub.Shutdown()
	go hub.Run()

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("❌ Failed to configure tokens: %v", err)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handlers.NewRouter(handlers.RouterDeps{
		Tokens:  tokens,
		Auth:    services.NewAuthService(db, tokens),
		Users:   services.NewUserService(db),
		Tickets: services.NewTicketService(db, natsServer.Conn()),
		Hub:     hub,
	})

	log.Printf("🚀 Server running on http://localhost:%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
