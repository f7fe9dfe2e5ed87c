package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/devdesk/backend/config"
	"github.com/devdesk/backend/database"
	"github.com/devdesk/backend/models"
)

var sampleTickets = []models.Ticket{
	{Title: "Cannot log in after password reset", Description: "Reset email arrived but the new password is rejected", Tried: "Cleared cookies, tried two browsers"},
	{Title: "Dashboard times out", Description: "The reporting dashboard spins forever on Mondays", Tried: "Refreshing, smaller date range"},
	{Title: "Export produces empty CSV", Description: "Exporting closed tickets yields a file with only headers", Tried: "Different date filters"},
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	fmt.Println("🌱 Starting seed...")

	// Demo user, created only if absent
	username := "demo"
	var count int64
	db.Model(&models.User{}).Where("username = ?", username).Count(&count)

	var user models.User
	if count == 0 {
		hashed, err := bcrypt.GenerateFromPassword([]byte("demo-pass"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("❌ Failed to hash password: %v", err)
		}
		user = models.User{Username: username, PasswordHash: string(hashed)}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("❌ Failed to create demo user: %v", err)
		}
		fmt.Printf("✅ Created demo user (id=%d)\n", user.ID)
	} else {
		if err := db.Where("username = ?", username).First(&user).Error; err != nil {
			log.Fatalf("❌ Failed to load demo user: %v", err)
		}
		fmt.Println("Demo user already exists, skipping")
	}

	created := 0
	for _, t := range sampleTickets {
		t.CreatedBy = user.ID
		var existing int64
		db.Model(&models.Ticket{}).Where("title = ? AND created_by = ?", t.Title, user.ID).Count(&existing)
		if existing > 0 {
			continue
		}
		if err := db.Create(&t).Error; err != nil {
			log.Fatalf("❌ Failed to create ticket %q: %v", t.Title, err)
		}
		created++
	}

	fmt.Printf("✅ Seed complete: %d tickets created\n", created)
}
