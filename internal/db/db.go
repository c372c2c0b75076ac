package db

import (
	"log"
	"os"

	"fanpulse/internal/config"
	"fanpulse/internal/models"
	"fanpulse/internal/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=fanpulse port=5432 sslmode=disable TimeZone=Asia/Kolkata"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	err = DB.AutoMigrate(
		&models.Contestant{},
		&models.Discussion{},
		&models.Reaction{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	seedContestants()
}

func seedContestants() {
	var count int64
	DB.Model(&models.Contestant{}).Count(&count)
	if count > 0 {
		log.Println("Contestants already seeded, skipping")
		return
	}

	for _, contestant := range config.Get().Contestants {
		if contestant.Initials == "" {
			contestant.Initials = utils.Initials(contestant.Name)
		}
		if err := DB.Create(&contestant).Error; err != nil {
			log.Printf("Failed to create contestant %s: %v", contestant.Name, err)
		}
	}
	log.Println("Initial contestant lineup created successfully")
}
