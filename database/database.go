package database

import (
	"log"
	"os"

	"studydeck-app/internal/domain/decks"
	"studydeck-app/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	DB = db

	if err := Migrate(DB); err != nil {
		log.Fatal("AutoMigrate error:", err)
	}

	log.Println("Connected and migrated successfully")
}

// Migrate is shared with the test suite, which runs against sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},

		&decks.Deck{},
		&decks.Card{},
		&decks.PublishedDeck{},
		&decks.PublishedCard{},
	)
}
