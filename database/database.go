package database

import (
	"fmt"
	"log"
	"os"

	"vpn-backend/internal/domain/devices"
	"vpn-backend/internal/domain/plans"
	"vpn-backend/internal/domain/servers"
	"vpn-backend/internal/domain/subscriptions"
	"vpn-backend/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("❌ DB_URL not set")
	}

	// TranslateError turns unique violations into gorm.ErrDuplicatedKey,
	// which the HTTP boundary maps to 409.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}

	DB = db

	if err := DB.AutoMigrate(
		&users.User{},
		&plans.Plan{},
		&subscriptions.Subscription{},
		&devices.Device{},
		&servers.Server{},
	); err != nil {
		log.Fatal("❌ AutoMigrate error:", err)
	}

	if err := SeedSystemPlans(DB); err != nil {
		log.Fatal("❌ Plan seed error:", err)
	}

	fmt.Println("✅ Connected and migrated successfully")
}

// SeedSystemPlans makes sure the free tier exists; Ensure() binds new
// users to it and it must never be missing.
func SeedSystemPlans(db *gorm.DB) error {
	var count int64
	if err := db.Model(&plans.Plan{}).Where("code = ?", plans.FreeCode).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	free := plans.Plan{
		Code:       plans.FreeCode,
		Name:       "Free",
		PriceCents: 0,
		Currency:   "USD",
		MaxServers: 1,
		MaxDevices: 1,
		IsActive:   true,
	}
	return db.Create(&free).Error
}
