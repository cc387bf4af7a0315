package database

import (
	"fmt"
	"log"
	"os"

	"delivery-app/config"
	"delivery-app/internal/domain/delivery"
	"delivery-app/internal/domain/profiles"

	"golang.org/x/crypto/bcrypt"
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

	// Required for uuid defaults on the session/artwork tables.
	if err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Fatal("Failed to enable pgcrypto extension:", err)
	}

	if err := DB.AutoMigrate(
		&profiles.Profile{},
		&delivery.Session{},
		&delivery.Artwork{},
	); err != nil {
		log.Fatal("AutoMigrate error:", err)
	}

	seedSuperAdmin()

	fmt.Println("Connected and migrated successfully")
}

// seedSuperAdmin creates the bootstrap account on a fresh database so someone
// can provision the rest of the staff. No-op when unset or already present.
func seedSuperAdmin() {
	if config.SUPER_ADMIN_EMAIL == "" || config.SUPER_ADMIN_PASSWORD == "" {
		return
	}

	var count int64
	DB.Model(&profiles.Profile{}).Where("email = ?", config.SUPER_ADMIN_EMAIL).Count(&count)
	if count > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(config.SUPER_ADMIN_PASSWORD), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash super admin password:", err)
	}
	password := string(hashed)

	admin := profiles.Profile{
		Email:        config.SUPER_ADMIN_EMAIL,
		Password:     &password,
		AuthProvider: "local",
		Role:         profiles.RoleSuperAdmin,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to seed super admin:", err)
	}
	log.Printf("Seeded super admin account %s", config.SUPER_ADMIN_EMAIL)
}
