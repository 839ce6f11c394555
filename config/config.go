package config

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vkarpenko/venuebook/internal/models"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

func LoadConfig() (*Config, error) {
	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
	}, nil
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := MigrateAndSeed(db); err != nil {
		return nil, err
	}

	return db, nil
}

// MigrateAndSeed creates the schema and fills the lookup tables. Shared by
// the postgres startup path and the test database.
func MigrateAndSeed(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Address{},
		&models.Equipment{},
		&models.Characteristic{},
		&models.Service{},
		&models.Photo{},
		&models.Place{},
		&models.PlacePhoto{},
		&models.EventType{},
		&models.Event{},
		&models.Status{},
		&models.Application{},
		&models.PlaceReview{},
		&models.UserFavorite{},
		&models.UserViewHistory{},
	)
	if err != nil {
		return err
	}

	seedRoles(db)
	seedStatuses(db)

	return nil
}

func seedRoles(db *gorm.DB) {
	roles := []models.Role{
		{ID: 1, Name: "admin"},
		{ID: 2, Name: "manager"},
		{ID: 3, Name: "user"},
	}

	for _, role := range roles {
		var existingRole models.Role
		result := db.Where("id = ?", role.ID).First(&existingRole)
		if result.Error != nil {
			db.Create(&role)
		}
	}
}

func seedStatuses(db *gorm.DB) {
	statuses := []models.Status{
		{ID: 1, Name: "New"},
		{ID: 2, Name: "In progress"},
		{ID: 3, Name: "Completed"},
		{ID: 4, Name: "Cancelled"},
	}

	for _, status := range statuses {
		var existingStatus models.Status
		result := db.Where("id = ?", status.ID).First(&existingStatus)
		if result.Error != nil {
			db.Create(&status)
		}
	}
}
