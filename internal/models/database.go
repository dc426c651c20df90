package models

import (
	"fmt"

	"github.com/njeri-dev/tafsiri/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&User{},
		&Category{},
		&Contribution{},
		&ContributionRating{},
		&ContentFilter{},
		&AuditLog{},
		&ContentAuditLog{},
		&SystemConfig{},
		&SystemLog{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// SeedDefaultData creates default categories and system configs if not present.
func SeedDefaultData() error {
	defaultCategories := []Category{
		{Name: "greetings", Description: "Everyday greetings and pleasantries"},
		{Name: "proverbs", Description: "Kikuyu proverbs and sayings (thimo)"},
		{Name: "family", Description: "Family and kinship terms"},
		{Name: "agriculture", Description: "Farming, crops and livestock"},
		{Name: "food", Description: "Food, cooking and meals"},
		{Name: "numbers", Description: "Numbers and counting"},
		{Name: "time", Description: "Days, seasons and telling time"},
		{Name: "culture", Description: "Ceremonies, customs and traditions"},
	}

	for _, cat := range defaultCategories {
		var count int64
		DB.Model(&Category{}).Where("name = ?", cat.Name).Count(&count)
		if count == 0 {
			if err := DB.Create(&cat).Error; err != nil {
				return err
			}
		}
	}

	defaultConfigs := []SystemConfig{
		{Key: "log_retention_days", Value: "30", Type: "int", Group: "system", Label: "System Log Retention Days"},
		{Key: "bulk_operation_cap", Value: "500", Type: "int", Group: "moderation", Label: "Max Items Per Bulk Operation"},
	}

	for _, cfg := range defaultConfigs {
		var count int64
		DB.Model(&SystemConfig{}).Where("key = ?", cfg.Key).Count(&count)
		if count == 0 {
			if err := DB.Create(&cfg).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
