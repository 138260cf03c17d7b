package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return nil
}

// SharedModels lists every table owned by the core service. Feature plugins
// add their own through MigrateModels.
func SharedModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.RefreshToken{},
		&models.RoleRecord{},
		&models.UserRole{},
		&models.Report{},
		&models.Block{},
		&models.SystemLog{},
	}
}

// MigrateShared runs AutoMigrate for shared models and seeds reference rows.
func MigrateShared() error {
	if err := DB.AutoMigrate(SharedModels()...); err != nil {
		return err
	}
	return SeedRoles(DB)
}

// MigrateModels runs AutoMigrate for arbitrary models (used by plugins).
func MigrateModels(modelList []interface{}) error {
	if len(modelList) == 0 {
		return nil
	}
	return DB.AutoMigrate(modelList...)
}

// SeedRoles inserts the fixed role set, leaving existing rows untouched.
func SeedRoles(db *gorm.DB) error {
	for _, r := range models.AllRoles() {
		rec := models.RoleRecord{Name: r}
		if err := db.Where(models.RoleRecord{Name: r}).FirstOrCreate(&rec).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", r, err)
		}
	}
	return nil
}

// SeedAwards inserts the education levels used by academic qualifications.
func SeedAwards(db *gorm.DB) error {
	for _, name := range models.DefaultAwards {
		rec := models.Award{Name: name}
		if err := db.Where(models.Award{Name: name}).FirstOrCreate(&rec).Error; err != nil {
			return fmt.Errorf("seed award %s: %w", name, err)
		}
	}
	return nil
}

func Ping() error {
	if DB == nil {
		return fmt.Errorf("database not connected")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
