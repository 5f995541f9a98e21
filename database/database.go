package database

import (
	"errors"
	"fmt"
	"log/slog"

	"utsav/config"
	"utsav/models"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the MySQL connection and migrates the schema
func Init(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	logLevel := logger.Info
	if cfg.Server.Mode == "release" {
		logLevel = logger.Warn
	}

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := Migrate(DB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	slog.Info("database ready", "host", cfg.Database.Host, "db", cfg.Database.DBName)
	return nil
}

// Migrate creates or updates every table. Parents come before children so
// the cascade foreign keys resolve.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Event{},
		&models.Expense{},
		&models.ChecklistItem{},
		&models.GiftToGive{},
		&models.GiftReceived{},
	)
}

// erDupEntry is MySQL's duplicate key error number
const erDupEntry = 1062

// IsDuplicateKey reports a unique index violation, translated by gorm or
// raw from the driver
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == erDupEntry
}
