package db

import (
	"fmt"
	"time"

	"fashigram/internal/models"
	"fashigram/internal/utils/log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the connection, migrates the schema and seeds the style catalogue.
func Init(dsn string) error {
	conn, err := Open(dsn)
	if err != nil {
		return err
	}
	if err := Migrate(conn); err != nil {
		return err
	}
	DB = conn
	return nil
}

func Open(dsn string) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.Log,
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Log.Info("Database connection established")
	return conn, nil
}

func Migrate(conn *gorm.DB) error {
	err := conn.AutoMigrate(
		&models.Post{},
		&models.PostImage{},
		&models.Vote{},
		&models.Style{},
		&models.Circle{},
		&models.CircleMember{},
		&models.SpotlightEntry{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	log.Log.Info("Database migration completed")

	return seedStyles(conn)
}

func seedStyles(conn *gorm.DB) error {
	// 已有风格数据则跳过
	var count int64
	if err := conn.Model(&models.Style{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count styles: %w", err)
	}
	if count > 0 {
		log.Log.Debug("Styles already seeded, skipping")
		return nil
	}

	styles := models.CatalogueStyles()
	if err := conn.CreateInBatches(&styles, 100).Error; err != nil {
		return fmt.Errorf("seed styles: %w", err)
	}
	log.Log.WithField("count", len(styles)).Info("Initial styles created")
	return nil
}
