package config

import (
	"time"

	"github.com/suraj371k/trello/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB opens the database connection and migrates the board tables.
// TranslateError lets duplicate-key violations surface as
// gorm.ErrDuplicatedKey regardless of driver.
func InitDB(config Config) error {
	dsn := config.GetDBConnString()

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
		// References to users and tasks are borrowed, not owned: a task may
		// outlive its assignee and a log entry outlives its task. No FK
		// constraints, joins are resolved at read time.
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return err
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return MigrateDB(DB)
}

// MigrateDB migrates the board tables. The unique index on task titles is
// part of the schema: uniqueness is enforced by the store, not the service.
func MigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.ActionLog{},
	)
}
