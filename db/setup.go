package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/monocle-dev/taskboard/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open returns a gorm handle for the given driver. SQLite handles are limited
// to a single connection so every statement observes the same database.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch driver {
	case DriverPostgres, "postgresql":
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return conn, nil
}

func ConnectDatabase(driver, dsn string) error {
	var err error

	DB, err = Open(driver, dsn)

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase(conn *gorm.DB) error {
	models := []interface{}{
		&models.User{},
		&models.Board{},
		&models.BoardMembership{},
		&models.List{},
		&models.Card{},
	}

	migrator := conn.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := conn.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
