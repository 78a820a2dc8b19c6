package database

import (
	"fmt"
	"time"

	"github.com/dustin/movies-backend/config"
	"github.com/dustin/movies-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// NewConnection opens the configured database. postgres is the default driver;
// sqlite is meant for local development and tests.
func NewConnection(cfg *config.DatabaseConfig, log *logger.Logger) (*gorm.DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverPostgres
	}

	gormCfg := &gorm.Config{
		// Maps driver-specific unique violations to gorm.ErrDuplicatedKey
		TranslateError: true,
		Logger:         logger.NewGormLogger(log, 200*time.Millisecond),
	}

	switch driver {
	case DriverPostgres:
		return gorm.Open(postgres.Open(postgresDSN(cfg)), gormCfg)
	case DriverSQLite:
		path := cfg.Path
		if path == "" {
			path = "movies.db"
		}
		return OpenSQLite(path, gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver '%s'", driver)
	}
}

// OpenSQLite opens a sqlite database with a single connection. sqlite serializes
// writers anyway, and one connection keeps in-memory databases alive and shared.
func OpenSQLite(dsn string, gormCfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

func postgresDSN(cfg *config.DatabaseConfig) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == "" {
		port = "5432"
	}

	user := cfg.User
	if user == "" {
		user = "postgres"
	}

	dbName := cfg.DBName
	if dbName == "" {
		dbName = "movies"
	}

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	// Note: empty password is valid for local development

	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host, user, cfg.Password, dbName, port, sslMode)
}
