package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens the catalog database. DB_DRIVER=sqlite selects an embedded
// file database (DB_PATH); anything else is Postgres, with the DSN either
// taken verbatim from DB_DSN or composed from the four credential variables.
func NewDB() (*gorm.DB, error) {
	logMode := logger.Info
	if os.Getenv("GORM_LOG") == "off" {
		logMode = logger.Silent
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // Use log.Logger for Printf support
		logger.Config{
			SlowThreshold: time.Second, // Slow SQL threshold
			LogLevel:      logMode,     // Log level
			Colorful:      true,        // Enable color
		},
	)

	var dial gorm.Dialector
	if os.Getenv("DB_DRIVER") == "sqlite" {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "catalog.db"
		}
		dial = sqlite.Open(path)
	} else {
		dsn := os.Getenv("DB_DSN")
		if dsn == "" {
			user := os.Getenv("DB_USER")
			pass := os.Getenv("DB_PASS")
			port := os.Getenv("DB_PORT")
			name := os.Getenv("DB_NAME")
			if port == "" {
				port = "5432"
			}
			dsn = fmt.Sprintf("postgresql://%s:%s@localhost:%s/%s", user, pass, port, name)
		}
		dial = postgres.Open(dsn)
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}
