package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens the bridge database. DB_DRIVER selects the backend:
// "sqlite" (default, local file like the original deployment) or "mysql".
func NewDB() (*gorm.DB, error) {
	logMode := logger.Info
	if os.Getenv("GORM_LOG") == "off" {
		logMode = logger.Silent
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logMode,
			Colorful:      true,
		},
	)

	cfg := &gorm.Config{Logger: gormLogger}

	switch GetEnv("DB_DRIVER", "sqlite") {
	case "mysql":
		dsn := os.Getenv("MYSQL_DSN")
		if dsn == "" {
			user := os.Getenv("MYSQL_USER")
			pass := os.Getenv("MYSQL_PASS")
			host := os.Getenv("MYSQL_HOST")
			port := GetEnv("MYSQL_PORT", "3306")
			db := os.Getenv("MYSQL_DB")
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=Local", user, pass, host, port, db)
		}
		return gorm.Open(mysql.Open(dsn), cfg)
	default:
		path := GetEnv("SQLITE_PATH", "data/vsdc.sqlite")
		return gorm.Open(sqlite.Open(path), cfg)
	}
}
