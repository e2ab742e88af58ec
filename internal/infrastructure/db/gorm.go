package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"egsa-loan-service/internal/config"
)

// Open picks the dialector from config: a local sqlite file by default,
// mysql when DB_DRIVER=mysql.
func Open(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "", "sqlite":
		gdb, err := OpenWithDialector(sqlite.Open(cfg.SQLitePath))
		if err != nil {
			return nil, err
		}
		// A file-backed sqlite DB serializes writers anyway; a single
		// connection avoids SQLITE_BUSY under concurrent handlers.
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
		return gdb, nil
	case "mysql":
		gdb, err := OpenWithDialector(mysql.Open(cfg.MySQLDSN()))
		if err != nil {
			return nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(30)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
		return gdb, nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}

// OpenWithDialector opens gorm over any dialector and pings the
// underlying connection before handing it out.
func OpenWithDialector(dial gorm.Dialector) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	gdb, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	log.Println("gorm: connected")
	return gdb, nil
}
