package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqliteDSN appends the pragmas every tenant connection runs with
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// openSQLite opens a SQLite file with a single connection. The engine allows
// one writer per file; keeping one connection makes transactions exclusive.
func openSQLite(path string) (*gorm.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(sqliteDSN(path)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// OpenTenant opens an existing or new tenant database file without touching its schema
func OpenTenant(path string) (*TenantStore, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	return &TenantStore{scope: scope{db: db}, name: filepath.Base(path)}, nil
}

// CreateTenant opens a tenant database file, creating it if needed, and pushes the schema
func CreateTenant(path string) (*TenantStore, error) {
	s, err := OpenTenant(path)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}
