package database

import (
	"fmt"
)

// TenantStore is an open tenant database
type TenantStore struct {
	scope
	name string
}

// Name returns the database filename the store was opened from
func (s *TenantStore) Name() string {
	return s.name
}

// Migrate creates or updates the tenant tables
func (s *TenantStore) Migrate() error {
	if err := s.db.AutoMigrate(tenantModels()...); err != nil {
		return fmt.Errorf("failed to migrate tenant database: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *TenantStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
