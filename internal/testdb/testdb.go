// Package testdb provides throwaway databases for package tests.
package testdb

import (
	"fmt"
	"testing"

	"go-inventory-history/internal/config"
	"go-inventory-history/pkg/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// New returns a migrated in-memory SQLite database private to t.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		URL:          fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", uuid.NewString()),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	}

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("connect test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if err := database.Close(db); err != nil {
			t.Logf("close test database: %v", err)
		}
	})
	return db
}
