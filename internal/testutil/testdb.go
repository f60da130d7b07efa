package testutil

import (
	"healthassistant/database"
	"healthassistant/internal/config"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"
)

// NewTestDB creates a file-backed SQLite database in a temp directory with all
// migrations applied. The database is closed when the test completes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}, time.UTC)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := database.MigrateDatabase(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}
