package helpers

import (
	"testing"

	"gorm.io/gorm"

	"github.com/andrescamacho/dsp-calculator/internal/infrastructure/database"
)

// NewTestDB creates a migrated SQLite in-memory catalog store for testing
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.NewTestConnection()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		database.Close(db)
	})

	return db
}
