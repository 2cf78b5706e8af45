package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/dsp-calculator/internal/infrastructure/config"
)

func TestNewConnection_UnsupportedType(t *testing.T) {
	_, err := NewConnection(&config.DatabaseConfig{Type: "mysql"})

	assert.EqualError(t, err, "unsupported database type: mysql")
}

func TestNewConnection_SQLiteFileMigrates(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "catalogs.db")

	// Act
	db, err := NewConnection(&config.DatabaseConfig{Type: "sqlite", Path: path})
	require.NoError(t, err)
	defer Close(db)

	// Assert
	require.NoError(t, AutoMigrate(db))
	assert.True(t, db.Migrator().HasTable("recipe_catalogs"))
	assert.True(t, db.Migrator().HasTable("recipes"))
}

func TestNewTestConnection(t *testing.T) {
	db, err := NewTestConnection()
	require.NoError(t, err)
	defer Close(db)

	assert.True(t, db.Migrator().HasTable("recipes"))
}
