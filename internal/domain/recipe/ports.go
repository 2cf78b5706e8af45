package recipe

import (
	"context"
	"time"
)

// CatalogInfo describes a catalog stored in a CatalogRepository
type CatalogInfo struct {
	Name        string
	Source      string
	RecipeCount int
	ImportedAt  time.Time
}

// CatalogRepository defines the persistence interface for recipe catalogs.
// Only the recipe definitions are stored; computed trees never are.
type CatalogRepository interface {
	// Save replaces the named catalog with the given recipes
	Save(ctx context.Context, name, source string, catalog *Catalog) error

	// Load rebuilds the named catalog, preserving source order
	Load(ctx context.Context, name string) (*Catalog, error)

	// List returns every stored catalog
	List(ctx context.Context) ([]CatalogInfo, error)

	// Delete removes the named catalog and its recipes
	Delete(ctx context.Context, name string) error
}
