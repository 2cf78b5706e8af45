package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrescamacho/dsp-calculator/internal/adapters/metrics"
	"github.com/andrescamacho/dsp-calculator/internal/application/common"
	"github.com/andrescamacho/dsp-calculator/internal/domain/recipe"
)

// CatalogFileLoader parses a recipe catalog file
type CatalogFileLoader interface {
	LoadFile(path string) (*recipe.Catalog, error)
}

// ImportCatalogCommand parses a catalog file and stores it under a name
type ImportCatalogCommand struct {
	Name string
	Path string
}

// ImportCatalogResponse represents the result of importing a catalog
type ImportCatalogResponse struct {
	Name        string
	Source      string
	RecipeCount int
}

// ImportCatalogHandler handles the ImportCatalog command
type ImportCatalogHandler struct {
	loader CatalogFileLoader
	repo   recipe.CatalogRepository
}

// NewImportCatalogHandler creates a new ImportCatalogHandler
func NewImportCatalogHandler(loader CatalogFileLoader, repo recipe.CatalogRepository) *ImportCatalogHandler {
	return &ImportCatalogHandler{
		loader: loader,
		repo:   repo,
	}
}

// Handle executes the ImportCatalog command
func (h *ImportCatalogHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ImportCatalogCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ImportCatalogCommand")
	}

	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, fmt.Errorf("catalog name is required")
	}
	if cmd.Path == "" {
		return nil, fmt.Errorf("catalog file path is required")
	}

	catalog, err := h.loader.LoadFile(cmd.Path)
	if err != nil {
		return nil, err
	}

	if err := h.repo.Save(ctx, name, cmd.Path, catalog); err != nil {
		return nil, fmt.Errorf("failed to save catalog '%s': %w", name, err)
	}

	metrics.RecordCatalogLoad(cmd.Path, catalog.Len())
	common.LoggerFromContext(ctx).Log("INFO", "Catalog imported", map[string]interface{}{
		"catalog": name,
		"source":  cmd.Path,
		"recipes": catalog.Len(),
	})

	return &ImportCatalogResponse{
		Name:        name,
		Source:      cmd.Path,
		RecipeCount: catalog.Len(),
	}, nil
}

// DeleteCatalogCommand removes a stored catalog
type DeleteCatalogCommand struct {
	Name string
}

// DeleteCatalogResponse represents the result of deleting a catalog
type DeleteCatalogResponse struct {
	Name string
}

// DeleteCatalogHandler handles the DeleteCatalog command
type DeleteCatalogHandler struct {
	repo recipe.CatalogRepository
}

// NewDeleteCatalogHandler creates a new DeleteCatalogHandler
func NewDeleteCatalogHandler(repo recipe.CatalogRepository) *DeleteCatalogHandler {
	return &DeleteCatalogHandler{repo: repo}
}

// Handle executes the DeleteCatalog command
func (h *DeleteCatalogHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*DeleteCatalogCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *DeleteCatalogCommand")
	}

	if err := h.repo.Delete(ctx, cmd.Name); err != nil {
		return nil, err
	}

	return &DeleteCatalogResponse{Name: cmd.Name}, nil
}
