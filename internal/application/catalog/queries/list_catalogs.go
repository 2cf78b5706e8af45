package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/dsp-calculator/internal/application/common"
	"github.com/andrescamacho/dsp-calculator/internal/domain/recipe"
)

// ListCatalogsQuery lists the catalogs stored in the database
type ListCatalogsQuery struct{}

// ListCatalogsResponse represents the stored catalogs, ordered by name
type ListCatalogsResponse struct {
	Catalogs []recipe.CatalogInfo
}

// ListCatalogsHandler handles the ListCatalogs query
type ListCatalogsHandler struct {
	repo recipe.CatalogRepository
}

// NewListCatalogsHandler creates a new ListCatalogsHandler
func NewListCatalogsHandler(repo recipe.CatalogRepository) *ListCatalogsHandler {
	return &ListCatalogsHandler{repo: repo}
}

// Handle executes the ListCatalogs query
func (h *ListCatalogsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*ListCatalogsQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListCatalogsQuery")
	}

	catalogs, err := h.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalogs: %w", err)
	}

	return &ListCatalogsResponse{Catalogs: catalogs}, nil
}
