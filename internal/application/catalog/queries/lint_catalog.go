package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/dsp-calculator/internal/application/common"
)

// LintCatalogQuery checks the loaded catalog for ambiguous raw classification
type LintCatalogQuery struct{}

// LintCatalogResponse lists resources produced by both raw and processed recipes
type LintCatalogResponse struct {
	MixedRawProducers []string
}

// Clean returns true if the lint found nothing
func (r *LintCatalogResponse) Clean() bool {
	return len(r.MixedRawProducers) == 0
}

// LintCatalogHandler handles the LintCatalog query
type LintCatalogHandler struct {
	catalog CatalogReader
}

// NewLintCatalogHandler creates a new LintCatalogHandler
func NewLintCatalogHandler(catalog CatalogReader) *LintCatalogHandler {
	return &LintCatalogHandler{
		catalog: catalog,
	}
}

// Handle executes the LintCatalog query
func (h *LintCatalogHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*LintCatalogQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *LintCatalogQuery")
	}

	logger := common.LoggerFromContext(ctx)
	mixed := h.catalog.MixedRawProducers()
	for _, resource := range mixed {
		// The resolver treats these as raw and never expands them
		logger.Log("WARN", "Resource has both raw and processed producers", map[string]interface{}{
			"resource": resource,
		})
	}

	return &LintCatalogResponse{
		MixedRawProducers: mixed,
	}, nil
}
