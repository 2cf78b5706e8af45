package queries

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrescamacho/dsp-calculator/internal/application/common"
	"github.com/andrescamacho/dsp-calculator/internal/domain/production"
)

// ForestResolver builds every production tree for a resource
type ForestResolver interface {
	Resolve(ctx context.Context, resource string, includeRaw bool) (production.Forest, error)
}

// ResolveProductionTreesQuery asks for all production trees of a resource
type ResolveProductionTreesQuery struct {
	Resource   string
	IncludeRaw bool // Expand inputs that come from raw extraction recipes
}

// ResolveProductionTreesResponse carries one tree per producing recipe
type ResolveProductionTreesResponse struct {
	Resource   string
	IncludeRaw bool
	Trees      production.Forest
}

// ResolveProductionTreesHandler handles the ResolveProductionTrees query
type ResolveProductionTreesHandler struct {
	resolver ForestResolver
}

// NewResolveProductionTreesHandler creates a new ResolveProductionTreesHandler
func NewResolveProductionTreesHandler(resolver ForestResolver) *ResolveProductionTreesHandler {
	return &ResolveProductionTreesHandler{
		resolver: resolver,
	}
}

// Handle executes the ResolveProductionTrees query
func (h *ResolveProductionTreesHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ResolveProductionTreesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ResolveProductionTreesQuery")
	}

	resource := strings.TrimSpace(query.Resource)
	if resource == "" {
		return nil, fmt.Errorf("resource is required")
	}

	trees, err := h.resolver.Resolve(ctx, resource, query.IncludeRaw)
	if err != nil {
		return nil, err
	}

	return &ResolveProductionTreesResponse{
		Resource:   resource,
		IncludeRaw: query.IncludeRaw,
		Trees:      trees,
	}, nil
}
