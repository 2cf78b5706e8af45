package queries

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrescamacho/dsp-calculator/internal/application/common"
	"github.com/andrescamacho/dsp-calculator/internal/domain/recipe"
)

// Lookup modes supported by FindRecipesQuery
const (
	ModeAll   = "all"
	ModeMakes = "makes"
	ModeUses  = "uses"
	ModeName  = "name"
)

// CatalogReader is the read side of a recipe catalog
type CatalogReader interface {
	Recipes() []recipe.Recipe
	RecipesThatMake(resource string) []recipe.Recipe
	RecipesThatUse(resource string) []recipe.Recipe
	Find(name string) (recipe.Recipe, bool)
	MixedRawProducers() []string
}

// FindRecipesQuery looks recipes up in the loaded catalog
type FindRecipesQuery struct {
	Mode string // One of ModeAll, ModeMakes, ModeUses, ModeName (empty means ModeAll)
	Term string // Resource or recipe name, ignored for ModeAll
}

// FindRecipesResponse lists matching recipes in catalog order
type FindRecipesResponse struct {
	Mode    string
	Term    string
	Recipes []recipe.Recipe
}

// FindRecipesHandler handles the FindRecipes query
type FindRecipesHandler struct {
	catalog CatalogReader
}

// NewFindRecipesHandler creates a new FindRecipesHandler
func NewFindRecipesHandler(catalog CatalogReader) *FindRecipesHandler {
	return &FindRecipesHandler{
		catalog: catalog,
	}
}

// Handle executes the FindRecipes query
func (h *FindRecipesHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*FindRecipesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *FindRecipesQuery")
	}

	mode := query.Mode
	if mode == "" {
		mode = ModeAll
	}
	term := strings.TrimSpace(query.Term)
	if mode != ModeAll && term == "" {
		return nil, fmt.Errorf("a resource or recipe name is required for mode '%s'", mode)
	}

	var recipes []recipe.Recipe
	switch mode {
	case ModeAll:
		recipes = h.catalog.Recipes()
	case ModeMakes:
		recipes = h.catalog.RecipesThatMake(term)
	case ModeUses:
		recipes = h.catalog.RecipesThatUse(term)
	case ModeName:
		found, exists := h.catalog.Find(term)
		if !exists {
			return nil, fmt.Errorf("recipe '%s' not found", term)
		}
		recipes = []recipe.Recipe{found}
	default:
		return nil, fmt.Errorf("unknown lookup mode '%s'", mode)
	}

	return &FindRecipesResponse{
		Mode:    mode,
		Term:    term,
		Recipes: recipes,
	}, nil
}
