package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/andrescamacho/dsp-calculator/internal/adapters/metrics"
	"github.com/andrescamacho/dsp-calculator/internal/application/common"
	"github.com/andrescamacho/dsp-calculator/internal/domain/production"
	"github.com/andrescamacho/dsp-calculator/internal/domain/recipe"
	"github.com/andrescamacho/dsp-calculator/pkg/utils"
)

// maxSuggestions caps the "did you mean" list of an UnknownResourceError
const maxSuggestions = 3

// RecipeCatalog is the read-only catalog view the resolver needs
type RecipeCatalog interface {
	RecipesThatMake(resource string) []recipe.Recipe
	Resources() []string
}

// TreeResolver builds production trees for a requested resource.
//
// One tree is built per recipe producing the resource. Each tree is expanded
// depth-first: every input of a recipe is expanded into the recipes that
// produce it. When raw expansion is off, the first input sourced from a raw
// recipe ends the expansion of that recipe, including the inputs after it.
//
// A visited-outputs set, owned by the tree being built, stops a branch as
// soon as a recipe would produce a resource already placed anywhere in the
// tree. Only the first producer of a resource is therefore placed, every
// resource appears at most once per tree, and cycles such as A(X<-Y),
// B(Y<-X) terminate.
//
// The resolver never mutates the catalog, so concurrent Resolve calls over
// one catalog are safe.
type TreeResolver struct {
	catalog     RecipeCatalog
	idGenerator func(resource string) string
}

// NewTreeResolver creates a resolver over the given catalog
func NewTreeResolver(catalog RecipeCatalog) *TreeResolver {
	return &TreeResolver{
		catalog:     catalog,
		idGenerator: utils.GenerateTreeID,
	}
}

// Resolve returns one production tree per recipe producing resource, in
// catalog order. When includeRaw is false, a recipe is expanded only up to
// its first input sourced from a raw recipe.
//
// Returns *recipe.UnknownResourceError if nothing produces the resource.
func (r *TreeResolver) Resolve(ctx context.Context, resource string, includeRaw bool) (production.Forest, error) {
	logger := common.LoggerFromContext(ctx)
	start := time.Now()

	producers := r.catalog.RecipesThatMake(resource)
	if len(producers) == 0 {
		metrics.RecordResolution(resource, includeRaw, metrics.StatusUnknownResource, 0, 0, time.Since(start))
		return nil, &recipe.UnknownResourceError{
			Resource:    resource,
			Suggestions: r.suggest(resource),
		}
	}

	forest := make(production.Forest, 0, len(producers))
	for _, producer := range producers {
		if err := ctx.Err(); err != nil {
			metrics.RecordResolution(resource, includeRaw, metrics.StatusCancelled, 0, 0, time.Since(start))
			return nil, err
		}

		// A fresh visited set never blocks the root
		root := r.buildTree(producer, includeRaw, make(map[string]bool))
		forest = append(forest, production.NewProductionTree(r.idGenerator(resource), resource, includeRaw, root))
	}

	metrics.RecordResolution(resource, includeRaw, metrics.StatusSuccess, len(forest), forest.TotalNodes(), time.Since(start))
	logger.Log("DEBUG", "Production trees resolved", map[string]interface{}{
		"resource":    resource,
		"include_raw": includeRaw,
		"trees":       len(forest),
		"nodes":       forest.TotalNodes(),
	})

	return forest, nil
}

// buildTree returns the subtree rooted at rec, or nil when one of rec's
// outputs is already part of the tree being built.
func (r *TreeResolver) buildTree(rec recipe.Recipe, includeRaw bool, visitedOutputs map[string]bool) *production.ProductionNode {
	outputs := rec.OutputNames()
	for _, output := range outputs {
		if visitedOutputs[output] {
			return nil
		}
	}
	for _, output := range outputs {
		visitedOutputs[output] = true
	}

	node := production.NewProductionNode(rec)

	for _, input := range rec.InputNames() {
		producers := r.catalog.RecipesThatMake(input)
		if !includeRaw && anyRaw(producers) {
			break
		}

		for _, producer := range producers {
			if child := r.buildTree(producer, includeRaw, visitedOutputs); child != nil {
				node.AddChild(child)
			}
		}
	}

	return node
}

// anyRaw returns true if any of the recipes is flagged raw
func anyRaw(recipes []recipe.Recipe) bool {
	for _, rec := range recipes {
		if rec.Raw {
			return true
		}
	}
	return false
}

// suggest returns up to maxSuggestions producible resources whose names are
// close to the requested one, closest first.
func (r *TreeResolver) suggest(resource string) []string {
	type candidate struct {
		name     string
		distance int
	}

	wanted := strings.ToLower(resource)
	threshold := len(wanted) / 3
	if threshold < 2 {
		threshold = 2
	}

	candidates := make([]candidate, 0)
	for _, name := range r.catalog.Resources() {
		if len(r.catalog.RecipesThatMake(name)) == 0 {
			continue
		}
		distance := levenshtein.ComputeDistance(wanted, strings.ToLower(name))
		if distance <= threshold {
			candidates = append(candidates, candidate{name: name, distance: distance})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].name < candidates[j].name
	})

	result := make([]string, 0, maxSuggestions)
	for _, c := range candidates {
		if len(result) == maxSuggestions {
			break
		}
		result = append(result, c.name)
	}
	return result
}
