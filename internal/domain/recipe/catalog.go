package recipe

import (
	"fmt"
	"sort"
)

// Catalog is an immutable collection of recipes indexed by the resources they
// produce and consume.
//
// A Catalog is read-only after NewCatalog returns, so any number of goroutines
// may query it concurrently without locking.
type Catalog struct {
	recipes  []Recipe
	byOutput map[string][]int
	byInput  map[string][]int
	byName   map[string][]int
}

// NewCatalog validates the recipes and builds the lookup indexes.
// Source order is preserved by every query.
func NewCatalog(recipes []Recipe) (*Catalog, error) {
	c := &Catalog{
		recipes:  make([]Recipe, 0, len(recipes)),
		byOutput: make(map[string][]int),
		byInput:  make(map[string][]int),
		byName:   make(map[string][]int),
	}

	seen := make(map[RecipeKey]int, len(recipes))
	for i, r := range recipes {
		if err := validateRecipe(i, r); err != nil {
			return nil, err
		}

		key := r.Key()
		if first, exists := seen[key]; exists {
			return nil, &InvalidRecipeError{
				Index:  i,
				Name:   r.Name,
				Reason: fmt.Sprintf("duplicates recipe #%d (same name, facility and outputs)", first+1),
			}
		}
		seen[key] = i

		idx := len(c.recipes)
		c.recipes = append(c.recipes, r)
		c.byName[r.Name] = append(c.byName[r.Name], idx)
		for _, name := range r.OutputNames() {
			c.byOutput[name] = append(c.byOutput[name], idx)
		}
		for _, name := range r.InputNames() {
			c.byInput[name] = append(c.byInput[name], idx)
		}
	}

	return c, nil
}

func validateRecipe(index int, r Recipe) error {
	if r.Name == "" {
		return &InvalidRecipeError{Index: index, Field: "name", Reason: "is required"}
	}
	if r.Time < 0 {
		return &InvalidRecipeError{Index: index, Name: r.Name, Field: "time", Reason: "must not be negative"}
	}
	if len(r.Outputs) == 0 {
		return &InvalidRecipeError{Index: index, Name: r.Name, Field: "outputs", Reason: "must list at least one resource"}
	}
	if err := validateStacks(index, r.Name, "inputs", r.Inputs); err != nil {
		return err
	}
	return validateStacks(index, r.Name, "outputs", r.Outputs)
}

func validateStacks(index int, name, field string, stacks []ItemStack) error {
	for _, stack := range stacks {
		if stack.Name == "" {
			return &InvalidRecipeError{Index: index, Name: name, Field: field, Reason: "contains an entry without a name"}
		}
		if stack.Count <= 0 {
			return &InvalidRecipeError{Index: index, Name: name, Field: field, Reason: fmt.Sprintf("count for %s must be positive", stack.Name)}
		}
	}
	return nil
}

// Len returns the number of recipes in the catalog
func (c *Catalog) Len() int {
	return len(c.recipes)
}

// Recipes returns all recipes in source order
func (c *Catalog) Recipes() []Recipe {
	result := make([]Recipe, len(c.recipes))
	copy(result, c.recipes)
	return result
}

// RecipesThatMake returns every recipe whose outputs contain resource.
// Returns an empty slice if nothing produces it.
func (c *Catalog) RecipesThatMake(resource string) []Recipe {
	return c.collect(c.byOutput[resource])
}

// RecipesThatUse returns every recipe whose inputs contain resource.
// Returns an empty slice if nothing consumes it.
func (c *Catalog) RecipesThatUse(resource string) []Recipe {
	return c.collect(c.byInput[resource])
}

// Find returns the first recipe (in source order) with the given name
func (c *Catalog) Find(name string) (Recipe, bool) {
	indexes := c.byName[name]
	if len(indexes) == 0 {
		return Recipe{}, false
	}
	return c.recipes[indexes[0]], true
}

// IsRawResource returns true if any producer of resource is flagged raw
func (c *Catalog) IsRawResource(resource string) bool {
	for _, idx := range c.byOutput[resource] {
		if c.recipes[idx].Raw {
			return true
		}
	}
	return false
}

// Resources returns every resource name appearing as an input or output, sorted
func (c *Catalog) Resources() []string {
	set := make(map[string]bool, len(c.byOutput)+len(c.byInput))
	for name := range c.byOutput {
		set[name] = true
	}
	for name := range c.byInput {
		set[name] = true
	}

	result := make([]string, 0, len(set))
	for name := range set {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// MixedRawProducers returns the resources (sorted) that have both raw and
// non-raw producers. Such resources make the raw cutoff ambiguous and should
// be avoided by catalog authors.
func (c *Catalog) MixedRawProducers() []string {
	result := make([]string, 0)
	for name, indexes := range c.byOutput {
		raw, processed := false, false
		for _, idx := range indexes {
			if c.recipes[idx].Raw {
				raw = true
			} else {
				processed = true
			}
		}
		if raw && processed {
			result = append(result, name)
		}
	}
	sort.Strings(result)
	return result
}

func (c *Catalog) collect(indexes []int) []Recipe {
	result := make([]Recipe, 0, len(indexes))
	for _, idx := range indexes {
		result = append(result, c.recipes[idx])
	}
	return result
}
