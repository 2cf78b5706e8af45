package recipe

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultFacility is the facility assigned to recipes that omit one.
// Raw extraction happens in a Mining Machine unless the catalog says otherwise.
const DefaultFacility = "Mining Machine"

// ItemStack is a resource name paired with the quantity consumed or produced
// per production cycle.
type ItemStack struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// String renders the stack as "Name x Count"
func (s ItemStack) String() string {
	return fmt.Sprintf("%s x%d", s.Name, s.Count)
}

// Recipe is a named production rule converting input resources into output
// resources in a facility over a production time (seconds).
type Recipe struct {
	Name     string      `json:"name"`
	Facility string      `json:"facility"`
	Time     float64     `json:"time"`
	Raw      bool        `json:"raw"`
	Inputs   []ItemStack `json:"inputs"`
	Outputs  []ItemStack `json:"outputs"`
}

// RecipeKey is the identity of a recipe inside a catalog.
//
// Names alone are not unique: Dyson Sphere Program has several recipes
// called "Graphene" that run in different facilities. The key therefore
// combines name, facility and the sorted set of output resources.
type RecipeKey struct {
	Name     string
	Facility string
	Outputs  string
}

// String renders the key for error messages
func (k RecipeKey) String() string {
	return fmt.Sprintf("%s@%s[%s]", k.Name, k.Facility, k.Outputs)
}

// Key returns the comparable identity of the recipe
func (r Recipe) Key() RecipeKey {
	return RecipeKey{
		Name:     r.Name,
		Facility: r.Facility,
		Outputs:  strings.Join(r.OutputNames(), ","),
	}
}

// Makes returns true if the recipe lists resource among its outputs
func (r Recipe) Makes(resource string) bool {
	return containsStack(r.Outputs, resource)
}

// Uses returns true if the recipe lists resource among its inputs
func (r Recipe) Uses(resource string) bool {
	return containsStack(r.Inputs, resource)
}

// OutputNames returns the sorted, de-duplicated output resource names
func (r Recipe) OutputNames() []string {
	return stackNames(r.Outputs)
}

// InputNames returns the input resource names in declaration order, without duplicates
func (r Recipe) InputNames() []string {
	names := make([]string, 0, len(r.Inputs))
	seen := make(map[string]bool, len(r.Inputs))
	for _, input := range r.Inputs {
		if seen[input.Name] {
			continue
		}
		seen[input.Name] = true
		names = append(names, input.Name)
	}
	return names
}

// IsExtraction returns true for recipes without inputs
func (r Recipe) IsExtraction() bool {
	return len(r.Inputs) == 0
}

// String provides a human-readable representation
func (r Recipe) String() string {
	return fmt.Sprintf("Recipe[%s, facility=%s, time=%gs, raw=%t]", r.Name, r.Facility, r.Time, r.Raw)
}

func containsStack(stacks []ItemStack, resource string) bool {
	for _, stack := range stacks {
		if stack.Name == resource {
			return true
		}
	}
	return false
}

func stackNames(stacks []ItemStack) []string {
	seen := make(map[string]bool, len(stacks))
	names := make([]string, 0, len(stacks))
	for _, stack := range stacks {
		if seen[stack.Name] {
			continue
		}
		seen[stack.Name] = true
		names = append(names, stack.Name)
	}
	sort.Strings(names)
	return names
}
