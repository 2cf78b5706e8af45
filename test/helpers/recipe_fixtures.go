package helpers

import (
	"testing"

	"github.com/andrescamacho/dsp-calculator/internal/domain/recipe"
)

// Stacks builds one-unit item stacks for the given resource names
func Stacks(names ...string) []recipe.ItemStack {
	stacks := make([]recipe.ItemStack, 0, len(names))
	for _, name := range names {
		stacks = append(stacks, recipe.ItemStack{Name: name, Count: 1})
	}
	return stacks
}

// NewRecipe builds a processed recipe consuming inputs and producing outputs
func NewRecipe(name, facility string, inputs []string, outputs ...string) recipe.Recipe {
	return recipe.Recipe{
		Name:     name,
		Facility: facility,
		Time:     1,
		Inputs:   Stacks(inputs...),
		Outputs:  Stacks(outputs...),
	}
}

// NewRawRecipe builds a raw extraction recipe producing output
func NewRawRecipe(name, output string) recipe.Recipe {
	return recipe.Recipe{
		Name:     name,
		Facility: recipe.DefaultFacility,
		Raw:      true,
		Outputs:  Stacks(output),
	}
}

// MustCatalog builds a catalog or fails the test
func MustCatalog(t testing.TB, recipes ...recipe.Recipe) *recipe.Catalog {
	t.Helper()

	catalog, err := recipe.NewCatalog(recipes)
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	return catalog
}

// IronIngotRecipes is the minimal raw-cutoff scenario:
// "Mine Iron Ore" (raw) -> Iron Ore -> "Smelt Iron Ingot" -> Iron Ingot
func IronIngotRecipes() []recipe.Recipe {
	return []recipe.Recipe{
		NewRawRecipe("Mine Iron Ore", "Iron Ore"),
		{
			Name:     "Smelt Iron Ingot",
			Facility: "Smelter",
			Inputs:   []recipe.ItemStack{{Name: "Iron Ore", Count: 1}},
			Outputs:  []recipe.ItemStack{{Name: "Iron Ingot", Count: 1}},
		},
	}
}

// EarlyGameRecipes is a small slice of the Dyson Sphere Program tech tree,
// including two Energy producers and a byproduct recipe.
func EarlyGameRecipes() []recipe.Recipe {
	return []recipe.Recipe{
		NewRawRecipe("Mine Iron Ore", "Iron Ore"),
		NewRawRecipe("Mine Copper Ore", "Copper Ore"),
		NewRawRecipe("Mine Coal", "Coal"),
		NewRawRecipe("Pump Crude Oil", "Crude Oil"),
		NewRecipe("Smelt Iron Ingot", "Smelter", []string{"Iron Ore"}, "Iron Ingot"),
		NewRecipe("Smelt Copper Ingot", "Smelter", []string{"Copper Ore"}, "Copper Ingot"),
		NewRecipe("Magnet", "Smelter", []string{"Iron Ore"}, "Magnet"),
		NewRecipe("Magnetic Coil", "Assembler", []string{"Magnet", "Copper Ingot"}, "Magnetic Coil"),
		NewRecipe("Circuit Board", "Assembler", []string{"Iron Ingot", "Copper Ingot"}, "Circuit Board"),
		NewRecipe("Plasma Refining", "Oil Refinery", []string{"Crude Oil"}, "Refined Oil", "Hydrogen"),
		NewRecipe("Thermal Power", "Thermal Power Plant", []string{"Coal"}, "Energy"),
		NewRecipe("Wind Power", "Wind Turbine", nil, "Energy"),
	}
}
