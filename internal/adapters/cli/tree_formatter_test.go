package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/dsp-calculator/internal/domain/production"
	"github.com/andrescamacho/dsp-calculator/internal/domain/recipe"
	"github.com/andrescamacho/dsp-calculator/test/helpers"
)

func circuitBoardTree() *production.ProductionNode {
	root := production.NewProductionNode(
		helpers.NewRecipe("Circuit Board", "Assembler", []string{"Iron Ingot", "Copper Ingot"}, "Circuit Board"))
	iron := production.NewProductionNode(
		helpers.NewRecipe("Smelt Iron Ingot", "Smelter", []string{"Iron Ore"}, "Iron Ingot"))
	iron.AddChild(production.NewProductionNode(helpers.NewRawRecipe("Mine Iron Ore", "Iron Ore")))
	copper := production.NewProductionNode(
		helpers.NewRecipe("Smelt Copper Ingot", "Smelter", []string{"Copper Ore"}, "Copper Ingot"))
	copper.AddChild(production.NewProductionNode(helpers.NewRawRecipe("Mine Copper Ore", "Copper Ore")))
	root.AddChild(iron)
	root.AddChild(copper)
	return root
}

func TestFormatTree(t *testing.T) {
	formatter := NewTreeFormatter(false, false)

	output := formatter.FormatTree(circuitBoardTree())

	expected := strings.Join([]string{
		"Circuit Board",
		"├── Smelt Iron Ingot",
		"│   └── Mine Iron Ore",
		"└── Smelt Copper Ingot",
		"    └── Mine Copper Ore",
		"",
	}, "\n")
	assert.Equal(t, expected, output)
}

func TestFormatTree_Details(t *testing.T) {
	formatter := NewTreeFormatter(false, true)

	output := formatter.FormatTree(circuitBoardTree())

	assert.Contains(t, output, "Circuit Board [Assembler, 1s]\n")
	assert.Contains(t, output, "│   └── Mine Iron Ore [Mining Machine, raw]\n")
}

func TestFormatTree_ColorsKeepNames(t *testing.T) {
	output := NewTreeFormatter(true, true).FormatTree(circuitBoardTree())

	for _, name := range []string{"Circuit Board", "Smelt Iron Ingot", "Mine Copper Ore", "Smelter"} {
		assert.Contains(t, output, name)
	}
}

func TestFormatTree_Nil(t *testing.T) {
	assert.Equal(t, "(empty tree)", NewTreeFormatter(false, false).FormatTree(nil))
}

func TestFormatTreeSummary(t *testing.T) {
	tree := production.NewProductionTree("tree-1", "Circuit Board", true, circuitBoardTree())

	summary := NewTreeFormatter(false, false).FormatTreeSummary(tree)

	assert.Equal(t, "Tree: 5 nodes, depth=3, facilities: Assembler=1, Mining Machine=2, Smelter=2", summary)
}

func TestFormatCompactTree(t *testing.T) {
	compact := NewTreeFormatter(false, false).FormatCompactTree(circuitBoardTree())

	assert.Equal(t, "Circuit Board → Smelt Iron Ingot → Mine Iron Ore → Smelt Copper Ingot → Mine Copper Ore", compact)
}

func TestFormatForestHeader(t *testing.T) {
	formatter := NewTreeFormatter(false, false)

	assert.Equal(t, "Energy: 2 production trees", formatter.FormatForestHeader("Energy", false, 2))
	assert.Equal(t, "Iron Ingot: 1 production tree (raw expanded)", formatter.FormatForestHeader("Iron Ingot", true, 1))
}

func TestFormatRecipeLine(t *testing.T) {
	formatter := NewTreeFormatter(false, false)

	assert.Equal(t, "Smelt Iron Ingot (Smelter): Iron Ore x1 -> Iron Ingot x1",
		formatter.FormatRecipeLine(helpers.NewRecipe("Smelt Iron Ingot", "Smelter", []string{"Iron Ore"}, "Iron Ingot")))
	assert.Equal(t, "Mine Coal (Mining Machine, raw): (none) -> Coal x1",
		formatter.FormatRecipeLine(helpers.NewRawRecipe("Mine Coal", "Coal")))
}

func TestFormatRecipeDetails(t *testing.T) {
	r := recipe.Recipe{
		Name:     "Plasma Refining",
		Facility: "Oil Refinery",
		Time:     4,
		Inputs:   []recipe.ItemStack{{Name: "Crude Oil", Count: 2}},
		Outputs:  []recipe.ItemStack{{Name: "Refined Oil", Count: 2}, {Name: "Hydrogen", Count: 1}},
	}

	details := NewTreeFormatter(false, false).FormatRecipeDetails(r)

	expected := "Recipe:    Plasma Refining\n" +
		"Facility:  Oil Refinery\n" +
		"Time:      4s\n" +
		"Raw:       false\n" +
		"Inputs:\n" +
		"  - Crude Oil x2\n" +
		"Outputs:\n" +
		"  - Refined Oil x2\n" +
		"  - Hydrogen x1\n"
	assert.Equal(t, expected, details)
}
