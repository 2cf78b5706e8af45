package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/dsp-calculator/internal/application/production/services"
	"github.com/andrescamacho/dsp-calculator/internal/domain/production"
	"github.com/andrescamacho/dsp-calculator/internal/domain/recipe"
	"github.com/andrescamacho/dsp-calculator/test/helpers"
)

func childNames(node *production.ProductionNode) []string {
	names := make([]string, 0, len(node.Children))
	for _, child := range node.Children {
		names = append(names, child.Recipe.Name)
	}
	return names
}

func TestResolve_IronIngotWithoutRaw(t *testing.T) {
	// Arrange
	resolver := services.NewTreeResolver(helpers.MustCatalog(t, helpers.IronIngotRecipes()...))

	// Act
	forest, err := resolver.Resolve(context.Background(), "Iron Ingot", false)

	// Assert
	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, "Smelt Iron Ingot", forest[0].Root.Recipe.Name)
	assert.True(t, forest[0].Root.IsLeaf())
	assert.Equal(t, "Iron Ingot", forest[0].Resource)
	assert.False(t, forest[0].IncludeRaw)
	assert.NotEmpty(t, forest[0].ID)
}

func TestResolve_IronIngotWithRaw(t *testing.T) {
	resolver := services.NewTreeResolver(helpers.MustCatalog(t, helpers.IronIngotRecipes()...))

	forest, err := resolver.Resolve(context.Background(), "Iron Ingot", true)

	require.NoError(t, err)
	require.Len(t, forest, 1)
	root := forest[0].Root
	assert.Equal(t, "Smelt Iron Ingot", root.Recipe.Name)
	assert.Equal(t, []string{"Mine Iron Ore"}, childNames(root))
	assert.True(t, root.Children[0].IsLeaf())
}

func TestResolve_MultipleProducersYieldForest(t *testing.T) {
	resolver := services.NewTreeResolver(helpers.MustCatalog(t, helpers.EarlyGameRecipes()...))

	forest, err := resolver.Resolve(context.Background(), "Energy", false)

	require.NoError(t, err)
	assert.Len(t, forest, 2)
	assert.ElementsMatch(t, []string{"Thermal Power", "Wind Power"}, forest.RootNames())
	assert.NotEqual(t, forest[0].ID, forest[1].ID)
}

func TestResolve_ForestCardinalityMatchesProducers(t *testing.T) {
	catalog := helpers.MustCatalog(t, helpers.EarlyGameRecipes()...)
	resolver := services.NewTreeResolver(catalog)

	for _, resource := range []string{"Energy", "Iron Ingot", "Hydrogen", "Magnetic Coil"} {
		forest, err := resolver.Resolve(context.Background(), resource, true)
		require.NoError(t, err)
		assert.Len(t, forest, len(catalog.RecipesThatMake(resource)), resource)
	}
}

func TestResolve_UnknownResource(t *testing.T) {
	resolver := services.NewTreeResolver(helpers.MustCatalog(t, helpers.EarlyGameRecipes()...))

	forest, err := resolver.Resolve(context.Background(), "Nonexistent", false)

	require.Error(t, err)
	assert.Nil(t, forest)

	var unknown *recipe.UnknownResourceError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "Nonexistent", unknown.Resource)
	assert.Empty(t, unknown.Suggestions)
}

func TestResolve_UnknownResourceSuggestsCloseNames(t *testing.T) {
	resolver := services.NewTreeResolver(helpers.MustCatalog(t, helpers.EarlyGameRecipes()...))

	_, err := resolver.Resolve(context.Background(), "iron ingto", false)

	var unknown *recipe.UnknownResourceError
	require.True(t, errors.As(err, &unknown))
	require.NotEmpty(t, unknown.Suggestions)
	assert.Equal(t, "Iron Ingot", unknown.Suggestions[0])
}

func TestResolve_RawCutoffKeepsProcessedInputsBeforeIt(t *testing.T) {
	// Magnetic Coil needs Magnet and Copper Ingot, both processed; each of
	// those stops at its own raw ore input
	resolver := services.NewTreeResolver(helpers.MustCatalog(t, helpers.EarlyGameRecipes()...))

	forest, err := resolver.Resolve(context.Background(), "Magnetic Coil", false)

	require.NoError(t, err)
	require.Len(t, forest, 1)
	root := forest[0].Root
	assert.Equal(t, []string{"Magnet", "Smelt Copper Ingot"}, childNames(root))
	for _, child := range root.Children {
		assert.True(t, child.IsLeaf(), "%s should not expand raw inputs", child.Recipe.Name)
	}
	assert.Empty(t, root.RawLeaves())
}

func TestResolve_RawInputEndsExpansionOfRemainingInputs(t *testing.T) {
	// Arrange: the raw input comes first, the processed one after it
	resolver := services.NewTreeResolver(helpers.MustCatalog(t,
		helpers.NewRawRecipe("Mine Iron Ore", "Iron Ore"),
		helpers.NewRawRecipe("Mine Copper Ore", "Copper Ore"),
		helpers.NewRecipe("Smelt Copper Ingot", "Smelter", []string{"Copper Ore"}, "Copper Ingot"),
		helpers.NewRecipe("Coil", "Assembler", []string{"Iron Ore", "Copper Ingot"}, "Coil"),
	))

	// Act
	withoutRaw, err := resolver.Resolve(context.Background(), "Coil", false)
	require.NoError(t, err)
	withRaw, err := resolver.Resolve(context.Background(), "Coil", true)
	require.NoError(t, err)

	// Assert
	require.Len(t, withoutRaw, 1)
	assert.True(t, withoutRaw[0].Root.IsLeaf())

	require.Len(t, withRaw, 1)
	assert.Equal(t, []string{"Mine Iron Ore", "Smelt Copper Ingot"}, childNames(withRaw[0].Root))
}

func TestResolve_IncludeRawAddsRawLeaves(t *testing.T) {
	resolver := services.NewTreeResolver(helpers.MustCatalog(t, helpers.EarlyGameRecipes()...))

	forest, err := resolver.Resolve(context.Background(), "Circuit Board", true)

	require.NoError(t, err)
	require.Len(t, forest, 1)
	assert.Equal(t, []string{"Mine Copper Ore", "Mine Iron Ore"}, forest[0].Root.RawLeaves())
	assert.Equal(t, 5, forest[0].CountNodes())
}

func TestResolve_SharedRawInputAppearsOncePerTree(t *testing.T) {
	// Magnet and Smelt Iron Ingot both consume Iron Ore; the producer of a
	// resource is placed at most once in a tree.
	recipes := append(helpers.EarlyGameRecipes(),
		helpers.NewRecipe("Electric Motor", "Assembler", []string{"Iron Ingot", "Magnet"}, "Electric Motor"))
	resolver := services.NewTreeResolver(helpers.MustCatalog(t, recipes...))

	forest, err := resolver.Resolve(context.Background(), "Electric Motor", true)

	require.NoError(t, err)
	count := 0
	for _, node := range forest[0].Root.FlattenToList() {
		if node.Recipe.Name == "Mine Iron Ore" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestResolve_TerminatesOnCycles(t *testing.T) {
	// A makes X from Y, B makes Y from X
	resolver := services.NewTreeResolver(helpers.MustCatalog(t,
		helpers.NewRecipe("A", "Assembler", []string{"Y"}, "X"),
		helpers.NewRecipe("B", "Assembler", []string{"X"}, "Y"),
	))

	forest, err := resolver.Resolve(context.Background(), "X", true)

	require.NoError(t, err)
	require.Len(t, forest, 1)
	root := forest[0].Root
	assert.Equal(t, "A", root.Recipe.Name)
	assert.Equal(t, []string{"B"}, childNames(root))
	assert.True(t, root.Children[0].IsLeaf())
}

func TestResolve_NoOutputRepeatsAlongAnyPath(t *testing.T) {
	// Dense cyclic catalog with alternative producers and byproducts
	resolver := services.NewTreeResolver(helpers.MustCatalog(t,
		helpers.NewRecipe("A", "Assembler", []string{"Y", "Z"}, "X"),
		helpers.NewRecipe("A2", "Assembler", []string{"Z"}, "X", "W"),
		helpers.NewRecipe("B", "Assembler", []string{"X", "W"}, "Y"),
		helpers.NewRecipe("C", "Assembler", []string{"Y", "X"}, "Z"),
		helpers.NewRecipe("C2", "Chemical Plant", []string{"W"}, "Z"),
		helpers.NewRecipe("D", "Assembler", []string{"Z"}, "W"),
	))

	for _, resource := range []string{"X", "Y", "Z", "W"} {
		forest, err := resolver.Resolve(context.Background(), resource, true)
		require.NoError(t, err)

		for _, tree := range forest {
			placed := make(map[string]string)
			for _, node := range tree.Root.FlattenToList() {
				for _, output := range node.Recipe.OutputNames() {
					previous, seen := placed[output]
					assert.False(t, seen, "%s and %s both place %s", previous, node.Recipe.Name, output)
					placed[output] = node.Recipe.Name
				}
			}

			tree.Root.Walk(func(node *production.ProductionNode, path []*production.ProductionNode) {
				for _, ancestor := range path {
					for _, output := range node.Recipe.OutputNames() {
						assert.False(t, ancestor.Recipe.Makes(output),
							"%s repeats output %s of ancestor %s", node.Recipe.Name, output, ancestor.Recipe.Name)
					}
				}
			})
		}
	}
}

func TestResolve_OnlyFirstProducerOfAnInputIsPlaced(t *testing.T) {
	resolver := services.NewTreeResolver(helpers.MustCatalog(t,
		helpers.NewRecipe("Graphene (Graphite)", "Chemical Plant", []string{"Energetic Graphite"}, "Graphene"),
		helpers.NewRecipe("Graphene (Fire Ice)", "Chemical Plant", []string{"Fire Ice"}, "Graphene", "Hydrogen"),
		helpers.NewRecipe("Energetic Graphite", "Smelter", []string{"Coal"}, "Energetic Graphite"),
		helpers.NewRawRecipe("Mine Coal", "Coal"),
		helpers.NewRawRecipe("Mine Fire Ice", "Fire Ice"),
		helpers.NewRecipe("Carbon Nanotube", "Chemical Plant", []string{"Graphene"}, "Carbon Nanotube"),
	))

	forest, err := resolver.Resolve(context.Background(), "Carbon Nanotube", false)

	require.NoError(t, err)
	require.Len(t, forest, 1)
	root := forest[0].Root
	assert.Equal(t, []string{"Graphene (Graphite)"}, childNames(root))
	assert.Equal(t, []string{"Energetic Graphite"}, childNames(root.Children[0]))
	assert.Nil(t, root.Find("Graphene (Fire Ice)"))
}

func TestResolve_AlternativeProducerStillRootsItsOwnTree(t *testing.T) {
	resolver := services.NewTreeResolver(helpers.MustCatalog(t,
		helpers.NewRecipe("G1", "Assembler", nil, "G"),
		helpers.NewRecipe("G2", "Assembler", nil, "G"),
		helpers.NewRecipe("CNT", "Assembler", []string{"G"}, "CNT"),
	))

	nanotubes, err := resolver.Resolve(context.Background(), "CNT", false)
	require.NoError(t, err)
	graphene, err := resolver.Resolve(context.Background(), "G", false)
	require.NoError(t, err)

	require.Len(t, nanotubes, 1)
	assert.Equal(t, []string{"G1"}, childNames(nanotubes[0].Root))
	assert.Equal(t, []string{"G1", "G2"}, graphene.RootNames())
}

func TestResolve_IsDeterministic(t *testing.T) {
	resolver := services.NewTreeResolver(helpers.MustCatalog(t, helpers.EarlyGameRecipes()...))

	first, err := resolver.Resolve(context.Background(), "Magnetic Coil", true)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := resolver.Resolve(context.Background(), "Magnetic Coil", true)
		require.NoError(t, err)
		assert.Equal(t, first.Canonical(), again.Canonical())
	}
}

func TestResolve_TreesAreNotShared(t *testing.T) {
	resolver := services.NewTreeResolver(helpers.MustCatalog(t, helpers.IronIngotRecipes()...))

	first, err := resolver.Resolve(context.Background(), "Iron Ingot", true)
	require.NoError(t, err)
	first[0].Root.Children = nil

	second, err := resolver.Resolve(context.Background(), "Iron Ingot", true)
	require.NoError(t, err)
	assert.Len(t, second[0].Root.Children, 1)
}

func TestResolve_ConcurrentCallsShareCatalog(t *testing.T) {
	resolver := services.NewTreeResolver(helpers.MustCatalog(t, helpers.EarlyGameRecipes()...))
	expected, err := resolver.Resolve(context.Background(), "Circuit Board", true)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]production.Forest, 16)
	errs := make([]error, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = resolver.Resolve(context.Background(), "Circuit Board", true)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, expected.Canonical(), results[i].Canonical())
	}
}

func TestResolve_CancelledContext(t *testing.T) {
	resolver := services.NewTreeResolver(helpers.MustCatalog(t, helpers.EarlyGameRecipes()...))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := resolver.Resolve(ctx, "Energy", false)

	assert.ErrorIs(t, err, context.Canceled)
}
