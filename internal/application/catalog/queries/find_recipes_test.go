package queries_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/dsp-calculator/internal/application/catalog/queries"
	"github.com/andrescamacho/dsp-calculator/internal/application/common"
	"github.com/andrescamacho/dsp-calculator/internal/domain/recipe"
	"github.com/andrescamacho/dsp-calculator/test/helpers"
)

func recipeNames(recipes []recipe.Recipe) []string {
	names := make([]string, 0, len(recipes))
	for _, r := range recipes {
		names = append(names, r.Name)
	}
	return names
}

func findRecipes(t *testing.T, query *queries.FindRecipesQuery) (*queries.FindRecipesResponse, error) {
	t.Helper()

	handler := queries.NewFindRecipesHandler(helpers.MustCatalog(t, helpers.EarlyGameRecipes()...))
	response, err := handler.Handle(context.Background(), query)
	if err != nil {
		return nil, err
	}
	return response.(*queries.FindRecipesResponse), nil
}

func TestFindRecipes_AllByDefault(t *testing.T) {
	resp, err := findRecipes(t, &queries.FindRecipesQuery{})

	require.NoError(t, err)
	assert.Equal(t, queries.ModeAll, resp.Mode)
	assert.Len(t, resp.Recipes, len(helpers.EarlyGameRecipes()))
}

func TestFindRecipes_Makes(t *testing.T) {
	resp, err := findRecipes(t, &queries.FindRecipesQuery{Mode: queries.ModeMakes, Term: "Energy"})

	require.NoError(t, err)
	assert.Equal(t, []string{"Thermal Power", "Wind Power"}, recipeNames(resp.Recipes))
}

func TestFindRecipes_Uses(t *testing.T) {
	resp, err := findRecipes(t, &queries.FindRecipesQuery{Mode: queries.ModeUses, Term: "Iron Ore"})

	require.NoError(t, err)
	assert.Equal(t, []string{"Smelt Iron Ingot", "Magnet"}, recipeNames(resp.Recipes))
}

func TestFindRecipes_UsesUnknownIsEmpty(t *testing.T) {
	resp, err := findRecipes(t, &queries.FindRecipesQuery{Mode: queries.ModeUses, Term: "Dark Fog Matrix"})

	require.NoError(t, err)
	assert.Empty(t, resp.Recipes)
}

func TestFindRecipes_ByName(t *testing.T) {
	resp, err := findRecipes(t, &queries.FindRecipesQuery{Mode: queries.ModeName, Term: "Plasma Refining"})

	require.NoError(t, err)
	require.Len(t, resp.Recipes, 1)
	assert.Equal(t, []string{"Hydrogen", "Refined Oil"}, resp.Recipes[0].OutputNames())
}

func TestFindRecipes_Errors(t *testing.T) {
	tests := []struct {
		name    string
		query   *queries.FindRecipesQuery
		wantErr string
	}{
		{"missing term", &queries.FindRecipesQuery{Mode: queries.ModeMakes}, "a resource or recipe name is required for mode 'makes'"},
		{"unknown name", &queries.FindRecipesQuery{Mode: queries.ModeName, Term: "Nope"}, "recipe 'Nope' not found"},
		{"unknown mode", &queries.FindRecipesQuery{Mode: "sideways", Term: "Magnet"}, "unknown lookup mode 'sideways'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := findRecipes(t, tt.query)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

type recordingLogger struct {
	entries []string
}

func (l *recordingLogger) Log(level, message string, metadata map[string]interface{}) {
	l.entries = append(l.entries, level+" "+message+" "+metadata["resource"].(string))
}

func TestLintCatalog_ReportsMixedProducers(t *testing.T) {
	// Arrange
	catalog := helpers.MustCatalog(t,
		helpers.NewRawRecipe("Mine Iron Ore", "Iron Ore"),
		helpers.NewRecipe("Recycle Scrap", "Smelter", []string{"Scrap"}, "Iron Ore"),
	)
	logger := &recordingLogger{}
	ctx := common.WithLogger(context.Background(), logger)

	// Act
	response, err := queries.NewLintCatalogHandler(catalog).Handle(ctx, &queries.LintCatalogQuery{})

	// Assert
	require.NoError(t, err)
	resp := response.(*queries.LintCatalogResponse)
	assert.False(t, resp.Clean())
	assert.Equal(t, []string{"Iron Ore"}, resp.MixedRawProducers)
	assert.Equal(t, []string{"WARN Resource has both raw and processed producers Iron Ore"}, logger.entries)
}

func TestLintCatalog_CleanCatalog(t *testing.T) {
	catalog := helpers.MustCatalog(t, helpers.EarlyGameRecipes()...)

	response, err := queries.NewLintCatalogHandler(catalog).Handle(context.Background(), &queries.LintCatalogQuery{})

	require.NoError(t, err)
	assert.True(t, response.(*queries.LintCatalogResponse).Clean())
}
