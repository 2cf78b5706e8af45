package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"
	"gorm.io/gorm"

	catalogAdapter "github.com/andrescamacho/dsp-calculator/internal/adapters/catalog"
	"github.com/andrescamacho/dsp-calculator/internal/adapters/persistence"
	"github.com/andrescamacho/dsp-calculator/internal/application/common"
	"github.com/andrescamacho/dsp-calculator/internal/domain/production"
	"github.com/andrescamacho/dsp-calculator/internal/domain/recipe"
	"github.com/andrescamacho/dsp-calculator/internal/infrastructure/database"
)

// calculatorContext holds the state shared by catalog and resolver steps
type calculatorContext struct {
	loader   *catalogAdapter.Loader
	catalog  *recipe.Catalog
	mediator common.Mediator

	db      *gorm.DB
	repo    *persistence.GormCatalogRepository
	tempDir string

	forest   production.Forest
	response common.Response
	err      error
}

func (c *calculatorContext) reset() error {
	c.cleanup()

	dir, err := os.MkdirTemp("", "dsp-calculator-bdd-")
	if err != nil {
		return err
	}

	c.loader = catalogAdapter.NewLoader(recipe.DefaultFacility)
	c.catalog = nil
	c.mediator = nil
	c.db = nil
	c.repo = nil
	c.tempDir = dir
	c.forest = nil
	c.response = nil
	c.err = nil
	return nil
}

func (c *calculatorContext) cleanup() {
	if c.db != nil {
		_ = database.Close(c.db)
	}
	if c.tempDir != "" {
		_ = os.RemoveAll(c.tempDir)
	}
}

// Setup steps

func (c *calculatorContext) aRecipeCatalog(doc *godog.DocString) error {
	catalog, err := c.loader.Load(strings.NewReader(doc.Content), "feature")
	if err != nil {
		return fmt.Errorf("catalog fixture failed to load: %w", err)
	}
	c.catalog = catalog
	c.mediator = nil
	return nil
}

func (c *calculatorContext) writeRecipeFile(name, content string) (string, error) {
	path := filepath.Join(c.tempDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (c *calculatorContext) store() (*persistence.GormCatalogRepository, error) {
	if c.repo != nil {
		return c.repo, nil
	}

	db, err := database.NewTestConnection()
	if err != nil {
		return nil, err
	}
	c.db = db
	c.repo = persistence.NewGormCatalogRepository(db)
	return c.repo, nil
}

// Shared assertion steps

func (c *calculatorContext) theOperationShouldFailWith(message string) error {
	if c.err == nil {
		return fmt.Errorf("expected error containing %q, got none", message)
	}
	if !strings.Contains(c.err.Error(), message) {
		return fmt.Errorf("expected error containing %q, got %q", message, c.err.Error())
	}
	return nil
}

func (c *calculatorContext) theOperationShouldSucceed() error {
	if c.err != nil {
		return fmt.Errorf("expected success, got error: %v", c.err)
	}
	return nil
}

func splitNames(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	names := strings.Split(list, ",")
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}
	return names
}

// sameNames compares name lists, treating nil and empty as equal
func sameNames(expected, actual []string) bool {
	if len(expected) != len(actual) {
		return false
	}
	for i := range expected {
		if expected[i] != actual[i] {
			return false
		}
	}
	return true
}

// ============================================================================
// Scenario Initialization
// ============================================================================

func InitializeCalculatorScenario(sc *godog.ScenarioContext) {
	c := &calculatorContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, c.reset()
	})
	sc.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		c.cleanup()
		c.tempDir = ""
		c.db = nil
		return ctx, nil
	})

	sc.Step(`^a recipe catalog:$`, c.aRecipeCatalog)
	sc.Step(`^the operation should fail with "([^"]*)"$`, c.theOperationShouldFailWith)
	sc.Step(`^the operation should succeed$`, c.theOperationShouldSucceed)

	registerTreeResolverSteps(sc, c)
	registerRecipeCatalogSteps(sc, c)
}
