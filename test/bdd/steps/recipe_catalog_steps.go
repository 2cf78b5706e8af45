package steps

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/dsp-calculator/internal/application/catalog/commands"
	"github.com/andrescamacho/dsp-calculator/internal/application/catalog/queries"
	"github.com/andrescamacho/dsp-calculator/internal/application/common"
	"github.com/andrescamacho/dsp-calculator/internal/application/production/services"
	"github.com/andrescamacho/dsp-calculator/internal/domain/recipe"
)

// File loading steps

func (c *calculatorContext) iLoadTheRecipeFile(doc *godog.DocString) error {
	path, err := c.writeRecipeFile("recipes.yaml", doc.Content)
	if err != nil {
		return err
	}
	c.catalog, c.err = c.loader.LoadFile(path)
	c.mediator = nil
	return nil
}

func (c *calculatorContext) theCatalogShouldContainRecipes(count int) error {
	if c.err != nil {
		return fmt.Errorf("catalog failed to load: %v", c.err)
	}
	if c.catalog.Len() != count {
		return fmt.Errorf("expected %d recipes, got %d", count, c.catalog.Len())
	}
	return nil
}

func (c *calculatorContext) recipeShouldRunInFacility(name, facility string) error {
	rec, ok := c.catalog.Find(name)
	if !ok {
		return fmt.Errorf("recipe %q not found", name)
	}
	if rec.Facility != facility {
		return fmt.Errorf("expected %q in %q, got %q", name, facility, rec.Facility)
	}
	return nil
}

func (c *calculatorContext) loadingShouldFailAtLine(line int) error {
	var parseErr *recipe.CatalogParseError
	if !errors.As(c.err, &parseErr) {
		return fmt.Errorf("expected catalog parse error, got %v", c.err)
	}
	if parseErr.Line != line {
		return fmt.Errorf("expected error at line %d, got line %d (%v)", line, parseErr.Line, c.err)
	}
	if c.catalog != nil {
		return fmt.Errorf("a partial catalog was returned")
	}
	return nil
}

// Lookup steps

func (c *calculatorContext) catalogMediator() common.Mediator {
	m := common.NewMediator()
	_ = common.RegisterHandler[*queries.FindRecipesQuery](m, queries.NewFindRecipesHandler(c.catalog))
	_ = common.RegisterHandler[*queries.LintCatalogQuery](m, queries.NewLintCatalogHandler(c.catalog))
	return m
}

func (c *calculatorContext) iLookUpRecipes(mode, term string) error {
	c.response, c.err = c.catalogMediator().Send(context.Background(), &queries.FindRecipesQuery{
		Mode: mode,
		Term: term,
	})
	return nil
}

func (c *calculatorContext) theFoundRecipesShouldBe(list string) error {
	if c.err != nil {
		return fmt.Errorf("lookup failed: %v", c.err)
	}
	resp, ok := c.response.(*queries.FindRecipesResponse)
	if !ok {
		return fmt.Errorf("unexpected response type %T", c.response)
	}

	actual := make([]string, 0, len(resp.Recipes))
	for _, rec := range resp.Recipes {
		actual = append(actual, rec.Name)
	}
	if expected := splitNames(list); !sameNames(expected, actual) {
		return fmt.Errorf("expected recipes %v, got %v", expected, actual)
	}
	return nil
}

func (c *calculatorContext) iLintTheCatalog() error {
	c.response, c.err = c.catalogMediator().Send(context.Background(), &queries.LintCatalogQuery{})
	return nil
}

func (c *calculatorContext) theLintShouldReport(list string) error {
	if c.err != nil {
		return fmt.Errorf("lint failed: %v", c.err)
	}
	resp, ok := c.response.(*queries.LintCatalogResponse)
	if !ok {
		return fmt.Errorf("unexpected response type %T", c.response)
	}
	if expected := splitNames(list); !sameNames(expected, resp.MixedRawProducers) {
		return fmt.Errorf("expected mixed raw producers %v, got %v", expected, resp.MixedRawProducers)
	}
	return nil
}

func (c *calculatorContext) theLintShouldReportNoIssues() error {
	return c.theLintShouldReport("")
}

// Store steps

func (c *calculatorContext) iImportTheRecipeFileAs(name string, doc *godog.DocString) error {
	path, err := c.writeRecipeFile(name+".yaml", doc.Content)
	if err != nil {
		return err
	}
	repo, err := c.store()
	if err != nil {
		return err
	}

	m := common.NewMediator()
	if err := common.RegisterHandler[*commands.ImportCatalogCommand](m, commands.NewImportCatalogHandler(c.loader, repo)); err != nil {
		return err
	}
	c.response, c.err = m.Send(context.Background(), &commands.ImportCatalogCommand{Name: name, Path: path})
	if c.err == nil {
		c.catalog, c.err = c.loader.LoadFile(path)
		c.mediator = nil
	}
	return nil
}

func (c *calculatorContext) theStoredCatalogShouldResolveLikeTheFile(name, resource string) error {
	fromFile, err := services.NewTreeResolver(c.catalog).Resolve(context.Background(), resource, true)
	if err != nil {
		return err
	}

	repo, err := c.store()
	if err != nil {
		return err
	}
	stored, err := repo.Load(context.Background(), name)
	if err != nil {
		return err
	}
	fromStore, err := services.NewTreeResolver(stored).Resolve(context.Background(), resource, true)
	if err != nil {
		return err
	}

	if !reflect.DeepEqual(fromFile.Canonical(), fromStore.Canonical()) {
		return fmt.Errorf("stored catalog %q resolves %q differently:\n%s\n%s", name, resource,
			strings.Join(fromFile.Canonical(), "\n"), strings.Join(fromStore.Canonical(), "\n"))
	}
	return nil
}

func (c *calculatorContext) iDeleteTheStoredCatalog(name string) error {
	repo, err := c.store()
	if err != nil {
		return err
	}
	c.err = repo.Delete(context.Background(), name)
	return nil
}

func (c *calculatorContext) storedCatalogsShouldBe(list string) error {
	repo, err := c.store()
	if err != nil {
		return err
	}
	infos, err := repo.List(context.Background())
	if err != nil {
		return err
	}

	actual := make([]string, 0, len(infos))
	for _, info := range infos {
		actual = append(actual, info.Name)
	}
	if expected := splitNames(list); !sameNames(expected, actual) {
		return fmt.Errorf("expected stored catalogs %v, got %v", expected, actual)
	}
	return nil
}

func registerRecipeCatalogSteps(sc *godog.ScenarioContext, c *calculatorContext) {
	// File loading
	sc.Step(`^I load the recipe file:$`, c.iLoadTheRecipeFile)
	sc.Step(`^the catalog should contain (\d+) recipes?$`, c.theCatalogShouldContainRecipes)
	sc.Step(`^recipe "([^"]*)" should run in "([^"]*)"$`, c.recipeShouldRunInFacility)
	sc.Step(`^loading should fail at line (\d+)$`, c.loadingShouldFailAtLine)

	// Lookups
	sc.Step(`^I look up "([^"]*)" recipes for "([^"]*)"$`, c.iLookUpRecipes)
	sc.Step(`^the found recipes should be "([^"]*)"$`, c.theFoundRecipesShouldBe)
	sc.Step(`^I lint the catalog$`, c.iLintTheCatalog)
	sc.Step(`^the lint should report "([^"]*)"$`, c.theLintShouldReport)
	sc.Step(`^the lint should report no issues$`, c.theLintShouldReportNoIssues)

	// Store
	sc.Step(`^I import the recipe file as "([^"]*)":$`, c.iImportTheRecipeFileAs)
	sc.Step(`^the stored catalog "([^"]*)" should resolve "([^"]*)" like the file$`, c.theStoredCatalogShouldResolveLikeTheFile)
	sc.Step(`^I delete the stored catalog "([^"]*)"$`, c.iDeleteTheStoredCatalog)
	sc.Step(`^the stored catalogs should be "([^"]*)"$`, c.storedCatalogsShouldBe)
}
