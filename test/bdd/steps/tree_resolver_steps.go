package steps

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/dsp-calculator/internal/application/common"
	"github.com/andrescamacho/dsp-calculator/internal/application/production/queries"
	"github.com/andrescamacho/dsp-calculator/internal/application/production/services"
	"github.com/andrescamacho/dsp-calculator/internal/domain/production"
	"github.com/andrescamacho/dsp-calculator/internal/domain/recipe"
)

func (c *calculatorContext) resolverMediator() (common.Mediator, error) {
	if c.mediator != nil {
		return c.mediator, nil
	}
	if c.catalog == nil {
		return nil, fmt.Errorf("no recipe catalog given")
	}

	m := common.NewMediator()
	handler := queries.NewResolveProductionTreesHandler(services.NewTreeResolver(c.catalog))
	if err := common.RegisterHandler[*queries.ResolveProductionTreesQuery](m, handler); err != nil {
		return nil, err
	}
	c.mediator = m
	return m, nil
}

// Action steps

func (c *calculatorContext) resolve(resource string, includeRaw bool) error {
	m, err := c.resolverMediator()
	if err != nil {
		return err
	}

	c.forest = nil
	c.response, c.err = m.Send(context.Background(), &queries.ResolveProductionTreesQuery{
		Resource:   resource,
		IncludeRaw: includeRaw,
	})
	if c.err != nil {
		return nil
	}

	resp, ok := c.response.(*queries.ResolveProductionTreesResponse)
	if !ok {
		return fmt.Errorf("unexpected response type %T", c.response)
	}
	c.forest = resp.Trees
	return nil
}

func (c *calculatorContext) iResolveProductionTreesFor(resource string) error {
	return c.resolve(resource, false)
}

func (c *calculatorContext) iResolveProductionTreesIncludingRawFor(resource string) error {
	return c.resolve(resource, true)
}

// Assertion steps

func (c *calculatorContext) productionTreesShouldBeReturned(count int) error {
	if c.err != nil {
		return fmt.Errorf("resolution failed: %v", c.err)
	}
	if len(c.forest) != count {
		return fmt.Errorf("expected %d production trees, got %d", count, len(c.forest))
	}
	return nil
}

func (c *calculatorContext) theTreeRootsShouldBe(list string) error {
	expected := splitNames(list)
	if actual := c.forest.RootNames(); !sameNames(expected, actual) {
		return fmt.Errorf("expected roots %v, got %v", expected, actual)
	}
	return nil
}

func (c *calculatorContext) findNode(recipeName string) (*production.ProductionNode, error) {
	for _, tree := range c.forest {
		if node := tree.Root.Find(recipeName); node != nil {
			return node, nil
		}
	}
	return nil, fmt.Errorf("no node for recipe %q in %d tree(s)", recipeName, len(c.forest))
}

func (c *calculatorContext) nodeShouldHaveChildren(recipeName, list string) error {
	node, err := c.findNode(recipeName)
	if err != nil {
		return err
	}

	actual := make([]string, 0, len(node.Children))
	for _, child := range node.Children {
		actual = append(actual, child.Recipe.Name)
	}
	if expected := splitNames(list); !sameNames(expected, actual) {
		return fmt.Errorf("expected %q to have children %v, got %v", recipeName, expected, actual)
	}
	return nil
}

func (c *calculatorContext) nodeShouldBeALeaf(recipeName string) error {
	node, err := c.findNode(recipeName)
	if err != nil {
		return err
	}
	if !node.IsLeaf() {
		return fmt.Errorf("expected %q to be a leaf, it has %d children", recipeName, len(node.Children))
	}
	return nil
}

func (c *calculatorContext) recipeShouldAppearTimesInEachTree(recipeName string, times int) error {
	for i, tree := range c.forest {
		count := 0
		for _, node := range tree.Root.FlattenToList() {
			if node.Recipe.Name == recipeName {
				count++
			}
		}
		if count != times {
			return fmt.Errorf("tree %d: expected %q %d time(s), got %d", i+1, recipeName, times, count)
		}
	}
	return nil
}

func (c *calculatorContext) noOutputShouldRepeatAlongAnyPath() error {
	var violation error
	for _, tree := range c.forest {
		tree.Root.Walk(func(node *production.ProductionNode, path []*production.ProductionNode) {
			if violation != nil {
				return
			}
			for _, ancestor := range path {
				for _, output := range node.Recipe.OutputNames() {
					if ancestor.Recipe.Makes(output) {
						violation = fmt.Errorf("%s repeats output %s of ancestor %s",
							node.Recipe.Name, output, ancestor.Recipe.Name)
						return
					}
				}
			}
		})
	}
	return violation
}

func (c *calculatorContext) theResolutionShouldFailForUnknownResource(resource string) error {
	var unknown *recipe.UnknownResourceError
	if !errors.As(c.err, &unknown) {
		return fmt.Errorf("expected unknown resource error, got %v", c.err)
	}
	if unknown.Resource != resource {
		return fmt.Errorf("expected unknown resource %q, got %q", resource, unknown.Resource)
	}
	return nil
}

func (c *calculatorContext) theSuggestionsShouldInclude(name string) error {
	var unknown *recipe.UnknownResourceError
	if !errors.As(c.err, &unknown) {
		return fmt.Errorf("expected unknown resource error, got %v", c.err)
	}
	for _, suggestion := range unknown.Suggestions {
		if suggestion == name {
			return nil
		}
	}
	return fmt.Errorf("expected suggestion %q in [%s]", name, strings.Join(unknown.Suggestions, ", "))
}

func (c *calculatorContext) resolvingTwiceShouldGiveTheSameTrees(resource string) error {
	if err := c.resolve(resource, true); err != nil {
		return err
	}
	first := c.forest.Canonical()

	if err := c.resolve(resource, true); err != nil {
		return err
	}
	if second := c.forest.Canonical(); !reflect.DeepEqual(first, second) {
		return fmt.Errorf("resolution of %q is not deterministic:\n%v\n%v", resource, first, second)
	}
	return nil
}

func registerTreeResolverSteps(sc *godog.ScenarioContext, c *calculatorContext) {
	// Action steps
	sc.Step(`^I resolve production trees for "([^"]*)"$`, c.iResolveProductionTreesFor)
	sc.Step(`^I resolve production trees including raw resources for "([^"]*)"$`, c.iResolveProductionTreesIncludingRawFor)

	// Assertion steps
	sc.Step(`^(\d+) production trees? should be returned$`, c.productionTreesShouldBeReturned)
	sc.Step(`^the tree roots should be "([^"]*)"$`, c.theTreeRootsShouldBe)
	sc.Step(`^"([^"]*)" should have children "([^"]*)"$`, c.nodeShouldHaveChildren)
	sc.Step(`^"([^"]*)" should be a leaf$`, c.nodeShouldBeALeaf)
	sc.Step(`^"([^"]*)" should appear (\d+) times? in each tree$`, c.recipeShouldAppearTimesInEachTree)
	sc.Step(`^no recipe output should repeat along any path$`, c.noOutputShouldRepeatAlongAnyPath)
	sc.Step(`^the resolution should fail for unknown resource "([^"]*)"$`, c.theResolutionShouldFailForUnknownResource)
	sc.Step(`^the suggestions should include "([^"]*)"$`, c.theSuggestionsShouldInclude)
	sc.Step(`^resolving "([^"]*)" twice should give the same trees$`, c.resolvingTwiceShouldGiveTheSameTrees)
}
