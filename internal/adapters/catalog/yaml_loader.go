package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/dsp-calculator/internal/domain/recipe"
)

// stackDefinition is an input or output entry as written in the source
type stackDefinition struct {
	Name  string `yaml:"name" validate:"required"`
	Count *int   `yaml:"count" validate:"omitempty,gt=0"`
}

// recipeDefinition is one recipe record as written in the source
type recipeDefinition struct {
	Name     string            `yaml:"name" validate:"required"`
	Facility string            `yaml:"facility"`
	Time     float64           `yaml:"time" validate:"gte=0"`
	Raw      bool              `yaml:"raw"`
	Inputs   []stackDefinition `yaml:"inputs" validate:"dive"`
	Outputs  []stackDefinition `yaml:"outputs" validate:"required,min=1,dive"`
}

// Loader reads recipe catalogs from YAML.
//
// The source is a sequence of mappings:
//
//   - name: Iron Ingot
//     facility: Smelter
//     time: 1
//     inputs:
//       - {name: Iron Ore, count: 1}
//     outputs:
//       - {name: Iron Ingot}
//
// Omitted fields take their defaults: facility is the loader's default
// facility, time is 0, raw is false, inputs is empty and count is 1.
type Loader struct {
	defaultFacility string
	validate        *validator.Validate
}

// NewLoader creates a loader assigning defaultFacility to recipes without one.
// An empty defaultFacility falls back to recipe.DefaultFacility.
func NewLoader(defaultFacility string) *Loader {
	if defaultFacility == "" {
		defaultFacility = recipe.DefaultFacility
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	return &Loader{
		defaultFacility: defaultFacility,
		validate:        v,
	}
}

// LoadFile reads the catalog at path
func (l *Loader) LoadFile(path string) (*recipe.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recipe catalog: %w", err)
	}
	defer f.Close()

	return l.Load(f, path)
}

// Load parses a catalog from r. source names the input in error messages.
//
// Any malformed input yields a *recipe.CatalogParseError; no partial catalog
// is ever returned.
func (l *Loader) Load(r io.Reader, source string) (*recipe.Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &recipe.CatalogParseError{Source: source, Err: err}
	}
	lines := strings.Split(string(data), "\n")

	parseErr := func(line int, err error) error {
		return &recipe.CatalogParseError{
			Source:  source,
			Line:    line,
			Content: snippet(lines, line),
			Err:     err,
		}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, parseErr(0, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, parseErr(0, errors.New("recipe source is empty"))
	}

	root := doc.Content[0]
	if root.Kind != yaml.SequenceNode {
		return nil, parseErr(root.Line, errors.New("expected a list of recipe records"))
	}

	recipes := make([]recipe.Recipe, 0, len(root.Content))
	recipeLines := make([]int, 0, len(root.Content))
	for i, node := range root.Content {
		rec, err := l.decodeRecipe(i, node)
		if err != nil {
			return nil, parseErr(node.Line, err)
		}
		recipes = append(recipes, rec)
		recipeLines = append(recipeLines, node.Line)
	}

	catalog, err := recipe.NewCatalog(recipes)
	if err != nil {
		line := 0
		var invalid *recipe.InvalidRecipeError
		if errors.As(err, &invalid) && invalid.Index < len(recipeLines) {
			line = recipeLines[invalid.Index]
		}
		return nil, parseErr(line, err)
	}

	return catalog, nil
}

// decodeRecipe turns one record node into a Recipe with defaults applied
func (l *Loader) decodeRecipe(index int, node *yaml.Node) (recipe.Recipe, error) {
	if node.Kind != yaml.MappingNode {
		return recipe.Recipe{}, fmt.Errorf("recipe #%d: expected a mapping of recipe fields", index+1)
	}

	// yaml would silently turn `name: 42` into "42"
	if value := mappingValue(node, "name"); value != nil && (value.Kind != yaml.ScalarNode || value.Tag != "!!str") {
		return recipe.Recipe{}, &recipe.InvalidRecipeError{Index: index, Field: "name", Reason: "must be a string"}
	}

	var def recipeDefinition
	if err := node.Decode(&def); err != nil {
		return recipe.Recipe{}, fmt.Errorf("recipe #%d: %w", index+1, err)
	}

	if err := l.validate.Struct(def); err != nil {
		return recipe.Recipe{}, toInvalidRecipeError(index, def.Name, err)
	}

	facility := def.Facility
	if facility == "" {
		facility = l.defaultFacility
	}

	return recipe.Recipe{
		Name:     def.Name,
		Facility: facility,
		Time:     def.Time,
		Raw:      def.Raw,
		Inputs:   toStacks(def.Inputs),
		Outputs:  toStacks(def.Outputs),
	}, nil
}

func toStacks(defs []stackDefinition) []recipe.ItemStack {
	stacks := make([]recipe.ItemStack, 0, len(defs))
	for _, def := range defs {
		count := 1
		if def.Count != nil {
			count = *def.Count
		}
		stacks = append(stacks, recipe.ItemStack{Name: def.Name, Count: count})
	}
	return stacks
}

// toInvalidRecipeError reports the first validation failure
func toInvalidRecipeError(index int, name string, err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return err
	}

	fe := validationErrs[0]
	field := fe.Namespace()
	if dot := strings.Index(field, "."); dot >= 0 {
		field = field[dot+1:]
	}

	var reason string
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "min":
		reason = "must not be empty"
	case "gt":
		reason = "must be positive"
	case "gte":
		reason = "must not be negative"
	default:
		reason = fmt.Sprintf("failed validation: %s", fe.Tag())
	}

	return &recipe.InvalidRecipeError{Index: index, Name: name, Field: field, Reason: reason}
}

// mappingValue returns the value node for key in a mapping node, or nil
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// snippet returns the trimmed source line (1-based), or "" when out of range
func snippet(lines []string, line int) string {
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[line-1])
}
