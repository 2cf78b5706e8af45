package recipe

import (
	"fmt"
	"strings"
)

// Domain errors for recipe catalogs

// CatalogParseError indicates the recipe source is malformed or violates the
// "list of recipe records" shape. No partial catalog is ever returned with it.
type CatalogParseError struct {
	Source  string // file name or other source label
	Line    int    // 1-based line of the offending content, 0 if unknown
	Content string // offending snippet, empty if unknown
	Err     error
}

func (e *CatalogParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "failed to parse recipe catalog %s", e.Source)
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Content != "" {
		fmt.Fprintf(&b, "\n  offending content: %s", e.Content)
	}
	return b.String()
}

func (e *CatalogParseError) Unwrap() error {
	return e.Err
}

// InvalidRecipeError indicates a recipe violates a structural rule
type InvalidRecipeError struct {
	Index  int // position in the source, 0-based
	Name   string
	Field  string
	Reason string
}

func (e *InvalidRecipeError) Error() string {
	name := e.Name
	if name == "" {
		name = "<unnamed>"
	}
	if e.Field == "" {
		return fmt.Sprintf("recipe #%d (%s): %s", e.Index+1, name, e.Reason)
	}
	return fmt.Sprintf("recipe #%d (%s): field '%s' %s", e.Index+1, name, e.Field, e.Reason)
}

// UnknownResourceError indicates no recipe in the catalog produces the resource
type UnknownResourceError struct {
	Resource    string
	Suggestions []string
}

func (e *UnknownResourceError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("no recipe found for %s", e.Resource)
	}
	return fmt.Sprintf("no recipe found for %s (did you mean: %s?)",
		e.Resource, strings.Join(e.Suggestions, ", "))
}
