package production

import (
	"fmt"
	"sort"
)

// ProductionTree is one resolved tree for a requested resource, rooted at one
// of the recipes producing it. Trees are built fresh per resolution and are
// read-only once returned.
type ProductionTree struct {
	ID         string          `json:"id"`
	Resource   string          `json:"resource"`
	IncludeRaw bool            `json:"include_raw"`
	Root       *ProductionNode `json:"root"`
}

// NewProductionTree wraps a root node
func NewProductionTree(id, resource string, includeRaw bool, root *ProductionNode) *ProductionTree {
	return &ProductionTree{
		ID:         id,
		Resource:   resource,
		IncludeRaw: includeRaw,
		Root:       root,
	}
}

// CountNodes returns the total number of nodes in the tree
func (t *ProductionTree) CountNodes() int {
	if t.Root == nil {
		return 0
	}
	return t.Root.CountNodes()
}

// Depth returns the maximum depth of the tree
func (t *ProductionTree) Depth() int {
	if t.Root == nil {
		return 0
	}
	return t.Root.TotalDepth()
}

// Canonical returns the order-independent structural form of the tree
func (t *ProductionTree) Canonical() string {
	if t.Root == nil {
		return ""
	}
	return t.Root.Canonical()
}

// String provides human-readable representation
func (t *ProductionTree) String() string {
	root := "<empty>"
	if t.Root != nil {
		root = t.Root.Recipe.Name
	}
	return fmt.Sprintf("ProductionTree[%s, resource=%s, root=%s, nodes=%d]",
		t.ID, t.Resource, root, t.CountNodes())
}

// Forest is the set of trees returned for one requested resource
type Forest []*ProductionTree

// Canonical returns the sorted canonical forms of every tree, so two forests
// can be compared as sets.
func (f Forest) Canonical() []string {
	result := make([]string, 0, len(f))
	for _, tree := range f {
		result = append(result, tree.Canonical())
	}
	sort.Strings(result)
	return result
}

// RootNames returns the sorted root recipe names
func (f Forest) RootNames() []string {
	result := make([]string, 0, len(f))
	for _, tree := range f {
		if tree.Root != nil {
			result = append(result, tree.Root.Recipe.Name)
		}
	}
	sort.Strings(result)
	return result
}

// TotalNodes returns the number of nodes across every tree
func (f Forest) TotalNodes() int {
	total := 0
	for _, tree := range f {
		total += tree.CountNodes()
	}
	return total
}
