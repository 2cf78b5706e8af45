package production

import (
	"sort"
	"strings"

	"github.com/andrescamacho/dsp-calculator/internal/domain/recipe"
)

// ProductionNode is a node in a production tree. It carries one recipe and
// owns the subtrees producing that recipe's inputs: one child per producing
// recipe per input resource.
type ProductionNode struct {
	// The recipe this node represents
	Recipe recipe.Recipe `json:"recipe"`

	// Subtrees producing this recipe's inputs (empty for leaves)
	Children []*ProductionNode `json:"children,omitempty"`
}

// NewProductionNode creates a node with no children
func NewProductionNode(r recipe.Recipe) *ProductionNode {
	return &ProductionNode{
		Recipe:   r,
		Children: make([]*ProductionNode, 0),
	}
}

// AddChild attaches a subtree under this node
func (n *ProductionNode) AddChild(child *ProductionNode) {
	n.Children = append(n.Children, child)
}

// IsLeaf returns true if the node has no children
func (n *ProductionNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// TotalDepth returns the maximum depth of the tree from this node
func (n *ProductionNode) TotalDepth() int {
	maxChildDepth := 0
	for _, child := range n.Children {
		if d := child.TotalDepth(); d > maxChildDepth {
			maxChildDepth = d
		}
	}
	return maxChildDepth + 1
}

// CountNodes returns the number of nodes in the subtree, this node included
func (n *ProductionNode) CountNodes() int {
	count := 1
	for _, child := range n.Children {
		count += child.CountNodes()
	}
	return count
}

// Walk visits every node depth-first, parents before children.
// path holds the ancestors of node, root first.
func (n *ProductionNode) Walk(fn func(node *ProductionNode, path []*ProductionNode)) {
	n.walk(fn, nil)
}

func (n *ProductionNode) walk(fn func(*ProductionNode, []*ProductionNode), path []*ProductionNode) {
	fn(n, path)
	childPath := append(path[:len(path):len(path)], n)
	for _, child := range n.Children {
		child.walk(fn, childPath)
	}
}

// FlattenToList returns every node in depth-first pre-order
func (n *ProductionNode) FlattenToList() []*ProductionNode {
	result := make([]*ProductionNode, 0)
	n.Walk(func(node *ProductionNode, _ []*ProductionNode) {
		result = append(result, node)
	})
	return result
}

// Find returns the first node (pre-order) whose recipe has the given name
func (n *ProductionNode) Find(recipeName string) *ProductionNode {
	if n.Recipe.Name == recipeName {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(recipeName); found != nil {
			return found
		}
	}
	return nil
}

// RecipeNames returns the unique recipe names in the subtree, sorted
func (n *ProductionNode) RecipeNames() []string {
	set := make(map[string]bool)
	n.Walk(func(node *ProductionNode, _ []*ProductionNode) {
		set[node.Recipe.Name] = true
	})

	result := make([]string, 0, len(set))
	for name := range set {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// FacilityCounts tallies how many nodes run in each facility
func (n *ProductionNode) FacilityCounts() map[string]int {
	counts := make(map[string]int)
	n.Walk(func(node *ProductionNode, _ []*ProductionNode) {
		counts[node.Recipe.Facility]++
	})
	return counts
}

// RawLeaves returns the unique names of raw recipes appearing as leaves, sorted
func (n *ProductionNode) RawLeaves() []string {
	set := make(map[string]bool)
	n.Walk(func(node *ProductionNode, _ []*ProductionNode) {
		if node.IsLeaf() && node.Recipe.Raw {
			set[node.Recipe.Name] = true
		}
	})

	result := make([]string, 0, len(set))
	for name := range set {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// Canonical returns a string form of the subtree that is independent of
// sibling order, so two trees can be compared structurally.
func (n *ProductionNode) Canonical() string {
	key := n.Recipe.Key().String()
	if n.IsLeaf() {
		return key
	}

	children := make([]string, 0, len(n.Children))
	for _, child := range n.Children {
		children = append(children, child.Canonical())
	}
	sort.Strings(children)
	return key + "(" + strings.Join(children, ";") + ")"
}
