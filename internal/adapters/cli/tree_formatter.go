package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/andrescamacho/dsp-calculator/internal/domain/production"
	"github.com/andrescamacho/dsp-calculator/internal/domain/recipe"
)

// TreeFormatter renders production trees and recipes for the terminal
type TreeFormatter struct {
	useColors   bool
	showDetails bool

	rootStyle     lipgloss.Style
	rawStyle      lipgloss.Style
	facilityStyle lipgloss.Style
	headerStyle   lipgloss.Style
}

// NewTreeFormatter creates a new tree formatter. showDetails appends the
// facility and production time to every recipe.
func NewTreeFormatter(useColors, showDetails bool) *TreeFormatter {
	return &TreeFormatter{
		useColors:     useColors,
		showDetails:   showDetails,
		rootStyle:     lipgloss.NewStyle().Bold(true),
		rawStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		facilityStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		headerStyle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
	}
}

// FormatForestHeader introduces the trees resolved for one resource
func (f *TreeFormatter) FormatForestHeader(resource string, includeRaw bool, trees int) string {
	noun := "production trees"
	if trees == 1 {
		noun = "production tree"
	}
	header := fmt.Sprintf("%s: %d %s", resource, trees, noun)
	if includeRaw {
		header += " (raw expanded)"
	}
	return f.style(f.headerStyle, header)
}

// FormatTree renders a production tree as a box-drawing hierarchy
func (f *TreeFormatter) FormatTree(root *production.ProductionNode) string {
	if root == nil {
		return "(empty tree)"
	}

	var builder strings.Builder
	f.formatNode(&builder, root, "", true, true)
	return builder.String()
}

// formatNode recursively formats a node and its children
func (f *TreeFormatter) formatNode(builder *strings.Builder, node *production.ProductionNode, prefix string, isLast bool, isRoot bool) {
	var linePrefix string
	if isRoot {
		linePrefix = ""
	} else if isLast {
		linePrefix = prefix + "└── "
	} else {
		linePrefix = prefix + "├── "
	}

	builder.WriteString(linePrefix)
	builder.WriteString(f.recipeLabel(node.Recipe, isRoot))
	builder.WriteString("\n")

	if len(node.Children) == 0 {
		return
	}

	var childPrefix string
	if isRoot {
		childPrefix = ""
	} else if isLast {
		childPrefix = prefix + "    "
	} else {
		childPrefix = prefix + "│   "
	}

	for i, child := range node.Children {
		f.formatNode(builder, child, childPrefix, i == len(node.Children)-1, false)
	}
}

// recipeLabel returns the recipe name, decorated when details are on
func (f *TreeFormatter) recipeLabel(r recipe.Recipe, isRoot bool) string {
	name := r.Name
	switch {
	case isRoot:
		name = f.style(f.rootStyle, name)
	case r.Raw:
		name = f.style(f.rawStyle, name)
	}

	if !f.showDetails {
		return name
	}

	details := f.style(f.facilityStyle, r.Facility)
	if r.Time > 0 {
		details += ", " + formatSeconds(r.Time)
	}
	if r.Raw {
		details += ", raw"
	}
	return fmt.Sprintf("%s [%s]", name, details)
}

// FormatTreeSummary creates a compact summary of the tree
func (f *TreeFormatter) FormatTreeSummary(tree *production.ProductionTree) string {
	if tree == nil || tree.Root == nil {
		return "No production tree"
	}

	counts := tree.Root.FacilityCounts()
	facilities := make([]string, 0, len(counts))
	for facility := range counts {
		facilities = append(facilities, facility)
	}
	sort.Strings(facilities)

	parts := make([]string, 0, len(facilities))
	for _, facility := range facilities {
		parts = append(parts, fmt.Sprintf("%s=%d", facility, counts[facility]))
	}

	return fmt.Sprintf("Tree: %d nodes, depth=%d, facilities: %s",
		tree.CountNodes(), tree.Depth(), strings.Join(parts, ", "))
}

// FormatCompactTree renders the tree in pre-order on a single line
func (f *TreeFormatter) FormatCompactTree(root *production.ProductionNode) string {
	if root == nil {
		return "(empty)"
	}

	nodes := root.FlattenToList()
	parts := make([]string, 0, len(nodes))
	for _, node := range nodes {
		parts = append(parts, node.Recipe.Name)
	}
	return strings.Join(parts, " → ")
}

// FormatRecipeLine renders a recipe on one line for listings
func (f *TreeFormatter) FormatRecipeLine(r recipe.Recipe) string {
	facility := r.Facility
	if r.Raw {
		facility += ", raw"
	}
	return fmt.Sprintf("%s (%s): %s -> %s",
		r.Name, facility, formatStacks(r.Inputs), formatStacks(r.Outputs))
}

// FormatRecipeDetails provides detailed information about a recipe
func (f *TreeFormatter) FormatRecipeDetails(r recipe.Recipe) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Recipe:    %s\n", r.Name))
	builder.WriteString(fmt.Sprintf("Facility:  %s\n", r.Facility))
	builder.WriteString(fmt.Sprintf("Time:      %s\n", formatSeconds(r.Time)))
	builder.WriteString(fmt.Sprintf("Raw:       %v\n", r.Raw))

	builder.WriteString("Inputs:\n")
	if len(r.Inputs) == 0 {
		builder.WriteString("  (none)\n")
	}
	for _, input := range r.Inputs {
		builder.WriteString(fmt.Sprintf("  - %s\n", input))
	}

	builder.WriteString("Outputs:\n")
	for _, output := range r.Outputs {
		builder.WriteString(fmt.Sprintf("  - %s\n", output))
	}

	return builder.String()
}

func (f *TreeFormatter) style(s lipgloss.Style, text string) string {
	if !f.useColors {
		return text
	}
	return s.Render(text)
}

func formatStacks(stacks []recipe.ItemStack) string {
	if len(stacks) == 0 {
		return "(none)"
	}
	parts := make([]string, 0, len(stacks))
	for _, stack := range stacks {
		parts = append(parts, stack.String())
	}
	return strings.Join(parts, ", ")
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64) + "s"
}
