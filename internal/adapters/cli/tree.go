package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/dsp-calculator/internal/application/production/queries"
)

// rawMarker appended to a resource argument requests raw expansion
const rawMarker = ":"

// ParseResourceRequest splits a resource argument into the resource name and
// whether raw inputs should be expanded ("Iron Ingot:" → "Iron Ingot", true).
func ParseResourceRequest(arg string) (resource string, includeRaw bool) {
	if strings.HasSuffix(arg, rawMarker) {
		return strings.TrimSpace(strings.TrimSuffix(arg, rawMarker)), true
	}
	return strings.TrimSpace(arg), false
}

// NewTreeCommand creates the tree command
func NewTreeCommand() *cobra.Command {
	var (
		showDetails bool
		showSummary bool
		compact     bool
	)

	cmd := &cobra.Command{
		Use:   "tree <resource>[:]...",
		Short: "Show the production trees for one or more resources",
		Long: `Resolve and print every production tree for each requested resource.

One tree is printed per recipe producing the resource. Inputs supplied by raw
recipes are not expanded unless the resource is suffixed with ':'.

Each resource is resolved independently: a failure is reported and the
remaining resources are still printed. The command exits non-zero if any
resource failed.

Examples:
  dsp-calculator tree "Iron Ingot"
  dsp-calculator tree "Iron Ingot:"
  dsp-calculator tree Energy "Magnetic Coil:" --details --summary`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{catalog: true}, func(a *app) error {
				out := cmd.OutOrStdout()
				formatter := a.formatter(showDetails)

				var errs []error
				for i, arg := range args {
					resource, includeRaw := ParseResourceRequest(arg)

					response, err := a.mediator.Send(a.ctx, &queries.ResolveProductionTreesQuery{
						Resource:   resource,
						IncludeRaw: includeRaw,
					})
					if err != nil {
						errs = append(errs, err)
						continue
					}
					resp := response.(*queries.ResolveProductionTreesResponse)

					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintln(out, formatter.FormatForestHeader(resp.Resource, resp.IncludeRaw, len(resp.Trees)))
					for _, tree := range resp.Trees {
						fmt.Fprintln(out)
						if compact {
							fmt.Fprintln(out, formatter.FormatCompactTree(tree.Root))
						} else {
							fmt.Fprint(out, formatter.FormatTree(tree.Root))
						}
						if showSummary {
							fmt.Fprintln(out, formatter.FormatTreeSummary(tree))
						}
					}
				}

				return errors.Join(errs...)
			})
		},
	}

	cmd.Flags().BoolVar(&showDetails, "details", false, "Show facility and production time of every recipe")
	cmd.Flags().BoolVar(&showSummary, "summary", false, "Print a summary line after each tree")
	cmd.Flags().BoolVar(&compact, "compact", false, "Print each tree on a single line")

	return cmd
}
