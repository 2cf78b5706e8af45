package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/dsp-calculator/internal/application/catalog/queries"
)

// NewRecipesCommand creates the recipes command with subcommands
func NewRecipesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Browse the recipe catalog",
		Long: `Browse and check the loaded recipe catalog.

Examples:
  dsp-calculator recipes list
  dsp-calculator recipes makes Graphene
  dsp-calculator recipes uses "Iron Ore"
  dsp-calculator recipes show "Plasma Refining"
  dsp-calculator recipes lint --strict`,
	}

	cmd.AddCommand(newRecipesLookupCommand("list", queries.ModeAll,
		"List every recipe in catalog order", cobra.NoArgs))
	cmd.AddCommand(newRecipesLookupCommand("makes <resource>", queries.ModeMakes,
		"List the recipes producing a resource", cobra.ExactArgs(1)))
	cmd.AddCommand(newRecipesLookupCommand("uses <resource>", queries.ModeUses,
		"List the recipes consuming a resource", cobra.ExactArgs(1)))
	cmd.AddCommand(newRecipesShowCommand())
	cmd.AddCommand(newRecipesLintCommand())

	return cmd
}

// newRecipesLookupCommand creates a listing subcommand backed by FindRecipesQuery
func newRecipesLookupCommand(use, mode, short string, args cobra.PositionalArgs) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{catalog: true}, func(a *app) error {
				query := &queries.FindRecipesQuery{Mode: mode}
				if len(args) > 0 {
					query.Term = args[0]
				}

				response, err := a.mediator.Send(a.ctx, query)
				if err != nil {
					return err
				}
				resp := response.(*queries.FindRecipesResponse)

				out := cmd.OutOrStdout()
				if len(resp.Recipes) == 0 {
					fmt.Fprintf(out, "No recipes found for '%s'\n", resp.Term)
					return nil
				}

				formatter := a.formatter(false)
				for _, r := range resp.Recipes {
					fmt.Fprintln(out, formatter.FormatRecipeLine(r))
				}
				return nil
			})
		},
	}
}

func newRecipesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show the details of a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{catalog: true}, func(a *app) error {
				response, err := a.mediator.Send(a.ctx, &queries.FindRecipesQuery{
					Mode: queries.ModeName,
					Term: args[0],
				})
				if err != nil {
					return err
				}

				formatter := a.formatter(false)
				for _, r := range response.(*queries.FindRecipesResponse).Recipes {
					fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRecipeDetails(r))
				}
				return nil
			})
		},
	}
}

func newRecipesLintCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Check the catalog for ambiguous raw classification",
		Long: `Report resources produced by both raw and processed recipes.

When raw expansion is off the resolver treats such a resource as raw, even
through its processed producer, and stops expanding the recipe that needs it.
With --strict the command fails when any
such resource exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{catalog: true}, func(a *app) error {
				response, err := a.mediator.Send(a.ctx, &queries.LintCatalogQuery{})
				if err != nil {
					return err
				}
				resp := response.(*queries.LintCatalogResponse)

				out := cmd.OutOrStdout()
				if resp.Clean() {
					fmt.Fprintln(out, "No issues found")
					return nil
				}

				fmt.Fprintln(out, "Resources with both raw and processed producers:")
				for _, resource := range resp.MixedRawProducers {
					fmt.Fprintf(out, "  - %s\n", resource)
				}
				if strict {
					return fmt.Errorf("%d resource(s) with mixed raw producers", len(resp.MixedRawProducers))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when issues are found")

	return cmd
}
