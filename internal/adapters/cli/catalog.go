package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/dsp-calculator/internal/application/catalog/commands"
	"github.com/andrescamacho/dsp-calculator/internal/application/catalog/queries"
)

// NewCatalogCommand creates the catalog command with subcommands
func NewCatalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage recipe catalogs stored in the database",
		Long: `Import recipe files into the database and manage stored catalogs.

A stored catalog is selected with the global --from-db flag.

Examples:
  dsp-calculator catalog import --name vanilla
  dsp-calculator catalog import --recipes-file modded.yaml --name modded
  dsp-calculator catalog list
  dsp-calculator catalog delete modded`,
	}

	cmd.AddCommand(newCatalogImportCommand())
	cmd.AddCommand(newCatalogListCommand())
	cmd.AddCommand(newCatalogDeleteCommand())

	return cmd
}

// catalogNameFromPath derives a default catalog name: "data/vanilla.yaml" → "vanilla"
func catalogNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func newCatalogImportCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the recipe file into the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{store: true}, func(a *app) error {
				path := a.cfg.Catalog.File
				if name == "" {
					name = catalogNameFromPath(path)
				}

				response, err := a.mediator.Send(a.ctx, &commands.ImportCatalogCommand{
					Name: name,
					Path: path,
				})
				if err != nil {
					return err
				}
				resp := response.(*commands.ImportCatalogResponse)

				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d recipes from %s as catalog '%s'\n",
					resp.RecipeCount, resp.Source, resp.Name)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Catalog name (default: recipe file name without extension)")

	return cmd
}

func newCatalogListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored catalogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{store: true}, func(a *app) error {
				response, err := a.mediator.Send(a.ctx, &queries.ListCatalogsQuery{})
				if err != nil {
					return err
				}
				catalogs := response.(*queries.ListCatalogsResponse).Catalogs

				out := cmd.OutOrStdout()
				if len(catalogs) == 0 {
					fmt.Fprintln(out, "No catalogs stored")
					return nil
				}

				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tRECIPES\tSOURCE\tIMPORTED")
				for _, c := range catalogs {
					fmt.Fprintf(w, "%s\t%d\t%s\t%s\n",
						c.Name, c.RecipeCount, c.Source, c.ImportedAt.Format("2006-01-02 15:04:05"))
				}
				return w.Flush()
			})
		},
	}
}

func newCatalogDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{store: true}, func(a *app) error {
				if _, err := a.mediator.Send(a.ctx, &commands.DeleteCatalogCommand{Name: args[0]}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted catalog '%s'\n", args[0])
				return nil
			})
		},
	}
}
