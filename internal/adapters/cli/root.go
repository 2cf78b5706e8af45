package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath  string
	recipesFile string
	fromDB      string
	noColor     bool
	verbose     bool
	metricsFile string
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dsp-calculator",
		Short: "Dyson Sphere Program production tree calculator",
		Long: `dsp-calculator computes the tree of recipes needed to produce a resource
from a declarative recipe catalog.

Recipes are read from a YAML file (--recipes-file) or from a catalog previously
imported into the database (--from-db). Append ':' to a resource to expand the
tree down to raw resources.

Examples:
  dsp-calculator tree "Iron Ingot"
  dsp-calculator tree "Iron Ingot:" Energy --details
  dsp-calculator recipes makes Graphene
  dsp-calculator recipes lint --strict
  dsp-calculator catalog import --name vanilla
  dsp-calculator tree --from-db vanilla "Processor:"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: config.yaml in ., ./configs or ~/.dsp-calculator)")
	rootCmd.PersistentFlags().StringVar(&recipesFile, "recipes-file", "recipes.yaml",
		"YAML file containing recipes")
	rootCmd.PersistentFlags().StringVar(&fromDB, "from-db", "",
		"Read recipes from the named catalog stored in the database")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "",
		"Write Prometheus metrics to this textfile after the run")

	rootCmd.AddCommand(NewTreeCommand())
	rootCmd.AddCommand(NewRecipesCommand())
	rootCmd.AddCommand(NewCatalogCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
