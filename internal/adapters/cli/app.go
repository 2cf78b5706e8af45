package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	catalogloader "github.com/andrescamacho/dsp-calculator/internal/adapters/catalog"
	"github.com/andrescamacho/dsp-calculator/internal/adapters/metrics"
	"github.com/andrescamacho/dsp-calculator/internal/adapters/persistence"
	catalogCmd "github.com/andrescamacho/dsp-calculator/internal/application/catalog/commands"
	catalogQuery "github.com/andrescamacho/dsp-calculator/internal/application/catalog/queries"
	"github.com/andrescamacho/dsp-calculator/internal/application/common"
	productionQuery "github.com/andrescamacho/dsp-calculator/internal/application/production/queries"
	"github.com/andrescamacho/dsp-calculator/internal/application/production/services"
	"github.com/andrescamacho/dsp-calculator/internal/domain/recipe"
	"github.com/andrescamacho/dsp-calculator/internal/infrastructure/config"
	"github.com/andrescamacho/dsp-calculator/internal/infrastructure/database"
	"github.com/andrescamacho/dsp-calculator/internal/infrastructure/logging"
)

// appOptions selects which parts of the application a command needs
type appOptions struct {
	catalog bool // load the recipe catalog and register catalog queries
	store   bool // open the catalog store and register store handlers
}

// app holds everything a command needs for one run
type app struct {
	cfg      *config.Config
	ctx      context.Context
	logger   *slog.Logger
	mediator common.Mediator
	catalog  *recipe.Catalog
	db       *gorm.DB
	closers  []io.Closer
}

// newApp loads configuration, applies command line overrides and wires the
// mediator with the handlers selected by opts.
func newApp(cmd *cobra.Command, opts appOptions) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(cmd, cfg)

	logger, closer, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &app{
		cfg:      cfg,
		ctx:      common.WithLogger(cmd.Context(), common.NewSlogLogger(logger)),
		logger:   logger,
		mediator: common.NewMediator(),
		closers:  []io.Closer{closer},
	}
	a.mediator.Use(common.LoggingMiddleware)

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		collector := metrics.NewResolutionMetricsCollector()
		if err := collector.Register(); err != nil {
			a.close()
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		metrics.SetGlobalCollector(collector)

		requests := metrics.NewRequestMetricsCollector()
		if err := requests.Register(); err != nil {
			a.close()
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		a.mediator.Use(metrics.PrometheusMiddleware(requests))
	}

	if opts.store || fromDB != "" {
		if err := a.openStore(); err != nil {
			a.close()
			return nil, err
		}
	}

	if opts.catalog {
		if err := a.loadCatalog(); err != nil {
			a.close()
			return nil, err
		}
	}

	if err := a.registerHandlers(opts); err != nil {
		a.close()
		return nil, err
	}

	return a, nil
}

// applyFlagOverrides lets explicit flags win over configuration
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("recipes-file") {
		cfg.Catalog.File = recipesFile
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if metricsFile != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Textfile = metricsFile
	}
}

func (a *app) openStore() error {
	db, err := database.NewConnection(&a.cfg.Database)
	if err != nil {
		return err
	}
	a.db = db
	a.closers = append(a.closers, closerFunc(func() error { return database.Close(db) }))

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate catalog store: %w", err)
	}
	return nil
}

// loadCatalog reads the catalog from the store (--from-db) or the recipe file
func (a *app) loadCatalog() error {
	var (
		catalog *recipe.Catalog
		source  string
		err     error
	)

	if fromDB != "" {
		source = "db:" + fromDB
		catalog, err = persistence.NewGormCatalogRepository(a.db).Load(a.ctx, fromDB)
	} else {
		source = a.cfg.Catalog.File
		catalog, err = catalogloader.NewLoader(a.cfg.Catalog.DefaultFacility).LoadFile(source)
	}
	if err != nil {
		return err
	}

	if a.cfg.Catalog.Strict {
		if mixed := catalog.MixedRawProducers(); len(mixed) > 0 {
			return fmt.Errorf("catalog %s has resources with both raw and processed producers: %v", source, mixed)
		}
	}

	metrics.RecordCatalogLoad(source, catalog.Len())
	a.logger.Debug("Recipe catalog loaded", "source", source, "recipes", catalog.Len())
	a.catalog = catalog
	return nil
}

func (a *app) registerHandlers(opts appOptions) error {
	if opts.catalog {
		resolver := services.NewTreeResolver(a.catalog)
		if err := common.RegisterHandler[*productionQuery.ResolveProductionTreesQuery](a.mediator,
			productionQuery.NewResolveProductionTreesHandler(resolver)); err != nil {
			return err
		}
		if err := common.RegisterHandler[*catalogQuery.FindRecipesQuery](a.mediator,
			catalogQuery.NewFindRecipesHandler(a.catalog)); err != nil {
			return err
		}
		if err := common.RegisterHandler[*catalogQuery.LintCatalogQuery](a.mediator,
			catalogQuery.NewLintCatalogHandler(a.catalog)); err != nil {
			return err
		}
	}

	if opts.store {
		repo := persistence.NewGormCatalogRepository(a.db)
		loader := catalogloader.NewLoader(a.cfg.Catalog.DefaultFacility)
		if err := common.RegisterHandler[*catalogCmd.ImportCatalogCommand](a.mediator,
			catalogCmd.NewImportCatalogHandler(loader, repo)); err != nil {
			return err
		}
		if err := common.RegisterHandler[*catalogCmd.DeleteCatalogCommand](a.mediator,
			catalogCmd.NewDeleteCatalogHandler(repo)); err != nil {
			return err
		}
		if err := common.RegisterHandler[*catalogQuery.ListCatalogsQuery](a.mediator,
			catalogQuery.NewListCatalogsHandler(repo)); err != nil {
			return err
		}
	}

	return nil
}

// formatter returns a tree formatter honouring --no-color and NO_COLOR.
// Colors are also off when stdout is not a terminal.
func (a *app) formatter(showDetails bool) *TreeFormatter {
	fd := os.Stdout.Fd()
	terminal := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	useColors := !noColor && os.Getenv("NO_COLOR") == "" && terminal
	return NewTreeFormatter(useColors, showDetails)
}

// close writes the metrics textfile and releases resources
func (a *app) close() error {
	var firstErr error
	if a.cfg.Metrics.Enabled && metrics.IsEnabled() {
		if err := metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
			firstErr = fmt.Errorf("failed to write metrics: %w", err)
		}
		metrics.ResetRegistry()
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// withApp runs fn with a fully wired app and always closes it
func withApp(cmd *cobra.Command, opts appOptions, fn func(a *app) error) (err error) {
	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return fn(a)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
