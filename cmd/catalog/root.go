package main

import (
	"fmt"
	"os"
	"time"

	"bjj-foundation/internal/config"
	"bjj-foundation/internal/database"
	"bjj-foundation/internal/dataset"
	"bjj-foundation/internal/logger"
	"bjj-foundation/internal/service"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs after flag parsing.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger

	// flag overrides
	techniques string
	fights     string
	snapshot   string
	maxCards   int
	debounce   time.Duration
	logLevel   string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "catalog",
		Short: "Browse, search and quiz over the BJJ video catalog",
		Long: `catalog works over the pre-classified technique and fight collections.

The technique collection is required; the fight collection is optional and is
skipped with a warning when it cannot be read. Sources default to the
TECHNIQUES_SOURCE and FIGHTS_SOURCE environment variables (or .env) and may be
file paths or http(s) URLs. With --snapshot the collections are read from a
sqlite snapshot written by "catalog import".`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.techniques, "techniques", "", "technique collection (file path or URL)")
	flags.StringVar(&a.fights, "fights", "", `fight collection (file path or URL, "" disables)`)
	flags.StringVar(&a.snapshot, "snapshot", "", "sqlite snapshot path")
	flags.IntVar(&a.maxCards, "max-cards", 0, "render cap when not searching (0 = unlimited)")
	flags.DurationVar(&a.debounce, "debounce", 0, "search debounce delay in the browser (0 = immediate)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newSearchCmd(a),
		newFacetsCmd(a),
		newBrowseCmd(a),
		newQuizCmd(a),
		newRulesCmd(a),
		newImportCmd(a),
	)
	return root
}

// setup builds the stderr logger and the configuration, then applies any
// flags given on the command line.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	level := a.logLevel
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
		if level == "" {
			level = "warn"
		}
	}
	a.logger = logger.NewConsole(cmd.ErrOrStderr(), logger.ParseLevel(level))

	cfg, err := config.Load(a.logger)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("techniques") {
		cfg.TechniquesSource = a.techniques
	}
	if flags.Changed("snapshot") {
		cfg.SnapshotPath = a.snapshot
	}
	if flags.Changed("fights") {
		cfg.FightsSource = a.fights
	}
	if flags.Changed("max-cards") {
		if a.maxCards < 0 {
			return fmt.Errorf("--max-cards must not be negative")
		}
		cfg.MaxCards = a.maxCards
	}
	if flags.Changed("debounce") {
		if a.debounce < 0 {
			return fmt.Errorf("--debounce must not be negative")
		}
		cfg.SearchDebounce = a.debounce
	}
	a.cfg = cfg
	return nil
}

// loadCatalog loads the working set, failing when the technique collection
// is unavailable. The returned cleanup closes the snapshot, if one was opened.
func (a *app) loadCatalog() (*service.CatalogService, func(), error) {
	db, err := database.New(a.cfg, a.logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if db != nil {
			if err := db.Close(); err != nil {
				a.logger.Warn().Err(err).Msg("error closing database connection")
			}
		}
	}

	loader := dataset.NewConfiguredLoader(a.cfg, db, dataset.NewHTTPClient(), a.logger)
	svc, err := service.LoadCatalogService(loader, a.cfg, a.logger)
	if err == nil {
		err = svc.Ready()
	}
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}
