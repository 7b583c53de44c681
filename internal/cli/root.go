package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"commitforge/internal/config"
	"commitforge/internal/database"
	"commitforge/internal/diff"
	"commitforge/internal/enhance"
	"commitforge/internal/events"
	"commitforge/internal/llm/router"
	"commitforge/internal/pipeline"
	"commitforge/internal/prompt"
	"commitforge/internal/services"
	"commitforge/internal/store"
)

// App holds the wired application graph shared by every command.
type App struct {
	Config       *config.Config
	Services     *services.Services
	Registry     *router.Registry
	Analyzer     *diff.Analyzer
	Cache        *store.AnalysisCache
	Hub          *events.Hub
	Orchestrator *pipeline.Orchestrator

	dbClose func() error
}

// NewApp builds the full graph: database, repositories, model registry,
// router, and the generation pipeline.
func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := database.Init(database.Config{
		Path:     cfg.DatabasePath,
		LogLevel: logger.Warn,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	app := &App{Config: cfg}
	if sqlDB, err := db.DB(); err == nil {
		app.dbClose = sqlDB.Close
	}

	if err := app.wire(db); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) wire(db *gorm.DB) error {
	a.Services = services.NewServices(db)

	registry, err := router.NewRegistry(a.Services.ModelSettings)
	if err != nil {
		return fmt.Errorf("load model registry: %w", err)
	}
	a.Registry = registry

	enhanceCfg, err := a.Services.Settings.EnhanceConfig()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	a.Analyzer = diff.NewAnalyzer()
	a.Cache = store.NewAnalysisCache()
	a.Hub = events.NewHub()

	rtr := router.NewRouter(a.Services.Credentials,
		router.WithRateLimit(a.Config.RatePerMinute, a.Config.RateBurst, a.Config.RateMaxWait),
	)

	a.Orchestrator = pipeline.New(pipeline.Options{
		Analyzer:   a.Analyzer,
		Cache:      a.Cache,
		Builder:    prompt.NewBuilder(a.Config.PromptMaxChars),
		Models:     registry,
		Generator:  pipeline.RouterGenerator(rtr),
		Enhancer:   enhance.NewEnhancer(enhanceCfg),
		History:    a.Services.History,
		Emitter:    a.Hub,
		CacheTTL:   a.Config.CacheTTL,
		SessionKey: a.Config.SessionKey,
	})
	return nil
}

// Close releases the database handle and the event hub.
func (a *App) Close() {
	if a.Hub != nil {
		a.Hub.Close()
	}
	if a.dbClose != nil {
		_ = a.dbClose()
	}
}

// NewRootCmd assembles the command tree. The app graph is built lazily on
// first use so commands like help and completion stay database-free.
func NewRootCmd() *cobra.Command {
	var app *App

	root := &cobra.Command{
		Use:           "commitforge",
		Short:         "Generate commit messages from diffs with AI assistance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	getApp := func() (*App, error) {
		if app != nil {
			return app, nil
		}
		var err error
		app, err = NewApp()
		return app, err
	}

	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app != nil {
			app.Close()
			app = nil
		}
	}

	root.AddCommand(
		newGenerateCmd(getApp),
		newAnalyzeCmd(getApp),
		newHistoryCmd(getApp),
		newFeedbackCmd(getApp),
		newModelsCmd(getApp),
		newKeysCmd(getApp),
		newSettingsCmd(getApp),
	)
	return root
}
