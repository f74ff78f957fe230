package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/agenthands/coursegraph/internal/config"
	"github.com/agenthands/coursegraph/internal/core"
	"github.com/agenthands/coursegraph/internal/core/export"
	"github.com/agenthands/coursegraph/internal/core/extraction"
	"github.com/agenthands/coursegraph/internal/core/model"
	"github.com/agenthands/coursegraph/internal/driver"
	"github.com/agenthands/coursegraph/internal/llm"
	"github.com/agenthands/coursegraph/internal/logger"
	"github.com/agenthands/coursegraph/internal/server"
	"github.com/agenthands/coursegraph/internal/watch"
)

// ErrNoGraphDB is returned by Exporter when no graph database URI is configured.
var ErrNoGraphDB = errors.New("graph database is not configured")

const exportTimeout = 2 * time.Minute

// LoadConfig reads the config file, applies environment overrides and
// validates the result.
func LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// App wires configuration, the engine and its optional adapters.
type App struct {
	Config *config.Config
	Engine *core.Engine
	Log    *logger.Logger

	llmClient llm.LLMClient
	driver    *driver.BoltDriver
}

func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	llmClient, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	if llmClient == nil {
		log.Info("no llm provider configured, question answering disabled")
	}

	opts, err := core.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	var extractor *extraction.Extractor
	if llmClient != nil {
		extractor = extraction.NewExtractor(llmClient, cfg.Prompts)
	}

	return &App{
		Config:    cfg,
		Engine:    core.NewEngine(opts, extractor, log),
		Log:       log,
		llmClient: llmClient,
	}, nil
}

// Exporter connects to the graph database on first use.
func (a *App) Exporter(ctx context.Context) (*export.Exporter, error) {
	if a.Config.GraphDB.URI == "" {
		return nil, ErrNoGraphDB
	}
	if a.driver == nil {
		d, err := driver.NewBoltDriver(ctx, a.Config.GraphDB, a.Log)
		if err != nil {
			return nil, err
		}
		a.driver = d
	}
	return export.NewExporter(a.driver, a.Log), nil
}

// EnableSync exports every published graph when [graphdb] sync_on_build is
// set. Export failures are logged and never affect the published graph.
func (a *App) EnableSync(ctx context.Context) error {
	if !a.Config.GraphDB.SyncOnBuild {
		return nil
	}
	exp, err := a.Exporter(ctx)
	if err != nil {
		return err
	}
	a.Engine.OnPublish(func(ctx context.Context, view model.GraphView) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), exportTimeout)
		defer cancel()
		if err := exp.Export(ctx, view); err != nil {
			a.Log.Error("graph export failed", "build_id", view.BuildID, "error", err)
		}
	})
	return nil
}

// Watch rebuilds the engine whenever a configured catalog file changes.
func (a *App) Watch(ctx context.Context) (*watch.Watcher, error) {
	paths := make([]string, 0, len(a.Config.Catalogs))
	for _, c := range a.Config.Catalogs {
		paths = append(paths, c.Path)
	}
	w, err := watch.New(paths, func(ctx context.Context, _ []string) error {
		return a.Engine.Rebuild(ctx)
	}, a.Config.WatchDebounce(), a.Log)
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return nil, err
	}
	return w, nil
}

// Serve builds the graph, starts the optional watcher and graph sync, and
// serves HTTP until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	if err := a.EnableSync(ctx); err != nil {
		return fmt.Errorf("failed to enable graph sync: %w", err)
	}
	if _, err := a.Engine.Build(ctx); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	if a.Config.Server.Watch {
		w, err := a.Watch(ctx)
		if err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		defer w.Stop()
	}

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: server.NewServer(a.Engine, a.Config.Server, a.Log).SetupRouter(),
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("starting server", "port", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close releases the graph database connection and the translator, if any.
func (a *App) Close(ctx context.Context) {
	if a.driver != nil {
		if err := a.driver.Close(ctx); err != nil {
			a.Log.Warn("failed to close graph driver", "error", err)
		}
	}
	if c, ok := a.llmClient.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			a.Log.Warn("failed to close llm client", "error", err)
		}
	}
}
