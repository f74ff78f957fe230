package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/agenthands/coursegraph/internal/app"
	"github.com/agenthands/coursegraph/internal/config"
	"github.com/agenthands/coursegraph/internal/logger"
)

const longRoot = `coursegraph merges a university curriculum and a competency program into one
prerequisite graph and answers roadmap and "what comes next" questions over it.`

type cli struct {
	cfgFile string
	logMode string
	app     *app.App
	log     *logger.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "coursegraph",
		Short:         "Curriculum knowledge graph",
		Long:          longRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.close()
		},
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", config.Path(), "config file")
	root.PersistentFlags().StringVar(&c.logMode, "log-mode", "", "log mode (dev, prod, nop); overrides the config file")

	root.AddCommand(
		c.buildCmd(),
		c.graphCmd(),
		c.roadmapCmd(),
		c.nextCmd(),
		c.askCmd(),
		c.exportCmd(),
		c.serveCmd(),
	)
	return root
}

func (c *cli) init(ctx context.Context) error {
	_ = godotenv.Load()

	cfg, err := app.LoadConfig(c.cfgFile)
	if err != nil {
		return err
	}
	if c.logMode != "" {
		cfg.Log.Mode = c.logMode
	}

	c.log, err = logger.New(cfg.Log.Mode)
	if err != nil {
		return err
	}
	c.app, err = app.New(ctx, cfg, c.log)
	return err
}

func (c *cli) close() {
	if c.app != nil {
		c.app.Close(context.Background())
	}
	if c.log != nil {
		c.log.Sync()
	}
}

// build runs one graph build; every query command starts with it.
func (c *cli) build(ctx context.Context) error {
	_, err := c.app.Engine.Build(ctx)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
