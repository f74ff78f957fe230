package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenthands/coursegraph/internal/core"
)

func (c *cli) buildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the graph and print the build report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := c.app.Engine.Build(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
}

func (c *cli) graphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Build the graph and dump every node and edge as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.build(cmd.Context()); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), c.app.Engine.GetGraph())
		},
	}
}

func (c *cli) roadmapCmd() *cobra.Command {
	var minConfidence float64
	cmd := &cobra.Command{
		Use:   "roadmap <target>",
		Short: "Ordered subjects leading to a role, track or competency",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.build(cmd.Context()); err != nil {
				return err
			}
			steps := c.app.Engine.GetRoadmap(strings.Join(args, " "), core.WithMinConfidence(minConfidence))
			return writeJSON(cmd.OutOrStdout(), steps)
		},
	}
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0, "ignore prerequisite edges below this confidence")
	return cmd
}

func (c *cli) nextCmd() *cobra.Command {
	var minConfidence float64
	cmd := &cobra.Command{
		Use:   "next <subject or sentence>",
		Short: "Subjects that follow the subject named in the text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.build(cmd.Context()); err != nil {
				return err
			}
			succ := c.app.Engine.GetSuccessors(strings.Join(args, " "), core.WithMinConfidence(minConfidence))
			return writeJSON(cmd.OutOrStdout(), succ)
		},
	}
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0, "ignore prerequisite edges below this confidence")
	return cmd
}

func (c *cli) askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a free-text question through the configured LLM",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.build(cmd.Context()); err != nil {
				return err
			}
			answer, err := c.app.Engine.Ask(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), answer)
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Build the graph and replace the graph database contents with it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := c.app.Exporter(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.build(cmd.Context()); err != nil {
				return err
			}
			view := c.app.Engine.GetGraph()
			if err := exp.Export(cmd.Context(), view); err != nil {
				return err
			}
			buildID, subjects, err := exp.Published(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d edges; database holds build %s with %d subjects\n",
				len(view.Edges), buildID, subjects)
			return nil
		},
	}
}

func (c *cli) serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				c.app.Config.Server.Port = port
			}
			return c.app.Serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port; overrides the config file")
	return cmd
}
