package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"fairness-auditor/internal/config"
	"fairness-auditor/internal/di"
	"fairness-auditor/internal/domain/entity"
	"fairness-auditor/internal/infrastructure/env"
	"fairness-auditor/internal/infrastructure/userinteraction"
	"fairness-auditor/internal/usecase/digest"

	"github.com/spf13/cobra"
)

const (
	exitInput      = 2
	exitGeneration = 3
)

var version = "dev"

type cliError struct {
	code int
	err  error
}

func (e cliError) Error() string { return e.err.Error() }

func (e cliError) Unwrap() error { return e.err }

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		var ce cliError
		if errors.As(err, &ce) {
			fmt.Fprintln(os.Stderr, ce.err)
			os.Exit(ce.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	outDir     string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "fairaudit",
		Short:         "Subgroup fairness audit for a binary classifier",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "optional YAML config file")
	root.PersistentFlags().StringVar(&opts.outDir, "out-dir", "", "override the output directory")

	root.AddCommand(newMetricsCommand(opts))
	root.AddCommand(newAgentsCommand(opts))
	root.AddCommand(newRunCommand(opts))
	root.AddCommand(newServeCommand(opts))
	root.AddCommand(newVersionCommand())
	return root
}

func newMetricsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Compute per-group rate tables from the predictions table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.container(cmd.Context(), "metrics", false)
			if err != nil {
				return err
			}
			defer c.Close()

			tables, err := c.Audit.ComputeTables(cmd.Context())
			if err != nil {
				return classify(err)
			}
			printTables(cmd.OutOrStdout(), tables)
			return nil
		},
	}
}

func newAgentsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "Generate the four reports from stored tables and metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.container(cmd.Context(), "agents", true)
			if err != nil {
				return err
			}
			defer c.Close()

			result, err := c.Audit.GenerateReports(cmd.Context())
			if result != nil {
				fmt.Fprintln(cmd.OutOrStdout(), userinteraction.RenderSummary(result))
			}
			if err != nil {
				return classify(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reports written to %s\n", c.Reports.Dir())
			return nil
		},
	}
}

func newRunCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Compute tables and then generate the reports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := opts.container(cmd.Context(), "run", true)
			if err != nil {
				return err
			}
			defer c.Close()

			result, err := c.Audit.Run(cmd.Context())
			if result != nil {
				fmt.Fprintln(cmd.OutOrStdout(), userinteraction.RenderSummary(result))
			}
			if err != nil {
				return classify(err)
			}
			return nil
		},
	}
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve tables, metrics and reports over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			c, err := opts.container(ctx, "serve", false)
			if err != nil {
				return err
			}
			defer c.Close()

			if addr == "" {
				addr = c.Config.Serve.Addr
			}
			return c.ArtifactServer().ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from SERVE_ADDR)")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "fairaudit", version)
		},
	}
}

func (o *rootOptions) container(ctx context.Context, runName string, withLLM bool) (*di.Container, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	secrets := env.NewEnvService()

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, cliError{code: exitInput, err: err}
	}
	if o.outDir != "" {
		cfg.OutputDir = o.outDir
	}

	c, err := di.NewContainer(ctx, cfg, di.Options{
		RunName: runName,
		WithLLM: withLLM,
		Secrets: secrets,
	})
	if err != nil {
		return nil, cliError{code: exitInput, err: err}
	}
	return c, nil
}

// classify maps domain errors to exit codes.
func classify(err error) error {
	switch {
	case errors.Is(err, entity.ErrGeneration):
		return cliError{code: exitGeneration, err: err}
	case errors.Is(err, entity.ErrInvalidLabel),
		errors.Is(err, entity.ErrEmptyGroup),
		errors.Is(err, entity.ErrMissingColumn),
		errors.Is(err, os.ErrNotExist):
		return cliError{code: exitInput, err: err}
	default:
		return err
	}
}

func printTables(w io.Writer, tables []entity.GroupRateTable) {
	for _, t := range tables {
		fmt.Fprintf(w, "\nFairness by %s (%d groups)\n", t.Attribute, len(t.Rows))
		fmt.Fprintln(w, digest.RenderRows(string(t.Attribute), t.Rows))
	}
}
