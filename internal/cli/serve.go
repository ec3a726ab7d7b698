package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/greatlse/openchemlib/pkg/observability"
	"github.com/greatlse/openchemlib/pkg/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	maxBody int64
	timeout time.Duration
	noCache bool
}

// serveCommand creates the serve command that runs the HTTP layout API.
func (c *CLI) serveCommand() *cobra.Command {
	var so serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP layout API",
		Long: `Serve the HTTP layout API.

Endpoints:
  GET  /healthz     liveness and version
  POST /v1/layout   molfile or SD body in, laid out molfile, SD or JSON out
  POST /v1/render   molfile body in, svg, graphviz-svg, png or pdf out

Query parameters mirror the layout flags: mode, seed, random, marked,
record, format, bond_length, scale and atom_numbers. The layout section of
the config file supplies the defaults.

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") && c.config.Addr != "" {
				so.addr = c.config.Addr
			}
			return c.runServe(cmd.Context(), so)
		},
	}

	cmd.Flags().StringVar(&so.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().Int64Var(&so.maxBody, "max-body", server.DefaultMaxBodyBytes, "maximum request body in bytes")
	cmd.Flags().DurationVar(&so.timeout, "timeout", server.DefaultTimeout, "per-request timeout")
	cmd.Flags().BoolVar(&so.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, so serveOpts) error {
	runner, err := c.newRunner(ctx, so.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	defaults := c.config.Options
	defaults.Logger = c.Logger

	srv := server.New(runner, server.Options{
		Addr:         so.addr,
		MaxBodyBytes: so.maxBody,
		Timeout:      so.timeout,
		Defaults:     defaults,
		Logger:       c.Logger,
	})

	field("Listening", "http://"+displayAddr(so.addr))
	field("Cache", cacheLabel(c.cacheConfig().Backend, so.noCache))
	fmt.Fprintln(stdout)
	return srv.ListenAndServe(ctx)
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

func cacheLabel(backend string, noCache bool) string {
	switch {
	case noCache:
		return "none"
	case backend == "":
		return "file"
	}
	return backend
}
