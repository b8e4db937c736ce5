package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackdiagram/pkg/observability"
	"github.com/matzehuels/stackdiagram/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP render API
// until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, backend string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Serve exposes the pipeline over HTTP:

  POST /v1/render?format=svg&syntax=yaml   render a manifest body
  POST /v1/dot?syntax=hcl                  return the DOT text
  GET  /healthz                            liveness
  GET  /metrics                            Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			runner, err := c.newRunner(ctx, runnerOptions{noCache: noCache, backend: backend})
			if err != nil {
				return err
			}
			defer runner.Close()

			hooks := observability.NewPrometheusHooks(prometheus.DefaultRegisterer)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			defer observability.Reset()

			if addr == "" {
				addr = c.Config.Server.Addr
			}
			srv := server.New(runner, logger, server.Options{
				MaxBodyBytes:  c.Config.Server.MaxBodyBytes,
				RenderTimeout: c.Config.Server.RenderTimeout.Std(),
			})

			printInfo("Serving on %s %s", StyleHighlight.Render(addr), StyleDim.Render("(backend "+runner.Backend.Name()+")"))
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	cmd.Flags().StringVar(&backend, "backend", "", "render backend: graphviz, exec")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}
