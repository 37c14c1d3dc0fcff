package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/Arch-Mind/frontend-sub001/pkg/errors"
	"github.com/Arch-Mind/frontend-sub001/pkg/observability"
	"github.com/Arch-Mind/frontend-sub001/pkg/observability/prom"
	"github.com/Arch-Mind/frontend-sub001/pkg/server"
)

// serveCommand starts the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and cluster state API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			metrics := prom.New(reg)
			observability.SetPipelineHooks(metrics)
			observability.SetCacheHooks(metrics)
			observability.SetHTTPHooks(metrics)
			defer observability.Reset()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return errors.Wrap(errors.ErrCodeCache, err, "initialize runner")
			}
			defer runner.Close()

			store, err := c.openStore(ctx)
			if err != nil {
				return errors.Wrap(errors.ErrCodeStorage, err, "open cluster state")
			}
			defer store.Close()

			srv := &server.Server{
				Runner:      runner,
				Store:       store,
				Defaults:    c.pipelineOptions(),
				CORSOrigins: c.Config.Server.CORSOrigins,
				Gatherer:    reg,
				Logger:      c.Logger,
			}
			printInfo("Serving on %s", addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")
	return cmd
}
