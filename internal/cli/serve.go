package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/gardar/agendapdf/internal/server"
	"github.com/gardar/agendapdf/pkg/report"
)

func (a *app) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the agenda API over HTTP",
		Long: `Serve starts the HTTP API:
  POST /v1/agendas        import an agenda (multipart "file" or raw body, ?source=, ?format=pdf)
  POST /v1/agendas/lines  reconstructed lines only
  GET  /healthz           liveness
  GET  /metrics           Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServe(cmd.Context())
		},
	}

	cmd.Flags().String("addr", "", "listen address (default: config server.addr)")
	_ = a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func (a *app) runServe(ctx context.Context) error {
	im, err := a.newImporter(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Options{
		Importer: im,
		Gatherer: prometheus.DefaultGatherer,
		Logger:   a.logger.With().Str("component", "server").Logger(),
		Config:   a.cfg.Server,
		Report:   report.DefaultConfig(),
	})
	return srv.ListenAndServe(ctx)
}
