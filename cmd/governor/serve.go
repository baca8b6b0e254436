package governor

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const syncInterval = 15 * time.Second

func buildServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve Prometheus metrics for the governor state until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return withApp(ctx, opts, func(a *app) error {
				if a.cfg.Metrics.ListenAddress == "" {
					return errors.New("metrics.listenAddress is not set")
				}

				return serveMetrics(ctx, a)
			})
		},
	}
}

func serveMetrics(ctx context.Context, a *app) error {
	logger := a.logger.Sugar()
	a.registry.MustRegister(collectors.NewGoCollector())

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              a.cfg.Metrics.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 60 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logger.Infof("serving prometheus metrics on %s", a.cfg.Metrics.ListenAddress)

	ticker := time.NewTicker(syncInterval)
	defer ticker.Stop()

	for {
		if err := a.gov.SyncMetrics(ctx); err != nil && ctx.Err() == nil {
			logger.Warnf("failed to sync metrics: %v", err)
		}

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			return srv.Shutdown(shutdownCtx)
		case <-ticker.C:
		}
	}
}
