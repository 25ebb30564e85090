package cli

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/dtroode/levelkeeper/internal/api/http/router"
	httpserver "github.com/dtroode/levelkeeper/internal/api/http/server"
	"github.com/dtroode/levelkeeper/internal/metrics"
	"github.com/dtroode/levelkeeper/internal/model"
	"github.com/dtroode/levelkeeper/internal/server"
	"github.com/dtroode/levelkeeper/internal/service"
	"github.com/dtroode/levelkeeper/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the batch on UPGRADE_SCHEDULE and serve /healthz and /metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.close()

			archive, err := a.reportArchive(ctx)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			membership := a.membership(st, service.WithObserver(metrics.New(reg)))
			sched, err := worker.NewScheduler(membership, archive, a.cfg.Upgrade.Schedule, a.logger)
			if err != nil {
				return err
			}

			srv := httpserver.NewHTTPServer(router.New(st.ping, reg, a.logger).Register(), a.cfg.HTTP.Address)

			var sl model.SecurityLayer
			if a.cfg.HTTP.EnableHTTPS {
				sl = server.NewTLSListener(a.cfg.HTTP.CertFileName, a.cfg.HTTP.PrivateKeyFileName)
			} else {
				sl = server.NewPlainListener()
			}

			var wg sync.WaitGroup
			wg.Add(2)
			go func(s model.Server) {
				defer wg.Done()
				a.logger.Info("Starting server on", "address", s.Address())
				if err := s.Start(sl); err != nil {
					a.logger.Error("failed to start server", "error", err)
				}
			}(srv)
			go func() {
				defer wg.Done()
				if err := sched.Start(ctx); err != nil {
					a.logger.Error("failed to start scheduler", "error", err)
				}
			}()

			<-ctx.Done()
			a.logger.Info("received interruption signal, shutting down")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()

			if err := srv.Stop(shutdownCtx); err != nil {
				a.logger.Error("error during server shutdown", "error", err, "address", srv.Address())
			}

			wg.Wait()
			a.logger.Info("shutdown complete")
			return nil
		},
	}
}
