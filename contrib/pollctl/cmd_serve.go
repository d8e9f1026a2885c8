package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/spikeekips/partivotes/api"
	"github.com/spikeekips/partivotes/common"
	"github.com/spikeekips/partivotes/ledger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve the ledger over http",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(globalConfig.Clock.NTPServer) > 0 {
			syncer, err := common.NewTimeSyncer(globalConfig.Clock.NTPServer, globalConfig.Clock.Interval)
			if err != nil {
				return err
			}

			if err := syncer.Start(); err != nil {
				return err
			}
			defer syncer.Stop()

			common.SetTimeSyncer(syncer)
		}

		return withLedger(serve)
	},
}

func serve(l *ledger.Ledger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	metrics, err := ledger.NewMetrics(registry)
	if err != nil {
		return err
	}
	l.SetMetrics(metrics)

	submitter := ledger.NewSubmitter(l, globalConfig.API.QueueSize)
	if err := submitter.Start(); err != nil {
		return err
	}
	defer submitter.Stop()

	app := api.NewApp(l).SetSubmitter(submitter).SetGatherer(registry)
	server := &http.Server{
		Addr:    globalConfig.API.Bind,
		Handler: app.Router(),
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("api started", "bind", globalConfig.API.Bind, "height", l.Height())
		errChan <- server.ListenAndServe()
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)

	select {
	case err := <-errChan:
		if err != http.ErrServerClosed {
			return err
		}

		return nil
	case sig := <-sigc:
		log.Info("signal received; stopping", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), globalConfig.API.ShutdownTimeout)
	defer cancel()

	return server.Shutdown(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
