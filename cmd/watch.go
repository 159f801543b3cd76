package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Norgate-AV/wcc/internal/build"
	"github.com/Norgate-AV/wcc/internal/config"
	"github.com/Norgate-AV/wcc/internal/logfields"
	"github.com/Norgate-AV/wcc/internal/metrics"
	"github.com/Norgate-AV/wcc/internal/watch"
)

const shutdownTimeout = 5 * time.Second

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild on file changes",
		Long: `Build once, then watch the working directory and rebuild whenever a path
matching the watch pattern is added, changed or removed. Bursts of changes are
coalesced and builds never overlap. Stop with Ctrl+C.`,
		RunE:         runWatch,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
	}

	cmd.Flags().Duration("interval", watch.DefaultInterval, "Poll interval for pending changes")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(cmd.ErrOrStderr())

	cfg, err := config.NewLoader(logger).LoadForBuild(cmd, true)
	if err != nil {
		return err
	}

	interval, _ := cmd.Flags().GetDuration("interval")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

	ctx, cancel := setupSignalHandler(cmd.Context())
	defer cancel()

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	registry := prom.NewRegistry()
	if metricsAddr != "" {
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	builder := build.New(cfg,
		build.WithLogger(logger),
		build.WithCommandBuilder(newCommandBuilder(cmd)),
		build.WithRecorder(recorder),
	)

	watcher, err := watch.NewWatcher(".", logger, cfg.BuildDir)
	if err != nil {
		return err
	}
	defer watcher.Close()

	scheduler := watch.NewScheduler(builder, cfg,
		watch.WithInterval(interval),
		watch.WithLogger(logger),
		watch.WithRecorder(recorder),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return watcher.Run(gctx)
	})

	g.Go(func() error {
		defer cancel()
		return scheduler.Run(gctx, watcher.Events())
	})

	if metricsAddr != "" {
		startMetricsServer(gctx, g, metricsAddr, registry, logger)
	}

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("watch stopped")

	return nil
}

func startMetricsServer(ctx context.Context, g *errgroup.Group, addr string, registry *prom.Registry, logger *slog.Logger) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           metrics.HTTPHandler(registry),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		logger.Info("serving metrics", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown", logfields.Error(err))
		}

		return nil
	})
}

func setupSignalHandler(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)

		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
