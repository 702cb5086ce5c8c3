package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"txboard/internal/cache"
	"txboard/internal/cli"
	apphttp "txboard/internal/http"
	applog "txboard/internal/log"
	"txboard/internal/services"
	"txboard/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := cli.SignalContext(cmd.Context())
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	caches := cache.NewManager(a.logger.WithComponent(applog.ComponentCache).Slog())
	subscribed := a.publisher != nil
	stats, hist, cats := a.viewCaches(caches, subscribed)
	if stats != nil {
		caches.StartCleanup(a.cfg.CacheTTL)
		defer caches.Stop()
	}
	if subscribed {
		stopWorker := startCacheWorker(ctx, worker.NewCacheWorker(a.publisher, caches, a.logger))
		defer stopWorker()
	}

	store := a.store.Store
	srv := apphttp.NewServer(net.JoinHostPort("", a.cfg.Port), apphttp.Deps{
		Seeder:         a.seedService(caches),
		Transactions:   services.NewTransactionQueryService(store).WithMaxPerPage(a.cfg.MaxPerPage),
		Statistics:     services.NewStatisticsService(store, stats, a.metrics),
		Histogram:      services.NewHistogramService(store, hist, a.metrics),
		Breakdown:      services.NewCategoryBreakdownService(store, cats, a.metrics),
		Pinger:         store,
		Metrics:        a.metrics,
		Logger:         a.logger,
		QueryTimeout:   a.cfg.QueryTimeout,
		TrustedProxies: a.cfg.TrustedProxies,
	})

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting txboard server", "port", a.cfg.Port, "backend", a.cfg.DataBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Server shutdown error", "error", err)
		return err
	}
	a.logger.Info("Server stopped gracefully")
	return nil
}

// startCacheWorker runs w until the returned stop function is called or ctx
// ends. stop waits for Run to return.
func startCacheWorker(ctx context.Context, w *worker.CacheWorker) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}
