// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/salesdesk/internal/api"
	"github.com/starford/salesdesk/internal/crm"
	"github.com/starford/salesdesk/internal/inbox"
	"github.com/starford/salesdesk/internal/mcpserver"
	"github.com/starford/salesdesk/internal/metrics"
	"github.com/starford/salesdesk/internal/sse"
	"github.com/starford/salesdesk/internal/storage"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{logOutput: os.Stdout, version: "dev"}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}

	// Initialize structured JSON logger.
	app.logger = slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
	slog.SetDefault(app.logger)
	return app, nil
}

// openStore opens the configured snapshot provider and loads the store from
// it. The caller closes the returned provider.
func (a *application) openStore(ctx context.Context, extra ...crm.Option) (*crm.Store, storage.Provider, error) {
	cfg := a.config
	provider, err := storage.Open(ctx, cfg.Storage.Options())
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}
	opts := append([]crm.Option{
		crm.WithSnapshotKey(cfg.Storage.Key),
		crm.WithLogger(a.logger),
	}, extra...)
	store, err := crm.Open(ctx, provider, opts...)
	if err != nil {
		provider.Close()
		return nil, nil, fmt.Errorf("init store: %w", err)
	}
	return store, provider, nil
}

// Run starts the HTTP server, SSE broker and optional inbox watcher.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg, logger := app.config, app.logger

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.String("snapshot_key", cfg.Storage.Key),
		slog.Bool("inbox_enabled", cfg.Inbox.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	recorder := metrics.New()
	broker := sse.NewBroker(cfg.Events.Throttle, logger)
	defer broker.Close()

	store, provider, err := app.openStore(ctx,
		crm.WithChangeHook(broker.PublishChange),
		crm.WithChangeHook(recorder.ObserveChange),
		crm.WithSnapshotHook(recorder.ObserveSnapshot),
	)
	if err != nil {
		return err
	}
	defer provider.Close()

	apiRouter := api.NewRouter(api.NewHandler(store, cfg.Catalog.ProductsPerPage), broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(api.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := store.Snapshot(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", recorder.Handler())
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Inbox.Enabled {
		g.Go(func() error {
			return inbox.Watch(gCtx, store, cfg.Inbox.Path, logger, nil)
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		// Unblocks the inbox watcher when shutdown came from a signal.
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

var errShutdown = errors.New("shutdown")

// ServeMCP serves the MCP tools on stdin/stdout until the client disconnects.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	store, provider, err := app.openStore(ctx)
	if err != nil {
		return err
	}
	defer provider.Close()

	app.logger.Info("MCP server starting on stdio")
	return mcpserver.New(store, app.version).ServeStdio()
}

// Import merges one CSV file of the given kind ("clients" or "products")
// and writes the result as JSON to out.
func Import(ctx context.Context, kind, path string, out io.Writer, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	store, provider, err := app.openStore(ctx)
	if err != nil {
		return err
	}
	defer provider.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var res crm.ImportResult
	switch kind {
	case inbox.KindClients:
		res, err = store.MergeClients(ctx, string(data))
	case inbox.KindProducts:
		res, err = store.MergeProducts(ctx, string(data))
	default:
		return fmt.Errorf("unknown import kind %q (want clients or products)", kind)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "{\"kind\":%q,\"merged\":%d,\"dropped\":%d}\n", kind, res.Merged, res.Dropped)
	return err
}

// DumpSnapshot writes the current snapshot to out.
func DumpSnapshot(ctx context.Context, out io.Writer, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	store, provider, err := app.openStore(ctx)
	if err != nil {
		return err
	}
	defer provider.Close()

	data, err := store.Snapshot()
	if err != nil {
		return err
	}
	_, err = out.Write(append(data, '\n'))
	return err
}
