package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/vango-dev/lifecycle/internal/config"
	"github.com/vango-dev/lifecycle/internal/demo"
	"github.com/vango-dev/lifecycle/internal/live"
	"github.com/vango-dev/lifecycle/pkg/bundle"
	"github.com/vango-dev/lifecycle/pkg/lifecycle"
	"github.com/vango-dev/lifecycle/pkg/render"
	"github.com/vango-dev/lifecycle/pkg/scheduler"
	"golang.org/x/net/html"
)

func serveCmd(dir *string) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo tree",
		Long: `Serve the demo tree. Every page is server rendered, then a
WebSocket session keeps it live: clicks run on a server-side instance
and the updated markup is sent back.

Routes:
  /         the server rendered page
  /live     the live session WebSocket
  /metrics  Prometheus metrics

Examples:
  vango-lifecycle serve
  vango-lifecycle serve --port=8080 --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*dir)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, logger)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	a := newApp(cfg, logger, reg)
	// Suspensions resolve on their own goroutines; the loop keeps their
	// units, and any panic in them, off those goroutines.
	a.sched.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           a.routes(reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", "http://"+srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	a.live.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// app holds what the HTTP handlers share.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	sched  *scheduler.Scheduler
	live   *live.Server
}

func newApp(cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) *app {
	a := &app{
		cfg:    cfg,
		logger: logger,
		sched:  scheduler.New(scheduler.WithLogger(logger), scheduler.WithMetrics(reg)),
	}
	a.live = live.NewServer(a.mount, live.Options{
		Logger:            logger,
		Registerer:        reg,
		MessagesPerSecond: cfg.Server.MessagesPerSecond,
		Burst:             cfg.Server.Burst,
	})
	return a
}

func (a *app) props() demo.AppProps {
	return demo.AppProps{Title: a.cfg.Name, QuoteDelay: 200 * time.Millisecond}
}

func (a *app) mount(sched *scheduler.Scheduler, root *html.Node) *lifecycle.AnyScope {
	return bundle.Mount(sched, demo.App, root, a.props()).Any()
}

func (a *app) routes(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(a.logRequests)

	r.Get("/", a.handlePage)
	r.Get("/live", a.live.HandleWebSocket)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return r
}

func (a *app) handlePage(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	sr := render.NewStreamingRenderer(w, render.RendererConfig{
		Pretty:     a.cfg.Render.Pretty,
		Hydratable: a.cfg.Render.Hydratable,
	}, a.sched)

	err := sr.RenderPage(req.Context(), render.PageData{
		Title:   a.cfg.Name,
		Body:    demo.App.Node(a.props()),
		LiveURL: "/live",
	})
	if err != nil {
		a.logger.Error("render page", "error", err, "request_id", middleware.GetReqID(req.Context()))
	}
}

func (a *app) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, req)
		a.logger.Debug("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(req.Context()),
		)
	})
}
