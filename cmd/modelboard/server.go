package main

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelboard/modelboard/catalog"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogecho "github.com/samber/slog-echo"
)

//go:embed static/*
var StaticFS embed.FS

type Server struct {
	echo       *echo.Echo
	httpd      *http.Server
	logger     *slog.Logger
	fetcher    *catalog.Fetcher
	defaults   *catalog.DefaultsStore
	adminToken string

	staticFS fs.FS
	assets   http.Handler
}

type Config struct {
	Logger        *slog.Logger
	UpstreamURL   string
	Bind          string
	CacheTTL      time.Duration
	AdminToken    string
	DefaultModels string
	Debug         bool

	// PromRegistry overrides the default prometheus registerer; tests pass
	// a fresh registry so repeated server construction does not collide.
	PromRegistry prometheus.Registerer
}

func NewServer(config Config) (*Server, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	client := catalog.NewClient(config.UpstreamURL)
	fetcher := catalog.NewFetcher(client, config.CacheTTL, logger)
	defaults := catalog.NewDefaultsStore(catalog.ParseDefaultModels(config.DefaultModels))

	e := echo.New()

	// httpd
	var (
		httpTimeout        = 1 * time.Minute
		httpMaxHeaderBytes = 1 * (1024 * 1024)
	)

	srv := &Server{
		echo:       e,
		logger:     logger,
		fetcher:    fetcher,
		defaults:   defaults,
		adminToken: config.AdminToken,
	}
	srv.httpd = &http.Server{
		Handler:        srv,
		Addr:           config.Bind,
		WriteTimeout:   httpTimeout,
		ReadTimeout:    httpTimeout,
		MaxHeaderBytes: httpMaxHeaderBytes,
	}

	if config.Debug {
		srv.staticFS = os.DirFS("cmd/modelboard/static")
	} else {
		fsys, err := fs.Sub(StaticFS, "static")
		if err != nil {
			return nil, err
		}
		srv.staticFS = fsys
	}
	srv.assets = http.FileServer(http.FS(srv.staticFS))

	e.HideBanner = true
	e.Use(slogecho.New(logger))
	e.Use(middleware.Recover())
	reg := config.PromRegistry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "modelboard",
		Registerer: reg,
	}))
	e.Use(middleware.BodyLimit("1M"))
	e.HTTPErrorHandler = srv.errorHandler
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		HSTSMaxAge:         31536000, // 365 days
	}))

	e.GET("/_health", srv.HandleHealthCheck)

	e.GET("/api/models", srv.handleGetModels)
	e.GET("/api/defaults", srv.handleGetDefaults)

	admin := e.Group("/api/admin", srv.checkAdminAuth)
	admin.PUT("/defaults", srv.handleReplaceDefaults)

	// static dashboard; versioned asset paths get long-lived caching, every
	// other unmatched GET falls back to the SPA index document
	e.GET("/assets/*", srv.handleAsset)
	e.GET("/robots.txt", echo.WrapHandler(srv.assets))
	e.GET("/favicon.ico", echo.WrapHandler(srv.assets))
	e.GET("/", srv.handleIndex)
	e.RouteNotFound("/*", srv.handleFallback)

	return srv, nil
}

func (srv *Server) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	srv.echo.ServeHTTP(rw, req)
}

func (srv *Server) RunAPI() error {
	slog.Info("starting server", "bind", srv.httpd.Addr)
	go func() {
		if err := srv.httpd.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				slog.Error("HTTP server shutting down unexpectedly", "err", err)
			}
		}
	}()

	// Wait for a signal to exit.
	slog.Info("registering OS exit signal handler")
	quit := make(chan struct{})
	exitSignals := make(chan os.Signal, 1)
	signal.Notify(exitSignals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-exitSignals
		slog.Info("received OS exit signal", "signal", sig)

		// Shut down the HTTP server
		if err := srv.Shutdown(); err != nil {
			slog.Error("HTTP server shutdown error", "err", err)
		}

		// Trigger the return that causes an exit.
		close(quit)
	}()
	<-quit
	slog.Info("graceful shutdown complete")
	return nil
}

func (srv *Server) RunMetrics(listen string) error {
	http.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(listen, nil)
}

func (srv *Server) Shutdown() error {
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.httpd.Shutdown(ctx)
}
