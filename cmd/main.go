package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okian/folio/internal/adapters/fetch"
	"github.com/okian/folio/internal/adapters/http/api"
	"github.com/okian/folio/internal/adapters/http/site"
	"github.com/okian/folio/internal/adapters/http/swagger"
	service "github.com/okian/folio/internal/app"
	"github.com/okian/folio/internal/config"
	"github.com/okian/folio/internal/domain/page"
	"github.com/okian/folio/pkg/logger"
	"github.com/okian/folio/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 30 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if cfg.LogFormat != "text" {
		if err := logger.InitWithWriter(os.Stdout, cfg.LogFormat); err != nil {
			os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
			os.Exit(1)
		}
	}
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	defer func() { _ = logger.Sync() }()

	metrics.Init(metrics.WithNamespace(cfg.MetricsNamespace))

	handler, renderer, err := newHandler(cfg)
	if err != nil {
		log.Error(ctx, "failed to build handler", logger.Error(err))
		os.Exit(1)
	}

	go startSystemMetricsUpdater(ctx)

	// Warm /status so the first scrape has something to show.
	go func() {
		warmCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
		defer cancel()
		renderer.LoadAll(warmCtx, sourcesFrom(cfg), page.New())
	}()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("origin", renderer.Origin()),
			logger.Bool("strict", renderer.Strict()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}

	log.Info(shutdownCtx, "server stopped")
}

// newHandler builds the renderer and the full route tree from cfg.
func newHandler(cfg *config.Config) (http.Handler, *service.Renderer, error) {
	var (
		fetcher  fetch.Fetcher
		siteOpts = []site.Option{site.WithTitle(cfg.SiteTitle)}
	)
	switch {
	case cfg.DataBaseURL != "":
		f, err := fetch.NewHTTPFetcher(cfg.DataBaseURL, fetch.WithTimeout(cfg.FetchTimeout))
		if err != nil {
			return nil, nil, err
		}
		fetcher = f
	case cfg.DataDir != "":
		fetcher = fetch.NewDirFetcher(cfg.DataDir)
		siteOpts = append(siteOpts, site.WithDataFS(os.DirFS(cfg.DataDir)))
	default:
		fetcher = fetch.NewFSFetcher(site.FS(), "embedded")
	}

	renderer := service.New(fetcher,
		service.WithLogger(logger.Named("renderer")),
		service.WithStrict(cfg.StrictSchema),
		service.WithReplace(cfg.ReplaceOnRender),
	)
	sources := sourcesFrom(cfg)

	web, err := site.New(renderer, sources, siteOpts...)
	if err != nil {
		return nil, nil, err
	}
	apiServer := api.NewServer(renderer, sources, logger.Named("api"))

	r := chi.NewRouter()
	r.Use(apiServer.Middlewares()...)
	apiServer.Register(r)
	swagger.Register(r)
	web.Register(r)

	return r, renderer, nil
}

func sourcesFrom(cfg *config.Config) service.Sources {
	return service.Sources{
		Experience: cfg.ExperiencePath,
		Skills:     cfg.SkillsPath,
		Projects:   cfg.ProjectsPath,
		Education:  cfg.EducationPath,
	}
}

// startSystemMetricsUpdater refreshes system gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystem(m.Alloc, runtime.NumGoroutine())
}
