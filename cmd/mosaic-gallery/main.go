package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"mosaic-gallery/internal/catalog"
	"mosaic-gallery/internal/cdnurl"
	"mosaic-gallery/internal/database"
	"mosaic-gallery/internal/filesystem"
	"mosaic-gallery/internal/gallery"
	"mosaic-gallery/internal/handlers"
	"mosaic-gallery/internal/identity"
	"mosaic-gallery/internal/indexer"
	"mosaic-gallery/internal/logging"
	"mosaic-gallery/internal/media"
	"mosaic-gallery/internal/memory"
	"mosaic-gallery/internal/metrics"
	"mosaic-gallery/internal/middleware"
	"mosaic-gallery/internal/sizetier"
	"mosaic-gallery/internal/startup"

	"github.com/gorilla/mux"
)

func main() {
	startTime := time.Now()

	if err := startup.LoadDotEnv(getEnvDefault("ENV_FILE", ".env")); err != nil {
		logging.Warn("%v", err)
	}
	memory.ConfigureFromEnv()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
		"source":   config.SourceDir,
		"origin":   config.OriginDir,
		"database": config.DatabaseDir,
	}))

	metrics.SetAppInfo(startup.Version, startup.Commit, runtime.Version())
	metrics.InitializeMetrics(tierNames())

	// Database
	dbStart := time.Now()
	db, err := database.New(ctx, config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to initialize database: %v", err)
	}
	startup.LogDatabaseInit(time.Since(dbStart))

	// Identity
	normalizer := identity.NewDefault()
	if config.AuthorOverrides != "" {
		if err := identity.LoadOverridesInto(normalizer, config.AuthorOverrides); err != nil {
			logging.Warn("Author overrides not loaded: %v", err)
		}
		if err := identity.Watch(ctx, normalizer, config.AuthorOverrides); err != nil {
			logging.Warn("Author overrides will not be reloaded: %v", err)
		}
	}
	startup.LogIdentityInit(normalizer.RuleNames(), config.AuthorOverrides)

	composer := cdnurl.New(config.CDNRoot, config.OptimizedFormat)
	service := gallery.NewService(db, gallery.NewResolver(composer, normalizer), config.TabletBreakpoint)

	// Renditions
	if config.RenderEnabled {
		if err := media.InitVips(); err != nil {
			logging.Warn("libvips initialization failed: %v", err)
		}
	}
	startup.LogRenditionInit(config.RenderEnabled, media.IsVipsAvailable(), composer.OptimizedExtension())

	// Indexer
	startup.LogIndexerInit(config.IndexInterval)
	idx := indexer.New(db, config.SourceDir, config.CDNBasePath, config.IndexInterval)
	idx.SetPollInterval(config.PollInterval)
	var memMonitor *memory.Monitor
	if config.RenderEnabled {
		memMonitor = memory.NewMonitor(memory.DefaultConfig())
		memMonitor.Start()
		renditioner := media.NewRenditioner(config.SourceDir, config.OriginDir, composer, normalizer)
		renditioner.SetGate(memMonitor)
		hook := newRenderHook(ctx, db, renditioner)
		idx.SetOnIndexComplete(hook.Run)
	}

	go func() {
		if err := idx.Start(); err != nil {
			logging.Error("Failed to start indexer: %v", err)
		}
	}()
	startup.LogIndexerStarted()

	h := handlers.New(db, idx, service, config.TabletBreakpoint)

	// Metrics
	var collector *metrics.Collector
	var metricsSrv *http.Server
	if config.MetricsEnabled {
		collector = metrics.NewCollector(db, time.Minute)
		collector.Start()
		metricsSrv = newMetricsServer(config.MetricsPort, h.MetricsHandler())
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// HTTP
	router := setupRouter(h)
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           buildHandler(router, config),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		handleShutdown(srv, metricsSrv, collector, idx, memMonitor, db, cancel)
		close(done)
	}()

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		startup.LogFatal("Server error: %v", err)
	}
	<-done
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func tierNames() []string {
	names := make([]string, len(sizetier.All))
	for i, t := range sizetier.All {
		names[i] = t.String()
	}
	return names
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))
	h.RegisterRoutes(r)
	return r
}

// buildHandler wraps the router with access logging and compression.
func buildHandler(router http.Handler, config *startup.Config) http.Handler {
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	logged := middleware.Logger(loggingConfig)(router)

	return middleware.Compression(middleware.DefaultCompressionConfig())(logged)
}

func newMetricsServer(port string, metricsHandler http.Handler) *http.Server {
	sm := http.NewServeMux()
	sm.Handle("/metrics", metricsHandler)
	sm.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return &http.Server{
		Addr:              ":" + port,
		Handler:           sm,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// imageLister is the part of the database the render hook needs.
type imageLister interface {
	AllImages(ctx context.Context) ([]database.Image, error)
}

type renderer interface {
	RenderAll(ctx context.Context, rows []catalog.Row) (media.Summary, error)
}

// renderHook renders the catalog after each index run. Runs that arrive
// while a render is in progress are dropped.
type renderHook struct {
	ctx      context.Context
	images   imageLister
	renderer renderer
	mu       sync.Mutex
}

func newRenderHook(ctx context.Context, images imageLister, r renderer) *renderHook {
	return &renderHook{ctx: ctx, images: images, renderer: r}
}

func (h *renderHook) Run() {
	if !h.mu.TryLock() {
		logging.Debug("Render already in progress, skipping")
		return
	}
	defer h.mu.Unlock()

	images, err := h.images.AllImages(h.ctx)
	if err != nil {
		logging.Error("Render: failed to list images: %v", err)
		return
	}

	rows := make([]catalog.Row, len(images))
	for i, img := range images {
		rows[i] = img.Row
	}
	if _, err := h.renderer.RenderAll(h.ctx, rows); err != nil {
		logging.Warn("Render interrupted: %v", err)
	}
}

func handleShutdown(srv, metricsSrv *http.Server, collector *metrics.Collector, idx *indexer.Indexer, memMonitor *memory.Monitor, db *database.Database, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, timeout := context.WithTimeout(context.Background(), 30*time.Second)
	defer timeout()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if collector != nil {
		collector.Stop()
		startup.LogShutdownStepComplete("Metrics collector stopped")
	}

	startup.LogShutdownStep("Stopping indexer")
	idx.Stop()
	if memMonitor != nil {
		memMonitor.Stop()
	}
	cancel()
	startup.LogShutdownStepComplete("Indexer stopped")

	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Closing database")
	if err := db.Close(); err != nil {
		logging.Warn("Database close error: %v", err)
	} else {
		startup.LogShutdownStepComplete("Database closed")
	}

	media.ShutdownVips()
	startup.LogShutdownComplete()
}
