package startup

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"mosaic-gallery/internal/logging"

	"github.com/gorilla/mux"
)

// Route is one registered path with every method it answers.
type Route struct {
	Path    string
	Methods []string
	Name    string
}

func section(title string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("%s", title)
	logging.Info("------------------------------------------------------------")
}

// LogDatabaseInit logs database initialization
func LogDatabaseInit(duration time.Duration) {
	section("DATABASE INITIALIZATION")
	logging.Info("  [OK] Database initialized in %v", duration)
}

// LogIdentityInit logs the author rule chain.
func LogIdentityInit(rules []string, overridesPath string) {
	section("IDENTITY NORMALIZER")
	logging.Info("  Rule chain: %s", strings.Join(rules, " -> "))
	if overridesPath != "" {
		logging.Info("  Watching overrides: %s", overridesPath)
	}
}

// LogRenditionInit logs rendition backend availability.
func LogRenditionInit(enabled, vipsAvailable bool, format string) {
	section("RENDITIONS")
	if !enabled {
		logging.Info("  Rendering disabled (set RENDER_ENABLED=true to enable)")
		return
	}
	logging.Info("  Optimized format: %s", format)
	if vipsAvailable {
		logging.Info("  [OK] libvips available")
	} else {
		logging.Warn("  libvips unavailable; webp renditions will fail")
	}
}

// LogIndexerInit logs indexer initialization
func LogIndexerInit(interval time.Duration) {
	section("INDEXER INITIALIZATION")
	logging.Info("  Index interval: %v", interval)
	logging.Info("  Starting indexer...")
}

// LogIndexerStarted logs successful indexer start
func LogIndexerStarted() {
	logging.Info("  [OK] Indexer started")
}

// Routes lists the router's paths sorted by path. Routes without a method
// matcher have no Methods.
func Routes(router *mux.Router) ([]Route, error) {
	byPath := make(map[string]*Route)
	var order []string

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		tpl, err := route.GetPathTemplate()
		if err != nil {
			return err
		}
		methods, _ := route.GetMethods()

		r, ok := byPath[tpl]
		if !ok {
			r = &Route{Path: tpl}
			byPath[tpl] = r
			order = append(order, tpl)
		}
		r.Methods = append(r.Methods, methods...)
		if r.Name == "" {
			r.Name = route.GetName()
		}
		return nil
	})

	sort.Strings(order)
	routes := make([]Route, len(order))
	for i, path := range order {
		routes[i] = *byPath[path]
	}
	return routes, err
}

// LogHTTPRoutes lists routes at debug level under their group and reports
// which request classes reach the access log.
func LogHTTPRoutes(router *mux.Router, logStaticFiles, logHealthChecks bool) {
	section("HTTP SERVER SETUP")

	if logging.IsDebugEnabled() {
		routes, err := Routes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}
		logging.Debug("  Registered routes (%d paths):", len(routes))

		group := "\x00"
		for _, r := range routes {
			if g := routeGroup(r.Path); g != group {
				group = g
				logging.Debug("  [%s]", g)
			}
			methods := "ANY"
			if len(r.Methods) > 0 {
				methods = strings.Join(r.Methods, ",")
			}
			logging.Debug("    %-9s %s", methods, r.Path)
		}
	}

	logging.Info("  Access log: static files %s, health checks %s", onOff(logStaticFiles), onOff(logHealthChecks))
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

// routeGroup names the group a path is listed under: "api/<resource>" for
// API routes, the first segment otherwise, "root" for "/".
func routeGroup(path string) string {
	first, rest, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	switch {
	case first == "":
		return "root"
	case first == "api" && rest != "":
		resource, _, _ := strings.Cut(rest, "/")
		return "api/" + resource
	}
	return first
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	section("SERVER STARTED")
	logging.Info("  Ready in %v", config.StartupDuration)
	logging.Info("  Gallery API:  http://0.0.0.0:%s/api/gallery?author=...", config.Port)
	if config.MetricsEnabled {
		logging.Info("  Metrics:      http://0.0.0.0:%s/metrics", config.MetricsPort)
	}
	logging.Info("------------------------------------------------------------")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	section(fmt.Sprintf("SHUTDOWN INITIATED (received %s)", signal))
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits.
func LogFatal(format string, args ...any) {
	logging.Fatal(format, args...)
}
