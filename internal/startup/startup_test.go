package startup

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/mux"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
	if info.OS == "" || info.Arch == "" {
		t.Error("Expected OS and Arch to be set")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_SET_VAR", "custom")
	t.Setenv("TEST_EMPTY_VAR", "")

	if got := getEnv("TEST_SET_VAR", "default"); got != "custom" {
		t.Errorf("getEnv(set) = %q, want custom", got)
	}
	if got := getEnv("TEST_EMPTY_VAR", "default"); got != "default" {
		t.Errorf("getEnv(empty) = %q, want default", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		envValue     string
		defaultValue bool
		want         bool
	}{
		{"unset uses default", "", true, true},
		{"true", "true", false, true},
		{"false", "false", true, false},
		{"one", "1", false, true},
		{"zero", "0", true, false},
		{"invalid uses default", "sometimes", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL_VAR", tt.envValue)
			if got := getEnvBool("TEST_BOOL_VAR", tt.defaultValue); got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvDurationAndFloat(t *testing.T) {
	t.Setenv("TEST_DURATION", "45s")
	t.Setenv("TEST_BAD_DURATION", "soon")
	t.Setenv("TEST_FLOAT", "600.5")
	t.Setenv("TEST_BAD_FLOAT", "wide")

	if got := getEnvDuration("TEST_DURATION", time.Minute); got != 45*time.Second {
		t.Errorf("getEnvDuration = %v, want 45s", got)
	}
	if got := getEnvDuration("TEST_BAD_DURATION", time.Minute); got != time.Minute {
		t.Errorf("getEnvDuration(invalid) = %v, want default", got)
	}
	if got := getEnvFloat("TEST_FLOAT", 1); got != 600.5 {
		t.Errorf("getEnvFloat = %v, want 600.5", got)
	}
	if got := getEnvFloat("TEST_BAD_FLOAT", 768); got != 768 {
		t.Errorf("getEnvFloat(invalid) = %v, want default", got)
	}
}

func TestReadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "METRICS_PORT", "METRICS_ENABLED", "CDN_ROOT", "CDN_BASE_PATH",
		"OPTIMIZED_FORMAT", "AUTHOR_OVERRIDES", "INDEX_INTERVAL", "RENDER_ENABLED",
		"TABLET_BREAKPOINT", "DATABASE_DIR", "SOURCE_DIR", "ORIGIN_DIR",
	} {
		t.Setenv(key, "")
	}

	cfg, err := ReadConfig()
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}

	want := &Config{
		Port:             "8080",
		MetricsPort:      "9090",
		MetricsEnabled:   true,
		DatabaseDir:      "/database",
		SourceDir:        "/collections",
		OriginDir:        "/origin",
		CDNRoot:          "https://cdn.mosaic.photography",
		CDNBasePath:      DefaultBasePath,
		OptimizedFormat:  "webp",
		TabletBreakpoint: 768,
		IndexInterval:    30 * time.Minute,
		PollInterval:     30 * time.Second,
		LogHealthChecks:  cfg.LogHealthChecks,
		LogStaticFiles:   cfg.LogStaticFiles,
		DatabasePath:     "/database/catalog.db",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("ReadConfig mismatch (-want +got):\n%s", diff)
	}
}

func TestReadConfigInvalidBreakpoint(t *testing.T) {
	t.Setenv("TABLET_BREAKPOINT", "-5")

	cfg, err := ReadConfig()
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}
	if cfg.TabletBreakpoint != 768 {
		t.Errorf("TabletBreakpoint = %v, want default 768", cfg.TabletBreakpoint)
	}
}

func TestReadConfigOptimizedFormat(t *testing.T) {
	tests := map[string]string{
		"png":  "png",
		".JPG": ".JPG",
		"avif": "webp",
		"heic": "webp",
		"webp": "webp",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			t.Setenv("OPTIMIZED_FORMAT", in)
			cfg, err := ReadConfig()
			if err != nil {
				t.Fatalf("ReadConfig failed: %v", err)
			}
			if cfg.OptimizedFormat != want {
				t.Errorf("OptimizedFormat = %q, want %q", cfg.OptimizedFormat, want)
			}
		})
	}
}

func TestLoadConfigCreatesDatabaseDir(t *testing.T) {
	root := t.TempDir()
	t.Setenv("DATABASE_DIR", filepath.Join(root, "db"))
	t.Setenv("SOURCE_DIR", filepath.Join(root, "collections"))
	t.Setenv("ORIGIN_DIR", filepath.Join(root, "origin"))
	t.Setenv("RENDER_ENABLED", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if _, err := os.Stat(cfg.DatabaseDir); err != nil {
		t.Errorf("database dir not created: %v", err)
	}
	if !cfg.RenderEnabled {
		t.Error("rendering should stay enabled with a writable origin")
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("MOSAIC_TEST_FROM_FILE=file\nMOSAIC_TEST_PRESET=file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MOSAIC_TEST_PRESET", "env")
	t.Setenv("MOSAIC_TEST_FROM_FILE", "")
	os.Unsetenv("MOSAIC_TEST_FROM_FILE")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}
	if got := os.Getenv("MOSAIC_TEST_FROM_FILE"); got != "file" {
		t.Errorf("MOSAIC_TEST_FROM_FILE = %q, want file", got)
	}
	if got := os.Getenv("MOSAIC_TEST_PRESET"); got != "env" {
		t.Errorf("existing variable overridden: %q", got)
	}

	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing file should be ignored, got %v", err)
	}
}

func TestRoutes(t *testing.T) {
	router := mux.NewRouter()
	noop := func(http.ResponseWriter, *http.Request) {}
	router.HandleFunc("/healthz", noop)
	router.HandleFunc("/api/reindex", noop).Methods("POST")
	router.HandleFunc("/api/gallery", noop).Methods("GET").Name("gallery")
	router.HandleFunc("/livez", noop).Methods("GET")
	router.HandleFunc("/livez", noop).Methods("HEAD")

	routes, err := Routes(router)
	if err != nil {
		t.Fatalf("Routes failed: %v", err)
	}

	want := []Route{
		{Path: "/api/gallery", Methods: []string{"GET"}, Name: "gallery"},
		{Path: "/api/reindex", Methods: []string{"POST"}},
		{Path: "/healthz"},
		{Path: "/livez", Methods: []string{"GET", "HEAD"}},
	}
	if diff := cmp.Diff(want, routes); diff != "" {
		t.Errorf("Routes mismatch (-want +got):\n%s", diff)
	}
}

func TestRouteGroup(t *testing.T) {
	tests := map[string]string{
		"/api/gallery":              "api/gallery",
		"/api/layout/detail-header": "api/layout",
		"/healthz":                  "healthz",
		"/":                         "root",
		"/api":                      "api",
	}
	for path, want := range tests {
		if got := routeGroup(path); got != want {
			t.Errorf("routeGroup(%q) = %q, want %q", path, got, want)
		}
	}
}
