package startup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"mosaic-gallery/internal/cdnurl"
	"mosaic-gallery/internal/layout"
	"mosaic-gallery/internal/logging"
	"mosaic-gallery/internal/mediatypes"

	"github.com/joho/godotenv"
)

// DefaultBasePath is the collection path on the CDN.
const DefaultBasePath = "mosaic-collections/public-domain-collection"

// Config holds all application configuration
type Config struct {
	Port             string
	MetricsPort      string
	MetricsEnabled   bool
	DatabaseDir      string
	SourceDir        string
	OriginDir        string
	CDNRoot          string
	CDNBasePath      string
	OptimizedFormat  string
	TabletBreakpoint float64
	AuthorOverrides  string
	IndexInterval    time.Duration
	PollInterval     time.Duration
	RenderEnabled    bool
	LogStaticFiles   bool
	LogHealthChecks  bool

	// Derived
	DatabasePath string
}

// LoadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	logging.Debug("Loaded environment from %s", path)
	return nil
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	cfg, err := ReadConfig()
	if err != nil {
		return nil, err
	}

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  PORT:              %s", cfg.Port)
	logging.Info("  METRICS_PORT:      %s", cfg.MetricsPort)
	logging.Info("  METRICS_ENABLED:   %v", cfg.MetricsEnabled)
	logging.Info("  DATABASE_DIR:      %s", cfg.DatabaseDir)
	logging.Info("  SOURCE_DIR:        %s", cfg.SourceDir)
	logging.Info("  ORIGIN_DIR:        %s", cfg.OriginDir)
	logging.Info("  CDN_ROOT:          %s", cfg.CDNRoot)
	logging.Info("  CDN_BASE_PATH:     %s", cfg.CDNBasePath)
	logging.Info("  OPTIMIZED_FORMAT:  %s", cfg.OptimizedFormat)
	logging.Info("  TABLET_BREAKPOINT: %v", cfg.TabletBreakpoint)
	logging.Info("  AUTHOR_OVERRIDES:  %s", valueOrNone(cfg.AuthorOverrides))
	logging.Info("  INDEX_INTERVAL:    %v", cfg.IndexInterval)
	logging.Info("  POLL_INTERVAL:     %v", cfg.PollInterval)
	logging.Info("  RENDER_ENABLED:    %v", cfg.RenderEnabled)
	logging.Info("  LOG_STATIC_FILES:  %v", cfg.LogStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS: %v", cfg.LogHealthChecks)
	logging.Info("  LOG_LEVEL:         %s", logging.GetLevel())

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	if err := ensureDirectory(cfg.DatabaseDir, "database"); err != nil {
		return nil, fmt.Errorf("database directory error: %w", err)
	}
	if err := testWriteAccess(cfg.DatabaseDir); err != nil {
		return nil, fmt.Errorf("database directory is not writable (required for database): %w", err)
	}
	logging.Info("  [OK] Database directory is writable")

	if info, err := os.Stat(cfg.SourceDir); err != nil || !info.IsDir() {
		logging.Warn("  Source directory %s is not readable; the indexer will fail until it exists", cfg.SourceDir)
	} else {
		logging.Info("  [OK] Source directory exists")
	}

	if cfg.RenderEnabled {
		cfg.RenderEnabled = setupOptionalDir(cfg.OriginDir, "origin")
	}

	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Database:    ENABLED (required)")
	logging.Info("    Renditions:  %s", enabledString(cfg.RenderEnabled))
	logging.Info("    Overrides:   %s", enabledString(cfg.AuthorOverrides != ""))
	logging.Info("    Metrics:     %s", enabledString(cfg.MetricsEnabled))

	return cfg, nil
}

// ReadConfig reads the environment and resolves paths without touching the
// filesystem or logging the startup banner.
func ReadConfig() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		MetricsPort:     getEnv("METRICS_PORT", "9090"),
		MetricsEnabled:  getEnvBool("METRICS_ENABLED", true),
		CDNRoot:         getEnv("CDN_ROOT", cdnurl.DefaultRoot),
		CDNBasePath:     getEnv("CDN_BASE_PATH", DefaultBasePath),
		OptimizedFormat: getEnv("OPTIMIZED_FORMAT", "webp"),
		AuthorOverrides: getEnv("AUTHOR_OVERRIDES", ""),
		IndexInterval:   getEnvDuration("INDEX_INTERVAL", 30*time.Minute),
		PollInterval:    getEnvDuration("POLL_INTERVAL", 30*time.Second),
		RenderEnabled:   getEnvBool("RENDER_ENABLED", false),
		LogStaticFiles:  getEnvBool("LOG_STATIC_FILES", false),
		LogHealthChecks: getEnvBool("LOG_HEALTH_CHECKS", true),
	}

	if _, ok := mediatypes.Encoder(cdnurl.NormalizeExtension(cfg.OptimizedFormat)); !ok {
		logging.Warn("  OPTIMIZED_FORMAT %q cannot be rendered, using webp", cfg.OptimizedFormat)
		cfg.OptimizedFormat = "webp"
	}

	cfg.TabletBreakpoint = getEnvFloat("TABLET_BREAKPOINT", layout.DefaultTabletThreshold)
	if cfg.TabletBreakpoint <= 0 {
		logging.Warn("  Invalid TABLET_BREAKPOINT, using default: %v", layout.DefaultTabletThreshold)
		cfg.TabletBreakpoint = layout.DefaultTabletThreshold
	}

	var err error
	for _, dir := range []struct {
		dst      *string
		key, def string
	}{
		{&cfg.DatabaseDir, "DATABASE_DIR", "/database"},
		{&cfg.SourceDir, "SOURCE_DIR", "/collections"},
		{&cfg.OriginDir, "ORIGIN_DIR", "/origin"},
	} {
		*dir.dst, err = filepath.Abs(getEnv(dir.key, dir.def))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", dir.key, err)
		}
	}

	cfg.DatabasePath = filepath.Join(cfg.DatabaseDir, "catalog.db")
	return cfg, nil
}

func setupOptionalDir(path, name string) bool {
	logging.Debug("  Setting up %s directory: %s", name, path)

	if err := os.MkdirAll(path, 0o755); err != nil {
		logging.Warn("    Failed to create %s directory: %v", name, err)
		logging.Warn("    %s will be disabled", name)
		return false
	}
	if err := testWriteAccess(path); err != nil {
		logging.Warn("    %s directory is not writable: %v", name, err)
		logging.Warn("    %s will be disabled", name)
		return false
	}

	logging.Info("  [OK] %s directory is writable", name)
	return true
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
	}
	return nil
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

func valueOrNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logging.Warn("Invalid duration for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logging.Warn("Invalid number for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
