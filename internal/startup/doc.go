// Package startup handles configuration loading and startup/shutdown
// logging.
//
// # Configuration
//
// All configuration is read from environment variables by [LoadConfig].
// [LoadDotEnv] can preload a .env file first; variables already present in
// the environment win.
//
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable the metrics server (default: true)
//   - DATABASE_DIR: Directory holding catalog.db (default: /database)
//   - SOURCE_DIR: Photographer directories with the original images (default: /collections)
//   - ORIGIN_DIR: Rendition output tree served by the CDN (default: /origin)
//   - CDN_ROOT: URL root for composed asset URLs (default: https://cdn.mosaic.photography)
//   - CDN_BASE_PATH: Base path stamped on indexed rows (default: mosaic-collections/public-domain-collection)
//   - OPTIMIZED_FORMAT: Extension of resized renditions (default: webp)
//   - TABLET_BREAKPOINT: Device width in dp where the tablet layout starts (default: 768)
//   - AUTHOR_OVERRIDES: Optional YAML file of author to folder overrides, hot-reloaded
//   - INDEX_INTERVAL: Full re-index interval as Go duration (default: 30m)
//   - RENDER_ENABLED: Render renditions after every index run (default: false)
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_STATIC_FILES: Log /metrics and other non-API requests (default: false)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//
// # Directory Setup
//
// The database directory is required and must be writable. The source
// directory only produces a warning when missing, since the server can
// serve an existing catalog without it. The origin directory is only
// needed when rendering is enabled; if it is not writable rendering is
// disabled.
package startup
