// Package metrics declares the Prometheus metrics exported by mosaic-gallery.
//
// Metrics are registered with promauto at package init and grouped by
// subsystem:
//
//   - HTTP: request counts, latency and in-flight requests (middleware)
//   - Database: query counts and latency, transactions, open connections
//   - Pipeline: tier picks, folder rule hits, merge replacements, failed sources
//   - Indexer: runs, files processed, errors
//   - Renditions: renders per tier and status, render latency per backend
//   - Catalog: image and photographer totals (Collector)
//
// All names carry the mosaic_gallery_ prefix. The metrics server exposes
// them at /metrics through promhttp.
package metrics
