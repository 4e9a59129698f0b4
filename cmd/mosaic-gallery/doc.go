// Package main runs the mosaic gallery server.
//
// The server indexes a tree of public-domain photographs organized as
// SOURCE_DIR/<Author Name>/<image>, stores the catalog in SQLite and serves
// galleries whose image URLs are resolved for the caller's viewport.
//
// # Application Lifecycle
//
//  1. Environment: an optional .env file (ENV_FILE) is loaded without
//     overriding variables already set
//  2. Configuration: environment variables are read and directories checked
//  3. Database: the SQLite catalog is opened in WAL mode
//  4. Identity: the curated author table is combined with the optional
//     AUTHOR_OVERRIDES file, which is reloaded when it changes
//  5. Indexer: the source tree is indexed at start, on INDEX_INTERVAL and on
//     POST /api/reindex; with RENDER_ENABLED every tier is rendered into
//     ORIGIN_DIR after each run
//  6. HTTP: the API server and the optional metrics server start
//  7. Shutdown: SIGINT and SIGTERM stop every component in turn
//
// # HTTP Server
//
// The main server (PORT, default 8080) serves:
//
//   - GET /api/photographers
//   - GET /api/gallery?author=&vw=&vh=&dpr=&tier=
//   - GET /api/images/{id}?vw=&dpr=&tier=
//   - GET /api/layout and /api/layout/detail-header
//   - GET /api/folder?author=
//   - GET /api/stats and POST /api/reindex
//   - /health, /healthz, /livez, /readyz and /version
//
// The metrics server (METRICS_PORT, default 9090) serves /metrics.
//
// See [mosaic-gallery/internal/startup] for the full list of environment
// variables.
package main
