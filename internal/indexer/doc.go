// Package indexer keeps the catalog in sync with the collections tree.
//
// The source directory holds one directory per photographer, named with the
// photographer's display name, containing that photographer's images:
//
//	/collections/
//	  Edward Weston/
//	    catalog.yaml
//	    pepper-no-30.jpg
//	  Dorothea Lange/
//	    migrant-mother.jpg
//
// Each image becomes one catalog row with its pixel dimensions and
// orientation. An optional catalog.yaml sidecar in the photographer's
// directory supplies titles, descriptions, years and the nudity and
// always_show flags per filename.
//
// The indexer runs:
//   - Initial index: full scan on application startup
//   - Periodic index: configurable interval-based re-indexing
//   - Change polling: cheap directory modification checks between runs
//   - Manual trigger: on-demand re-indexing via API
//
// Rows whose files disappeared are removed at the end of each run. Hidden
// files and directories (prefixed with '.') are ignored.
package indexer
