// Package database provides the SQLite catalog store for mosaic-gallery.
//
// It holds one row per indexed image: the photographer, the filename, the
// CDN base path, pixel dimensions, orientation, descriptive metadata and the
// two visibility flags (nudity and always_show). The two gallery queries,
// SafeImages and AlwaysShownPortraits, are exposed as catalog.Source values
// so the gallery pipeline can fetch them concurrently and merge them by ID.
//
// The database uses WAL mode for concurrent reads while the indexer writes
// in batches.
package database
