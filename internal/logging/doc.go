// Package logging provides the leveled logger used across mosaic-gallery.
//
// Messages are written through the standard library logger with a level
// prefix:
//   - DEBUG: pipeline decisions (tier picks, folder rule hits, merge overrides)
//   - INFO: startup, indexing and rendition progress
//   - WARN: degraded behavior (failed catalog source, bad override file)
//   - ERROR: failures that abort an operation
//   - FATAL: unrecoverable startup errors
//
// The level comes from DEBUG=true or LOG_LEVEL, and can be forced with
// SetLevel (the galleryctl --verbose flag does this).
package logging
