package mediatypes

import (
	"path/filepath"
	"strings"
)

// Backend names the library that encodes an optimized format.
type Backend string

const (
	BackendVips    Backend = "vips"
	BackendImaging Backend = "imaging"
)

// Source formats the indexer can measure with the standard decoders plus
// golang.org/x/image/webp.
var indexable = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Optimized formats a rendition can be written in. The standard library has
// no webp encoder, so webp needs libvips.
var encoders = map[string]Backend{
	".webp": BackendVips,
	".jpg":  BackendImaging,
	".jpeg": BackendImaging,
	".png":  BackendImaging,
	".gif":  BackendImaging,
}

// IsImage reports whether the indexer accepts name. The extension match is
// case-insensitive.
func IsImage(name string) bool {
	return indexable[strings.ToLower(filepath.Ext(name))]
}

// Encoder returns the backend for an optimized extension such as ".webp".
func Encoder(ext string) (Backend, bool) {
	b, ok := encoders[strings.ToLower(ext)]
	return b, ok
}
