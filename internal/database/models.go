package database

import (
	"errors"
	"time"

	"mosaic-gallery/internal/catalog"
)

// ErrNotFound is returned when a lookup matches no image.
var ErrNotFound = errors.New("image not found")

// Image is a stored catalog row plus the fields only the store and the
// indexer care about.
type Image struct {
	catalog.Row
	AlwaysShow bool      `json:"alwaysShow"`
	IndexedAt  time.Time `json:"indexedAt"`
}

// AuthorSummary is one photographer with image counts.
type AuthorSummary struct {
	Name       string `json:"name"`
	Images     int    `json:"images"`
	SafeImages int    `json:"safeImages"`
}

type IndexStats struct {
	TotalImages       int       `json:"totalImages"`
	TotalAuthors      int       `json:"totalAuthors"`
	SensitiveImages   int       `json:"sensitiveImages"`
	AlwaysShownImages int       `json:"alwaysShownImages"`
	LastIndexed       time.Time `json:"lastIndexed"`
	IndexDuration     string    `json:"indexDuration"`
}
