package handlers

import (
	"context"

	"mosaic-gallery/internal/database"
	"mosaic-gallery/internal/gallery"
	"mosaic-gallery/internal/indexer"
)

// Catalog is the read side of the catalog store.
type Catalog interface {
	gallery.Store
	ListAuthors(ctx context.Context) ([]database.AuthorSummary, error)
	GetImage(ctx context.Context, id int64) (*database.Image, error)
	GetStats() database.IndexStats
}

// IndexController exposes indexer state and manual triggering.
type IndexController interface {
	GetHealthStatus() indexer.HealthStatus
	IsReady() bool
	TriggerIndex() bool
}

type Handlers struct {
	catalog         Catalog
	indexer         IndexController
	gallery         *gallery.Service
	tabletThreshold float64
}

func New(catalog Catalog, idx IndexController, svc *gallery.Service, tabletThreshold float64) *Handlers {
	return &Handlers{
		catalog:         catalog,
		indexer:         idx,
		gallery:         svc,
		tabletThreshold: tabletThreshold,
	}
}
