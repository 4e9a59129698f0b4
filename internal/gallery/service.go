package gallery

import (
	"context"

	"mosaic-gallery/internal/catalog"
	"mosaic-gallery/internal/layout"
	"mosaic-gallery/internal/logging"
	"mosaic-gallery/internal/sizetier"
)

// Store provides the two per-author catalog queries.
type Store interface {
	SafeSource(author string) catalog.Source
	PortraitSource(author string) catalog.Source
}

// Page is one rendered gallery.
type Page struct {
	Author string        `json:"author"`
	Folder string        `json:"folder"`
	Tier   sizetier.Tier `json:"tier"`
	Layout layout.Budget `json:"layout"`
	Items  []Item        `json:"items"`
}

// Service builds gallery pages from a Store.
type Service struct {
	store           Store
	resolver        *Resolver
	tabletThreshold float64
}

// NewService returns a Service. A tabletThreshold that is not positive
// means layout.DefaultTabletThreshold.
func NewService(store Store, resolver *Resolver, tabletThreshold float64) *Service {
	if resolver == nil {
		resolver = NewResolver(nil, nil)
	}
	return &Service{store: store, resolver: resolver, tabletThreshold: tabletThreshold}
}

// Resolver returns the service's resolver.
func (s *Service) Resolver() *Resolver {
	return s.resolver
}

// Gallery fetches and merges author's images and resolves them for vp.
// Failing sources contribute no rows; the page is still returned.
func (s *Service) Gallery(ctx context.Context, author string, vp layout.Metrics, override sizetier.Tier) Page {
	var rows []catalog.Row
	if s.store != nil && author != "" {
		rows = catalog.FetchMerged(ctx, s.store.SafeSource(author), s.store.PortraitSource(author))
	}

	tier := s.resolver.Tier(vp, override)
	page := Page{
		Author: author,
		Folder: s.resolver.Normalizer.Folder(author),
		Tier:   tier,
		Layout: layout.ComputeFor(vp, s.tabletThreshold),
		Items:  s.resolver.ResolveAt(rows, tier),
	}
	logging.Debug("gallery: %q -> %d items at %s", author, len(page.Items), tier)
	return page
}
