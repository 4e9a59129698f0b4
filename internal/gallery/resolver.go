package gallery

import (
	"mosaic-gallery/internal/catalog"
	"mosaic-gallery/internal/cdnurl"
	"mosaic-gallery/internal/identity"
	"mosaic-gallery/internal/layout"
	"mosaic-gallery/internal/metrics"
	"mosaic-gallery/internal/sizetier"
)

// DefaultThumbnailTier is used for grid thumbnails regardless of viewport.
const DefaultThumbnailTier = sizetier.W400

// Item is a catalog row ready for rendering.
type Item struct {
	catalog.Row
	Folder       string        `json:"folder"`
	Tier         sizetier.Tier `json:"tier"`
	URL          string        `json:"url"`
	ThumbnailURL string        `json:"thumbnailUrl"`
}

// Resolver composes Items from rows.
type Resolver struct {
	Composer      *cdnurl.Composer
	Normalizer    *identity.Normalizer
	ThumbnailTier sizetier.Tier
}

// NewResolver returns a Resolver with the default thumbnail tier. Nil
// arguments fall back to the production composer and the curated
// normalizer.
func NewResolver(c *cdnurl.Composer, n *identity.Normalizer) *Resolver {
	if c == nil {
		c = cdnurl.New(cdnurl.DefaultRoot, cdnurl.DefaultOptimizedExtension)
	}
	if n == nil {
		n = identity.NewDefault()
	}
	return &Resolver{Composer: c, Normalizer: n, ThumbnailTier: DefaultThumbnailTier}
}

// Tier picks the tier for a viewport. A non-empty override always wins.
func (r *Resolver) Tier(vp layout.Metrics, override sizetier.Tier) sizetier.Tier {
	source := "breakpoint"
	if override != "" {
		source = "override"
	}
	tier := sizetier.ResolveWithOverride(sizetier.EffectiveWidth(vp.Width, vp.PixelDensity), override)
	metrics.TierResolutionsTotal.WithLabelValues(string(tier), source).Inc()
	return tier
}

// Resolve returns one Item per row, in row order, all at the same tier.
func (r *Resolver) Resolve(rows []catalog.Row, vp layout.Metrics, override sizetier.Tier) []Item {
	return r.ResolveAt(rows, r.Tier(vp, override))
}

// ResolveAt returns one Item per row at an already chosen tier.
func (r *Resolver) ResolveAt(rows []catalog.Row, tier sizetier.Tier) []Item {
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, r.Item(row, tier))
	}
	return items
}

// Item composes a single row at tier.
func (r *Resolver) Item(row catalog.Row, tier sizetier.Tier) Item {
	folder := r.Normalizer.Folder(row.Author)
	thumb := r.ThumbnailTier
	if thumb == "" {
		thumb = DefaultThumbnailTier
	}
	asset := cdnurl.Asset{
		Folder:   folder,
		Filename: row.Filename,
		BasePath: row.BaseURL,
		Tier:     tier,
	}
	item := Item{
		Row:    row,
		Folder: folder,
		Tier:   tier,
		URL:    r.Composer.Compose(asset),
	}
	asset.Tier = thumb
	item.ThumbnailURL = r.Composer.Compose(asset)
	return item
}
