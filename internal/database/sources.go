package database

import (
	"context"

	"mosaic-gallery/internal/catalog"
)

// Source names used in logs and metric labels.
const (
	SafeSourceName      = "safe"
	PortraitsSourceName = "portraits"
)

// SafeSource returns SafeImages for author as a catalog.Source.
func (d *Database) SafeSource(author string) catalog.Source {
	return catalog.SourceFunc{
		Label: SafeSourceName,
		Fn: func(ctx context.Context) ([]catalog.Row, error) {
			return d.SafeImages(ctx, author)
		},
	}
}

// PortraitSource returns AlwaysShownPortraits for author as a catalog.Source.
func (d *Database) PortraitSource(author string) catalog.Source {
	return catalog.SourceFunc{
		Label: PortraitsSourceName,
		Fn: func(ctx context.Context) ([]catalog.Row, error) {
			return d.AlwaysShownPortraits(ctx, author)
		},
	}
}
