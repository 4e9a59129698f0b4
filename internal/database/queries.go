package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mosaic-gallery/internal/catalog"
	"mosaic-gallery/internal/metrics"
)

const imageColumns = `id, filename, base_url, width, height, orientation, author,
	title, description, year, nudity, always_show, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImage(s rowScanner) (Image, error) {
	var (
		img         Image
		orientation string
		year        sql.NullInt64
		updatedAt   int64
	)
	err := s.Scan(
		&img.ID, &img.Filename, &img.BaseURL, &img.Width, &img.Height, &orientation,
		&img.Author, &img.Title, &img.Description, &year, &img.Nudity, &img.AlwaysShow,
		&updatedAt,
	)
	if err != nil {
		return Image{}, err
	}
	img.Orientation = catalog.Orientation(orientation)
	if year.Valid {
		y := int(year.Int64)
		img.Year = &y
	}
	img.IndexedAt = time.Unix(0, updatedAt)
	return img, nil
}

// UpsertImage inserts or updates an image keyed by (author, filename) within
// a transaction. Existing rows keep their ID. IndexedAt marks the row as seen
// by the current index run; zero means now.
func (d *Database) UpsertImage(tx *sql.Tx, img *Image) error {
	seen := img.IndexedAt
	if seen.IsZero() {
		seen = time.Now()
	}
	orientation := img.Orientation
	if orientation == "" {
		orientation = catalog.OrientationFor(img.Width, img.Height)
	}

	var year any
	if img.Year != nil {
		year = *img.Year
	}

	query := `
	INSERT INTO images (filename, base_url, width, height, orientation, author,
		title, description, year, nudity, always_show, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(author, filename) DO UPDATE SET
		base_url = excluded.base_url,
		width = excluded.width,
		height = excluded.height,
		orientation = excluded.orientation,
		title = excluded.title,
		description = excluded.description,
		year = excluded.year,
		nudity = excluded.nudity,
		always_show = excluded.always_show,
		updated_at = excluded.updated_at
	`

	// The transaction controls the operation's lifecycle.
	result, err := tx.ExecContext(context.Background(), query,
		img.Filename,
		img.BaseURL,
		img.Width,
		img.Height,
		string(orientation),
		img.Author,
		img.Title,
		img.Description,
		year,
		img.Nudity,
		img.AlwaysShow,
		seen.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("upsert %s/%s: %w", img.Author, img.Filename, err)
	}
	if rows, _ := result.RowsAffected(); rows > 0 {
		metrics.DBRowsAffected.WithLabelValues("upsert_image").Observe(float64(rows))
	}
	return nil
}

// DeleteMissing removes images that weren't seen by an index run started at
// cutoff. Must be called within a transaction.
func (d *Database) DeleteMissing(tx *sql.Tx, cutoff time.Time) (int64, error) {
	result, err := tx.ExecContext(context.Background(),
		"DELETE FROM images WHERE updated_at < ?",
		cutoff.UnixNano(),
	)
	if err != nil {
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err == nil && rowsAffected > 0 {
		metrics.DBRowsAffected.WithLabelValues("delete_images").Observe(float64(rowsAffected))
	}
	return rowsAffected, err
}

// SafeImages returns the author's images not flagged for nudity, in ID order.
func (d *Database) SafeImages(ctx context.Context, author string) ([]catalog.Row, error) {
	return d.queryRows(ctx, "safe_images",
		`SELECT `+imageColumns+` FROM images WHERE author = ? AND nudity = 0 ORDER BY id`,
		author)
}

// AlwaysShownPortraits returns the author's curated portraits, flagged
// always_show, whether or not they are flagged for nudity.
func (d *Database) AlwaysShownPortraits(ctx context.Context, author string) ([]catalog.Row, error) {
	return d.queryRows(ctx, "always_shown_portraits",
		`SELECT `+imageColumns+` FROM images
		WHERE author = ? AND always_show = 1 AND orientation = ? ORDER BY id`,
		author, string(catalog.Portrait))
}

func (d *Database) queryRows(ctx context.Context, operation, query string, args ...any) ([]catalog.Row, error) {
	images, err := d.queryImages(ctx, operation, query, args...)
	if err != nil {
		return nil, err
	}
	rows := make([]catalog.Row, len(images))
	for i := range images {
		rows[i] = images[i].Row
	}
	return rows, nil
}

func (d *Database) queryImages(ctx context.Context, operation, query string, args ...any) (images []Image, err error) {
	start := time.Now()
	defer func() { recordQuery(operation, start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s query failed: %w", operation, err)
	}
	defer rows.Close()

	for rows.Next() {
		img, scanErr := scanImage(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("%s scan failed: %w", operation, scanErr)
		}
		images = append(images, img)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s iteration failed: %w", operation, err)
	}
	return images, nil
}

// AllImages returns every image in the catalog ordered by author and ID.
func (d *Database) AllImages(ctx context.Context) ([]Image, error) {
	return d.queryImages(ctx, "all_images",
		`SELECT `+imageColumns+` FROM images ORDER BY author, id`)
}

// GetImage retrieves a single image by ID.
func (d *Database) GetImage(ctx context.Context, id int64) (img *Image, err error) {
	start := time.Now()
	defer func() { recordQuery("get_image", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	found, err := scanImage(d.db.QueryRowContext(ctx,
		`SELECT `+imageColumns+` FROM images WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &found, nil
}

// ListAuthors returns every photographer with image counts, ordered by name.
func (d *Database) ListAuthors(ctx context.Context) (authors []AuthorSummary, err error) {
	start := time.Now()
	defer func() { recordQuery("list_authors", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, `
		SELECT author, COUNT(*), SUM(CASE WHEN nudity = 0 THEN 1 ELSE 0 END)
		FROM images
		GROUP BY author
		ORDER BY author COLLATE NOCASE
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	authors = []AuthorSummary{}
	for rows.Next() {
		var a AuthorSummary
		if err = rows.Scan(&a.Name, &a.Images, &a.SafeImages); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// ComputeStats counts the catalog. LastIndexed and IndexDuration come from
// the cached stats of the last index run.
func (d *Database) ComputeStats(ctx context.Context) (stats IndexStats, err error) {
	start := time.Now()
	defer func() { recordQuery("compute_stats", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err = d.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(DISTINCT author),
			COALESCE(SUM(nudity), 0),
			COALESCE(SUM(always_show), 0)
		FROM images
	`).Scan(&stats.TotalImages, &stats.TotalAuthors, &stats.SensitiveImages, &stats.AlwaysShownImages)
	if err != nil {
		return IndexStats{}, err
	}

	cached := d.GetStats()
	stats.LastIndexed = cached.LastIndexed
	stats.IndexDuration = cached.IndexDuration
	return stats, nil
}

// CatalogStats implements metrics.StatsProvider.
func (d *Database) CatalogStats() metrics.Stats {
	d.recordPoolStats()
	stats, err := d.ComputeStats(context.Background())
	if err != nil {
		return metrics.Stats{}
	}
	return metrics.Stats{
		TotalImages:       stats.TotalImages,
		SensitiveImages:   stats.SensitiveImages,
		AlwaysShownImages: stats.AlwaysShownImages,
		TotalAuthors:      stats.TotalAuthors,
	}
}
