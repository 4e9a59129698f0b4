package indexer

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	// Image format decoders for DecodeConfig
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"mosaic-gallery/internal/catalog"
	"mosaic-gallery/internal/database"
	"mosaic-gallery/internal/filesystem"
	"mosaic-gallery/internal/logging"
	"mosaic-gallery/internal/mediatypes"
	"mosaic-gallery/internal/workers"
)

// WalkerConfig configures the collection walker.
type WalkerConfig struct {
	// NumWorkers is the number of photographer directories scanned at once.
	NumWorkers int
	// BatchSize is the number of rows upserted per transaction.
	BatchSize int
}

// DefaultWalkerConfig scans with an I/O-sized pool unless INDEX_WORKERS
// pins it.
func DefaultWalkerConfig() WalkerConfig {
	numWorkers := workers.ForIO(8)
	if override := os.Getenv("INDEX_WORKERS"); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			numWorkers = count
		}
	}
	return WalkerConfig{
		NumWorkers: numWorkers,
		BatchSize:  500,
	}
}

type walkResult struct {
	images  []database.Image
	authors int
	errors  int64
}

// walkCollections scans every photographer directory below sourceDir.
// Images are stamped with seen and returned sorted by author and filename.
func walkCollections(ctx context.Context, sourceDir, basePath string, cfg WalkerConfig, seen time.Time) (walkResult, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return walkResult{}, fmt.Errorf("failed to read source directory: %w", err)
	}

	var authors []string
	for _, e := range entries {
		if e.IsDir() && !isHidden(e.Name()) {
			authors = append(authors, e.Name())
		}
	}

	var (
		mu       sync.Mutex
		images   []database.Image
		errCount atomic.Int64
	)
	err = workers.Run(ctx, cfg.NumWorkers, authors, func(ctx context.Context, author string) error {
		found, errs := scanAuthor(filepath.Join(sourceDir, author), author, basePath, seen)
		errCount.Add(errs)
		mu.Lock()
		images = append(images, found...)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return walkResult{}, err
	}

	slices.SortFunc(images, func(a, b database.Image) int {
		if c := strings.Compare(a.Author, b.Author); c != 0 {
			return c
		}
		return strings.Compare(a.Filename, b.Filename)
	})

	return walkResult{images: images, authors: len(authors), errors: errCount.Load()}, nil
}

// scanAuthor returns the images in one photographer directory and the
// number of files that could not be read.
func scanAuthor(dir, author, basePath string, seen time.Time) ([]database.Image, int64) {
	var errCount int64

	sidecar, err := LoadSidecar(dir)
	if err != nil {
		logging.Warn("Ignoring sidecar for %s: %v", author, err)
		errCount++
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logging.Error("Failed to read %s: %v", dir, err)
		return nil, errCount + 1
	}

	images := make([]database.Image, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || isHidden(name) || !mediatypes.IsImage(name) {
			continue
		}

		width, height, err := readDimensions(filepath.Join(dir, name))
		if err != nil {
			logging.Warn("Skipping %s/%s: %v", author, name, err)
			errCount++
			continue
		}

		meta := sidecar.Lookup(name)
		images = append(images, database.Image{
			Row: catalog.Row{
				Filename:    name,
				BaseURL:     basePath,
				Width:       width,
				Height:      height,
				Orientation: catalog.OrientationFor(width, height),
				Author:      author,
				Title:       meta.Title,
				Description: meta.Description,
				Year:        meta.Year,
				Nudity:      meta.Nudity,
			},
			AlwaysShow: meta.AlwaysShow,
			IndexedAt:  seen,
		})
	}

	logging.Debug("Scanned %s: %d images", author, len(images))
	return images, errCount
}

// readDimensions reads only the image header.
func readDimensions(path string) (width, height int, err error) {
	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
