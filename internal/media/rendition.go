package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"mosaic-gallery/internal/catalog"
	"mosaic-gallery/internal/cdnurl"
	"mosaic-gallery/internal/filesystem"
	"mosaic-gallery/internal/identity"
	"mosaic-gallery/internal/logging"
	"mosaic-gallery/internal/mediatypes"
	"mosaic-gallery/internal/metrics"
	"mosaic-gallery/internal/sizetier"
	"mosaic-gallery/internal/workers"
)

// ErrNoWebPEncoder is returned when a WebP rendition is requested but
// libvips was not initialized.
var ErrNoWebPEncoder = errors.New("webp encoding requires libvips")

// Rendition status labels.
const (
	StatusRendered = "rendered"
	StatusSkipped  = "skipped"
	StatusFailed   = "failed"
)

// Summary counts the outcome of a render run.
type Summary struct {
	Rendered int64         `json:"rendered"`
	Skipped  int64         `json:"skipped"`
	Failed   int64         `json:"failed"`
	Duration time.Duration `json:"duration"`
}

// Renditioner writes every tier of catalog images below an origin root.
type Renditioner struct {
	sourceDir  string
	originDir  string
	composer   *cdnurl.Composer
	normalizer *identity.Normalizer
	tiers      []sizetier.Tier
	force      bool
	gate       Gate
}

// Gate holds back render work, for example while memory is scarce.
type Gate interface {
	Wait(ctx context.Context) error
}

// NewRenditioner reads originals from sourceDir/<author>/<filename> and
// writes renditions to originDir.
func NewRenditioner(sourceDir, originDir string, composer *cdnurl.Composer, normalizer *identity.Normalizer) *Renditioner {
	return &Renditioner{
		sourceDir:  sourceDir,
		originDir:  originDir,
		composer:   composer,
		normalizer: normalizer,
		tiers:      sizetier.All,
	}
}

// SetTiers limits rendering to tiers. An empty list restores all tiers.
func (r *Renditioner) SetTiers(tiers []sizetier.Tier) {
	if len(tiers) == 0 {
		tiers = sizetier.All
	}
	r.tiers = tiers
}

// SetGate makes every worker wait on g before rendering an image.
func (r *Renditioner) SetGate(g Gate) {
	r.gate = g
}

// SetForce makes the renditioner overwrite up-to-date outputs.
func (r *Renditioner) SetForce(force bool) {
	r.force = force
}

// SourcePath returns where the original for row is read from.
func (r *Renditioner) SourcePath(row catalog.Row) string {
	return filepath.Join(r.sourceDir, row.Author, row.Filename)
}

// OutputPath returns where the tier rendition for row is written. It
// mirrors the composed URL path.
func (r *Renditioner) OutputPath(row catalog.Row, tier sizetier.Tier) string {
	rel := r.composer.RelativePath(cdnurl.Asset{
		Folder:   r.normalizer.Folder(row.Author),
		Filename: row.Filename,
		BasePath: row.BaseURL,
		Tier:     tier,
	})
	return filepath.Join(r.originDir, filepath.FromSlash(rel))
}

// RenderAll renders rows with a CPU-sized worker pool.
func (r *Renditioner) RenderAll(ctx context.Context, rows []catalog.Row) (Summary, error) {
	start := time.Now()
	var rendered, skipped, failed atomic.Int64

	n := workers.ForCPU(8)
	logging.Info("Rendering %d images x %d tiers with %d workers", len(rows), len(r.tiers), n)

	err := workers.Run(ctx, n, rows, func(ctx context.Context, row catalog.Row) error {
		if r.gate != nil {
			if err := r.gate.Wait(ctx); err != nil {
				return err
			}
		}
		for _, tier := range r.tiers {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			status, err := r.RenderTier(row, tier)
			switch status {
			case StatusRendered:
				rendered.Add(1)
			case StatusSkipped:
				skipped.Add(1)
			default:
				failed.Add(1)
				logging.Warn("Rendition %s of %s/%s failed: %v", tier, row.Author, row.Filename, err)
			}
		}
		return nil
	})

	summary := Summary{
		Rendered: rendered.Load(),
		Skipped:  skipped.Load(),
		Failed:   failed.Load(),
		Duration: time.Since(start),
	}
	logging.Info("Rendering complete: %d rendered, %d skipped, %d failed in %v",
		summary.Rendered, summary.Skipped, summary.Failed, summary.Duration)
	return summary, err
}

// RenderTier writes one rendition and returns its status.
func (r *Renditioner) RenderTier(row catalog.Row, tier sizetier.Tier) (status string, err error) {
	defer func() {
		metrics.RenditionsTotal.WithLabelValues(string(tier), status).Inc()
	}()

	src := r.SourcePath(row)
	srcInfo, err := filesystem.StatWithRetry(src, filesystem.DefaultRetryConfig())
	if err != nil {
		return StatusFailed, fmt.Errorf("source not accessible: %w", err)
	}

	dest := r.OutputPath(row, tier)
	if !r.force {
		if destInfo, statErr := os.Stat(dest); statErr == nil && !destInfo.ModTime().Before(srcInfo.ModTime()) {
			return StatusSkipped, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return StatusFailed, fmt.Errorf("failed to create output dir: %w", err)
	}

	if tier.IsOriginal() {
		start := time.Now()
		err = copyFile(src, dest)
		metrics.RenditionDuration.WithLabelValues("copy").Observe(time.Since(start).Seconds())
		if err != nil {
			return StatusFailed, err
		}
		return StatusRendered, nil
	}

	data, err := r.encode(src, tier)
	if err != nil {
		return StatusFailed, err
	}
	if err := writeFileAtomic(dest, data); err != nil {
		return StatusFailed, err
	}
	logging.Debug("Rendered %s (%d bytes)", dest, len(data))
	return StatusRendered, nil
}

func (r *Renditioner) encode(src string, tier sizetier.Tier) ([]byte, error) {
	ext := r.composer.OptimizedExtension()
	backend, ok := mediatypes.Encoder(ext)
	if !ok {
		return nil, fmt.Errorf("no encoder for optimized format %q", ext)
	}

	start := time.Now()
	defer func() {
		metrics.RenditionDuration.WithLabelValues(string(backend)).Observe(time.Since(start).Seconds())
	}()

	if backend == mediatypes.BackendVips {
		return encodeWebPWithVips(src, tier.Width())
	}
	return encodeWithImaging(src, tier.Width(), ext)
}

func copyFile(src, dest string) error {
	in, err := filesystem.OpenWithRetry(src, filesystem.DefaultRetryConfig())
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dest + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dest)
}

func writeFileAtomic(dest string, data []byte) error {
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
