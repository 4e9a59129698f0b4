package cdnurl

import (
	"path"
	"strings"

	"mosaic-gallery/internal/sizetier"
)

const (
	// DefaultRoot is the production content-delivery host.
	DefaultRoot = "https://cdn.mosaic.photography"

	// DefaultOptimizedExtension is the web-optimized rendition format.
	DefaultOptimizedExtension = ".webp"
)

// Asset identifies one rendition of a catalog image.
type Asset struct {
	Folder   string
	Filename string
	BasePath string
	Tier     sizetier.Tier
}

// Composer turns assets into URLs. The zero value is not usable; use New.
type Composer struct {
	root         string
	optimizedExt string
}

// New returns a Composer rooted at root that rewrites resized tiers to the
// given format ("webp", ".jpg", ...). Empty arguments fall back to
// DefaultRoot and DefaultOptimizedExtension.
func New(root, format string) *Composer {
	root = strings.TrimRight(strings.TrimSpace(root), "/")
	if root == "" {
		root = DefaultRoot
	}
	return &Composer{
		root:         root,
		optimizedExt: NormalizeExtension(format),
	}
}

// NormalizeExtension lowercases format and gives it a leading dot.
func NormalizeExtension(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	format = strings.TrimLeft(format, ".")
	if format == "" {
		return DefaultOptimizedExtension
	}
	return "." + format
}

// Root returns the URL root without a trailing slash.
func (c *Composer) Root() string {
	return c.root
}

// OptimizedExtension returns the extension used for non-original tiers.
func (c *Composer) OptimizedExtension() string {
	return c.optimizedExt
}

// Compose returns the full URL for a.
func (c *Composer) Compose(a Asset) string {
	return c.root + "/" + c.RelativePath(a)
}

// RelativePath returns "<basePath>/<folder>/<tier>/<filename>" with the
// tier-appropriate filename. Empty basePath or folder segments are skipped
// and leading slashes are dropped from the filename, so upstream gaps never
// produce a double slash.
func (c *Composer) RelativePath(a Asset) string {
	segments := make([]string, 0, 4)
	for _, s := range []string{trimSeparators(a.BasePath), trimSeparators(a.Folder), string(a.Tier)} {
		if s != "" {
			segments = append(segments, s)
		}
	}
	segments = append(segments, c.Filename(strings.TrimLeft(a.Filename, "/"), a.Tier))
	return strings.Join(segments, "/")
}

// Filename returns the published filename for tier. Originals keep the
// input byte for byte; every other tier gets the optimized extension,
// appended when the input has none.
func (c *Composer) Filename(filename string, tier sizetier.Tier) string {
	if tier.IsOriginal() {
		return filename
	}
	return ReplaceExtension(filename, c.optimizedExt)
}

// ReplaceExtension swaps the extension of filename for ext, or appends ext
// when filename has no extension.
func ReplaceExtension(filename, ext string) string {
	if current := path.Ext(filename); current != "" {
		filename = strings.TrimSuffix(filename, current)
	}
	return filename + ext
}

// trimSeparators also drops surrounding whitespace, which configured base
// paths and folder overrides sometimes carry.
func trimSeparators(s string) string {
	return strings.Trim(strings.TrimSpace(s), "/")
}
