package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mosaic-gallery/internal/catalog"
	"mosaic-gallery/internal/cdnurl"
	"mosaic-gallery/internal/database"
	"mosaic-gallery/internal/gallery"
	"mosaic-gallery/internal/layout"
	"mosaic-gallery/internal/media"
	"mosaic-gallery/internal/sizetier"

	"github.com/google/go-cmp/cmp"
)

const basePath = "mosaic-collections/public-domain-collection"

// runCmd executes galleryctl with args. Output goes to a buffer, so it is
// always JSON.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func decodeOutput[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	return v
}

// isolateEnv clears configuration variables so defaults apply.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"AUTHOR_OVERRIDES", "CDN_ROOT", "CDN_BASE_PATH", "OPTIMIZED_FORMAT", "TABLET_BREAKPOINT"} {
		t.Setenv(key, "")
	}
}

func TestUseJSON(t *testing.T) {
	if !useJSON(&bytes.Buffer{}, false) {
		t.Error("non-file writers should get JSON")
	}
	if !useJSON(os.Stdout, true) {
		t.Error("--json should force JSON")
	}

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if !useJSON(f, false) {
		t.Error("regular files are not terminals and should get JSON")
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	err := printTable(&buf, []string{"AUTHOR", "FOLDER"}, [][]string{{"Lewis Hine", "lewis-hine"}})
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if strings.Index(lines[0], "FOLDER") != strings.Index(lines[1], "lewis-hine") {
		t.Errorf("columns are not aligned:\n%s", buf.String())
	}
}

func TestTierCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want TierResult
	}{
		{
			name: "phone at 3x",
			args: []string{"tier", "--width", "390", "--dpr", "3"},
			want: TierResult{ViewportWidth: 390, PixelDensity: 3, EffectiveWidth: 1170, Tier: sizetier.W1200},
		},
		{
			name: "override",
			args: []string{"tier", "--width", "390", "--tier", "originals"},
			want: TierResult{ViewportWidth: 390, PixelDensity: 1, EffectiveWidth: 390, Tier: sizetier.Originals, Overridden: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCmd(t, tt.args...)
			if err != nil {
				t.Fatalf("tier failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, decodeOutput[TierResult](t, out)); diff != "" {
				t.Errorf("tier mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := runCmd(t, "tier", "--tier", "w300"); err == nil {
		t.Error("expected an error for an unknown tier")
	}
}

func TestURLCommand(t *testing.T) {
	isolateEnv(t)

	out, err := runCmd(t, "url", "--author", "Edward Weston", "--filename", "pepper.jpg", "--tier", "w1200")
	if err != nil {
		t.Fatalf("url failed: %v", err)
	}
	want := URLResult{
		Folder:       "edward-weston",
		Tier:         sizetier.W1200,
		RelativePath: basePath + "/edward-weston/w1200/pepper.webp",
		URL:          cdnurl.DefaultRoot + "/" + basePath + "/edward-weston/w1200/pepper.webp",
	}
	if diff := cmp.Diff(want, decodeOutput[URLResult](t, out)); diff != "" {
		t.Errorf("url mismatch (-want +got):\n%s", diff)
	}

	if _, err := runCmd(t, "url", "--filename", "pepper.jpg"); err == nil {
		t.Error("expected an error without --author or --folder")
	}
}

func TestSlugCommandWithOverrides(t *testing.T) {
	isolateEnv(t)

	path := filepath.Join(t.TempDir(), "authors.yaml")
	if err := os.WriteFile(path, []byte("authors:\n  Lewis Hine: hine-lewis\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := runCmd(t, "slug", "--overrides", path, "Lewis Hine", "New Name")
	if err != nil {
		t.Fatalf("slug failed: %v", err)
	}
	want := []SlugResult{
		{Author: "Lewis Hine", Folder: "hine-lewis", Rule: "overrides"},
		{Author: "New Name", Folder: "new-name", Rule: "slugify"},
	}
	if diff := cmp.Diff(want, decodeOutput[[]SlugResult](t, out)); diff != "" {
		t.Errorf("slug mismatch (-want +got):\n%s", diff)
	}

	if _, err := runCmd(t, "slug"); err == nil {
		t.Error("expected an error without arguments")
	}
}

func TestLayoutCommand(t *testing.T) {
	isolateEnv(t)

	out, err := runCmd(t, "layout", "--width", "1024", "--height", "1366")
	if err != nil {
		t.Fatalf("layout failed: %v", err)
	}
	want := LayoutResult{
		Grid:         layout.Compute(1024, 1366, layout.DefaultTabletThreshold),
		DetailHeader: layout.ComputeDetailHeader(1024, 1366, layout.DefaultTabletThreshold),
	}
	if diff := cmp.Diff(want, decodeOutput[LayoutResult](t, out)); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}
}

func seedCatalog(t *testing.T, dbPath string, images ...*database.Image) {
	t.Helper()

	db, err := database.New(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	defer db.Close()

	tx, err := db.BeginBatch()
	if err != nil {
		t.Fatal(err)
	}
	var upsertErr error
	for _, img := range images {
		if upsertErr = db.UpsertImage(tx, img); upsertErr != nil {
			break
		}
	}
	if err := db.EndBatch(tx, upsertErr); err != nil {
		t.Fatalf("seeding failed: %v", err)
	}
}

func TestGalleryCommand(t *testing.T) {
	isolateEnv(t)

	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	seedCatalog(t, dbPath,
		&database.Image{Row: catalog.Row{Filename: "a.jpg", BaseURL: basePath, Width: 800, Height: 600, Author: "Lewis Hine"}},
		&database.Image{Row: catalog.Row{Filename: "b.jpg", BaseURL: basePath, Width: 600, Height: 900, Author: "Lewis Hine", Nudity: true}, AlwaysShow: true},
		&database.Image{Row: catalog.Row{Filename: "c.jpg", BaseURL: basePath, Width: 600, Height: 900, Author: "Lewis Hine", Nudity: true}},
	)

	out, err := runCmd(t, "gallery", "Lewis Hine", "--db", dbPath, "--width", "390", "--height", "844", "--dpr", "2")
	if err != nil {
		t.Fatalf("gallery failed: %v", err)
	}

	page := decodeOutput[gallery.Page](t, out)
	var files []string
	for _, it := range page.Items {
		files = append(files, it.Filename)
	}
	if diff := cmp.Diff([]string{"a.jpg", "b.jpg"}, files); diff != "" {
		t.Errorf("gallery items mismatch (-want +got):\n%s", diff)
	}
	if page.Tier != sizetier.W800 {
		t.Errorf("Tier = %q, want w800", page.Tier)
	}
}

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatal(err)
	}
}

func TestIndexAndRenderOriginals(t *testing.T) {
	isolateEnv(t)

	root := t.TempDir()
	sourceDir := filepath.Join(root, "collections")
	originDir := filepath.Join(root, "origin")
	dbPath := filepath.Join(root, "catalog.db")
	writeJPEG(t, filepath.Join(sourceDir, "Lewis Hine", "mill.jpg"), 64, 48)

	out, err := runCmd(t, "index", "--source", sourceDir, "--db", dbPath)
	if err != nil {
		t.Fatalf("index failed: %v", err)
	}
	if stats := decodeOutput[database.IndexStats](t, out); stats.TotalImages != 1 || stats.TotalAuthors != 1 {
		t.Fatalf("unexpected index stats: %+v", stats)
	}

	out, err = runCmd(t, "render", "--db", dbPath, "--source", sourceDir, "--origin", originDir, "--tier", "originals")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if summary := decodeOutput[media.Summary](t, out); summary.Rendered != 1 || summary.Failed != 0 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	want := filepath.Join(originDir, basePath, "lewis-hine", "originals", "mill.jpg")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected rendition at %s: %v", want, err)
	}

	// A second run finds the rendition up to date.
	out, err = runCmd(t, "render", "--db", dbPath, "--source", sourceDir, "--origin", originDir, "--tier", "originals")
	if err != nil {
		t.Fatalf("second render failed: %v", err)
	}
	if summary := decodeOutput[media.Summary](t, out); summary.Skipped != 1 {
		t.Errorf("expected the rendition to be skipped, got %+v", summary)
	}
}

func TestNeedsVips(t *testing.T) {
	webp := cdnurl.New("", "webp")
	jpg := cdnurl.New("", "jpg")

	tests := []struct {
		name     string
		tiers    []sizetier.Tier
		composer *cdnurl.Composer
		want     bool
	}{
		{"all tiers webp", nil, webp, true},
		{"originals only", []sizetier.Tier{sizetier.Originals}, webp, false},
		{"jpeg output", []sizetier.Tier{sizetier.W400}, jpg, false},
	}
	for _, tt := range tests {
		if got := needsVips(tt.tiers, tt.composer); got != tt.want {
			t.Errorf("%s: needsVips = %v, want %v", tt.name, got, tt.want)
		}
	}
}
