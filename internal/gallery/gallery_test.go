package gallery

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mosaic-gallery/internal/catalog"
	"mosaic-gallery/internal/cdnurl"
	"mosaic-gallery/internal/identity"
	"mosaic-gallery/internal/layout"
	"mosaic-gallery/internal/sizetier"
)

const basePath = "mosaic-collections/public-domain-collection"

func TestResolveEndToEnd(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil, nil)
	rows := []catalog.Row{{ID: 7, Filename: "portrait.jpg", Author: "Edward Weston", BaseURL: basePath}}

	items := r.Resolve(rows, layout.Metrics{Width: 1000, PixelDensity: 1}, "")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	got := items[0]
	if got.Folder != "edward-weston" {
		t.Errorf("Folder = %q, want edward-weston", got.Folder)
	}
	if got.Tier != sizetier.W1200 {
		t.Errorf("Tier = %q, want w1200", got.Tier)
	}
	wantURL := "https://cdn.mosaic.photography/mosaic-collections/public-domain-collection/edward-weston/w1200/portrait.webp"
	if got.URL != wantURL {
		t.Errorf("URL = %q, want %q", got.URL, wantURL)
	}
	wantThumb := "https://cdn.mosaic.photography/mosaic-collections/public-domain-collection/edward-weston/w400/portrait.webp"
	if got.ThumbnailURL != wantThumb {
		t.Errorf("ThumbnailURL = %q, want %q", got.ThumbnailURL, wantThumb)
	}
	if got.ID != 7 {
		t.Errorf("ID = %d, want 7", got.ID)
	}
}

func TestResolveTierSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		vp       layout.Metrics
		override sizetier.Tier
		want     sizetier.Tier
	}{
		{"phone at 3x", layout.Metrics{Width: 390, PixelDensity: 3}, "", sizetier.W1600},
		{"phone at 1x", layout.Metrics{Width: 390, PixelDensity: 1}, "", sizetier.W400},
		{"missing density", layout.Metrics{Width: 600}, "", sizetier.W600},
		{"boundary", layout.Metrics{Width: 250, PixelDensity: 2}, "", sizetier.W600},
		{"override wins", layout.Metrics{Width: 390, PixelDensity: 3}, sizetier.W400, sizetier.W400},
		{"originals override", layout.Metrics{Width: 100, PixelDensity: 1}, sizetier.Originals, sizetier.Originals},
		{"zero width", layout.Metrics{}, "", sizetier.W400},
	}

	r := NewResolver(nil, nil)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := r.Tier(tt.vp, tt.override); got != tt.want {
				t.Errorf("Tier() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveOriginalsKeepExtension(t *testing.T) {
	t.Parallel()

	r := NewResolver(cdnurl.New("https://cdn.example.org/", "webp"), nil)
	rows := []catalog.Row{{ID: 1, Filename: "Pepper No. 30.JPG", Author: "Edward Weston", BaseURL: basePath}}

	items := r.Resolve(rows, layout.Metrics{Width: 400}, sizetier.Originals)
	want := "https://cdn.example.org/mosaic-collections/public-domain-collection/edward-weston/originals/Pepper No. 30.JPG"
	if items[0].URL != want {
		t.Errorf("URL = %q, want %q", items[0].URL, want)
	}
	if !strings.HasSuffix(items[0].ThumbnailURL, "/w400/Pepper No. 30.webp") {
		t.Errorf("ThumbnailURL = %q, want optimized w400 thumbnail", items[0].ThumbnailURL)
	}
}

func TestResolveUsesNormalizerOverrides(t *testing.T) {
	t.Parallel()

	n := identity.NewDefault()
	n.SetOverrides(map[string]string{"Unknown Photographer": "anonymous"})
	r := NewResolver(nil, n)

	items := r.Resolve([]catalog.Row{
		{ID: 1, Filename: "a.jpg", Author: "Unknown Photographer"},
		{ID: 2, Filename: "b.png", Author: ""},
	}, layout.Metrics{Width: 320, PixelDensity: 1}, "")

	want := []string{
		"https://cdn.mosaic.photography/anonymous/w400/a.webp",
		"https://cdn.mosaic.photography/w400/b.webp",
	}
	got := []string{items[0].URL, items[1].URL}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("URLs mismatch (-want +got):\n%s", diff)
	}
}

type fakeStore struct {
	safe, portraits []catalog.Row
	portraitsErr    error
	authors         []string
}

func (f *fakeStore) SafeSource(author string) catalog.Source {
	f.authors = append(f.authors, author)
	return catalog.SourceFunc{Label: "safe", Fn: func(context.Context) ([]catalog.Row, error) {
		return f.safe, nil
	}}
}

func (f *fakeStore) PortraitSource(string) catalog.Source {
	return catalog.SourceFunc{Label: "portraits", Fn: func(context.Context) ([]catalog.Row, error) {
		return f.portraits, f.portraitsErr
	}}
}

func TestServiceGallery(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		safe: []catalog.Row{
			{ID: 1, Filename: "a.jpg", Author: "Dorothea Lange", BaseURL: basePath},
			{ID: 2, Filename: "b.jpg", Author: "Dorothea Lange", BaseURL: basePath, Title: "old"},
		},
		portraits: []catalog.Row{
			{ID: 2, Filename: "b.jpg", Author: "Dorothea Lange", BaseURL: basePath, Title: "curated"},
			{ID: 3, Filename: "c.jpg", Author: "Dorothea Lange", BaseURL: basePath, Nudity: true},
		},
	}
	svc := NewService(store, nil, 0)

	page := svc.Gallery(context.Background(), "Dorothea Lange", layout.Metrics{Width: 390, Height: 844, PixelDensity: 2}, "")

	if page.Folder != "dorothea-lange" {
		t.Errorf("Folder = %q, want dorothea-lange", page.Folder)
	}
	if page.Tier != sizetier.W800 {
		t.Errorf("Tier = %q, want w800", page.Tier)
	}
	if page.Layout.Tablet || page.Layout.ItemHeight != layout.MobileItemHeight {
		t.Errorf("unexpected layout: %+v", page.Layout)
	}

	var ids []int64
	for _, it := range page.Items {
		ids = append(ids, it.ID)
	}
	if diff := cmp.Diff([]int64{1, 2, 3}, ids); diff != "" {
		t.Errorf("item order mismatch (-want +got):\n%s", diff)
	}
	if page.Items[1].Title != "curated" {
		t.Errorf("curated source should replace overlapping row, got title %q", page.Items[1].Title)
	}
}

func TestServiceGalleryFailedSource(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		safe:         []catalog.Row{{ID: 1, Filename: "a.jpg", Author: "Lewis Hine"}},
		portraitsErr: errors.New("database is locked"),
	}
	svc := NewService(store, nil, 0)

	page := svc.Gallery(context.Background(), "Lewis Hine", layout.Metrics{Width: 1024, Height: 1366}, "")
	if len(page.Items) != 1 {
		t.Fatalf("expected 1 item from the healthy source, got %d", len(page.Items))
	}
	if !page.Layout.Tablet {
		t.Error("expected tablet layout at 1024 wide")
	}
}

func TestServiceGalleryEmptyAuthor(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	svc := NewService(store, nil, 0)

	page := svc.Gallery(context.Background(), "", layout.Metrics{Width: 390}, "")
	if page.Items == nil || len(page.Items) != 0 {
		t.Errorf("expected empty non-nil items, got %#v", page.Items)
	}
	if len(store.authors) != 0 {
		t.Error("empty author should not query the store")
	}
}
