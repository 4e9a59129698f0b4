package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeStats struct {
	stats Stats
	calls chan struct{}
}

func (f *fakeStats) CatalogStats() Stats {
	select {
	case f.calls <- struct{}{}:
	default:
	}
	return f.stats
}

func TestCollectorPublishesStats(t *testing.T) {
	provider := &fakeStats{
		stats: Stats{TotalImages: 42, SensitiveImages: 5, AlwaysShownImages: 3, TotalAuthors: 7},
		calls: make(chan struct{}, 1),
	}

	c := NewCollector(provider, time.Hour)
	c.Start()
	defer c.Stop()

	select {
	case <-provider.calls:
	case <-time.After(5 * time.Second):
		t.Fatal("collector never queried the provider")
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if testutil.ToFloat64(CatalogAuthorsTotal) == 7 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if got := testutil.ToFloat64(CatalogImagesTotal.WithLabelValues("all")); got != 42 {
		t.Errorf("catalog images (all) = %v, want 42", got)
	}
	if got := testutil.ToFloat64(CatalogImagesTotal.WithLabelValues("sensitive")); got != 5 {
		t.Errorf("catalog images (sensitive) = %v, want 5", got)
	}
	if got := testutil.ToFloat64(CatalogAuthorsTotal); got != 7 {
		t.Errorf("catalog authors = %v, want 7", got)
	}
}

func TestCollectorNilProvider(t *testing.T) {
	c := NewCollector(nil, time.Hour)
	c.collect() // must not panic
}

func TestInitializeMetrics(t *testing.T) {
	InitializeMetrics([]string{"w400", "originals"})

	if n := testutil.CollectAndCount(TierResolutionsTotal); n < 4 {
		t.Errorf("expected at least 4 tier series, got %d", n)
	}
	if n := testutil.CollectAndCount(FolderResolutionsTotal); n < 3 {
		t.Errorf("expected at least 3 folder rule series, got %d", n)
	}
}

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("1.2.3", "abc123", "go1.25")
	if got := testutil.ToFloat64(AppInfo.WithLabelValues("1.2.3", "abc123", "go1.25")); got != 1 {
		t.Errorf("app info = %v, want 1", got)
	}
}

func TestPipelineMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"TierResolutionsTotal", TierResolutionsTotal},
		{"FolderResolutionsTotal", FolderResolutionsTotal},
		{"MergeRowsTotal", MergeRowsTotal},
		{"SourceFailuresTotal", SourceFailuresTotal},
		{"SourceFetchDuration", SourceFetchDuration},
		{"RenditionsTotal", RenditionsTotal},
		{"RenditionDuration", RenditionDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}
