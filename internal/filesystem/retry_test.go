package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"mosaic-gallery/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestVolumeResolver(t *testing.T) {
	t.Parallel()

	vr := NewVolumeResolver(map[string]string{
		"source": "/collections",
		"nested": "/collections/special",
		"origin": "/origin",
		"empty":  "",
	})

	tests := map[string]string{
		"/collections/Lewis Hine/a.jpg": "source",
		"/collections/special/a.jpg":    "nested",
		"/collections":                  "source",
		"/collectionsX/a.jpg":           unknownVolume,
		"/origin/w400/a.webp":           "origin",
		"/tmp/a.jpg":                    unknownVolume,
	}
	for path, want := range tests {
		if got := vr.Resolve(path); got != want {
			t.Errorf("Resolve(%q) = %q, want %q", path, got, want)
		}
	}

	var nilResolver *VolumeResolver
	if got := nilResolver.Resolve("/collections"); got != unknownVolume {
		t.Errorf("nil resolver returned %q", got)
	}
}

func TestIsStale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"estale", syscall.ESTALE, true},
		{"wrapped estale", &fs.PathError{Op: "stat", Path: "/x", Err: syscall.ESTALE}, true},
		{"enoent", syscall.ENOENT, false},
		{"plain", errors.New("stale"), false},
	}
	for _, tt := range tests {
		if got := IsStale(tt.err); got != tt.want {
			t.Errorf("%s: IsStale = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func fastConfig(vr *VolumeResolver) RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		VolumeResolver: vr,
	}
}

func TestWithRetryRecoversFromStaleHandle(t *testing.T) {
	vr := NewVolumeResolver(map[string]string{"retry-ok": "/retry-ok"})
	calls := 0

	got, err := withRetry("stat", "/retry-ok/a.jpg", fastConfig(vr), func() (int, error) {
		calls++
		if calls < 3 {
			return 0, &fs.PathError{Op: "stat", Path: "/retry-ok/a.jpg", Err: syscall.ESTALE}
		}
		return 42, nil
	})

	if err != nil || got != 42 {
		t.Fatalf("withRetry = (%d, %v), want (42, nil)", got, err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if v := testutil.ToFloat64(metrics.FilesystemStaleErrors.WithLabelValues("stat", "retry-ok")); v != 2 {
		t.Errorf("stale errors = %v, want 2", v)
	}
	if v := testutil.ToFloat64(metrics.FilesystemRetries.WithLabelValues("stat", "retry-ok", "success")); v != 1 {
		t.Errorf("successes = %v, want 1", v)
	}
}

func TestWithRetryGivesUp(t *testing.T) {
	vr := NewVolumeResolver(map[string]string{"retry-fail": "/retry-fail"})
	calls := 0

	_, err := withRetry("open", "/retry-fail/a.jpg", fastConfig(vr), func() (int, error) {
		calls++
		return 0, syscall.ESTALE
	})

	if !IsStale(err) {
		t.Fatalf("expected ESTALE, got %v", err)
	}
	if calls != 4 {
		t.Errorf("calls = %d, want 4 (one try plus three retries)", calls)
	}
	if v := testutil.ToFloat64(metrics.FilesystemRetries.WithLabelValues("open", "retry-fail", "failure")); v != 1 {
		t.Errorf("failures = %v, want 1", v)
	}
}

func TestWithRetryDoesNotRetryOtherErrors(t *testing.T) {
	t.Parallel()

	calls := 0
	_, err := withRetry("stat", "/x", fastConfig(nil), func() (int, error) {
		calls++
		return 0, fmt.Errorf("wrapped: %w", fs.ErrNotExist)
	})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestStatAndOpenWithRetry(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a.jpg")
	if err := os.WriteFile(path, []byte("jpeg"), 0o600); err != nil {
		t.Fatal(err)
	}

	info, err := StatWithRetry(path, DefaultRetryConfig())
	if err != nil || info.Size() != 4 {
		t.Fatalf("StatWithRetry = (%v, %v)", info, err)
	}

	f, err := OpenWithRetry(path, DefaultRetryConfig())
	if err != nil {
		t.Fatalf("OpenWithRetry: %v", err)
	}
	f.Close()

	if _, err := StatWithRetry(path+".missing", DefaultRetryConfig()); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file err = %v", err)
	}
}
