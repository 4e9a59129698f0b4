package identity

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestAuthorToFolder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		author string
		want   string
	}{
		{"table hit", "Alfred Stieglitz", "alfred-stieglitz"},
		{"fallback", "Some New Name", "some-new-name"},
		{"empty", "", ""},
		{"accented variant", "Gertrude Käsebier", "gertrude-kasebier"},
		{"spelling variant", "Gertrude Kaesebier", "gertrude-kasebier"},
		{"pseudonym", "Gaspard-Félix Tournachon", "nadar"},
		{"table match is exact", "Stieglitz", "alfred-stieglitz"},
		{"case variant falls back", "stieglitz", "stieglitz"},
		{"lowercase variant falls back", "clarence white", "clarence-white"},
		{"spacing variant falls back", "  Lewis   W. Hine ", "lewis-w-hine"},
		{"fallback strips punctuation", "E. J. Bellocq", "e-j-bellocq"},
		{"fallback decomposes accents", "Émile Zola", "emile-zola"},
		{"fallback drops hyphens", "Henri Cartier-Bresson", "henri-cartierbresson"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := AuthorToFolder(tt.author); got != tt.want {
				t.Errorf("AuthorToFolder(%q) = %q, want %q", tt.author, got, tt.want)
			}
		})
	}
}

func TestAuthorToFolderDeterministic(t *testing.T) {
	t.Parallel()

	for _, author := range []string{"Edward Weston", "Unknown Photographer", "Zoë Ångström"} {
		first := AuthorToFolder(author)
		for i := 0; i < 10; i++ {
			if got := AuthorToFolder(author); got != first {
				t.Fatalf("AuthorToFolder(%q) changed from %q to %q", author, first, got)
			}
		}
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                        "",
		"   ":                     "",
		"Some New Name":           "some-new-name",
		"  Leading and trailing ": "leading-and-trailing",
		"Multiple    spaces":      "multiple-spaces",
		"Zoë Ångström":            "zoe-angstrom",
		"Tab\tseparated":          "tabseparated",
		"Studio 1920":             "studio-1920",
		"Ørsted":                  "rsted",
		"!!!":                     "",
		"O'Keeffe & Stieglitz":    "okeeffe-stieglitz",
	}

	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCuratedTableIsSlugShaped(t *testing.T) {
	t.Parallel()

	slug := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	for author, folder := range curatedFolders {
		if !slug.MatchString(folder) {
			t.Errorf("curated folder %q for %q is not a slug", folder, author)
		}
	}
}

type staticRule struct {
	name   string
	author string
	folder string
}

func (r staticRule) Name() string { return r.name }

func (r staticRule) Folder(author string) (string, bool) {
	if author == r.author {
		return r.folder, true
	}
	return "", false
}

func TestNormalizerRuleOrder(t *testing.T) {
	t.Parallel()

	n := New(
		staticRule{name: "first", author: "Edward Weston", folder: "weston-first"},
		CuratedRule(),
	)

	folder, rule := n.Resolve("Edward Weston")
	if folder != "weston-first" || rule != "first" {
		t.Errorf("Resolve() = (%q, %q), want first rule to win", folder, rule)
	}

	folder, rule = n.Resolve("Alfred Stieglitz")
	if folder != "alfred-stieglitz" || rule != "curated" {
		t.Errorf("Resolve() = (%q, %q), want curated hit", folder, rule)
	}

	folder, rule = n.Resolve("Nobody Known")
	if folder != "nobody-known" || rule != "slugify" {
		t.Errorf("Resolve() = (%q, %q), want slugify fallback", folder, rule)
	}

	folder, rule = n.Resolve("")
	if folder != "" || rule != "" {
		t.Errorf("Resolve(\"\") = (%q, %q), want no folder and no rule", folder, rule)
	}

	folder, rule = n.Resolve("!!!")
	if folder != "" || rule != "slugify" {
		t.Errorf("Resolve(\"!!!\") = (%q, %q), want empty slugify result", folder, rule)
	}

	if diff := cmp.Diff([]string{"first", "curated", "slugify"}, n.RuleNames()); diff != "" {
		t.Errorf("RuleNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizerOverrides(t *testing.T) {
	t.Parallel()

	n := NewDefault()
	n.SetOverrides(map[string]string{
		"Alfred Stieglitz": "stieglitz-archive",
		"":                 "ignored",
		"Blank Folder":     " ",
	})

	if got := n.Folder("Alfred Stieglitz"); got != "stieglitz-archive" {
		t.Errorf("override not applied: %q", got)
	}
	if got := n.Folder("Blank Folder"); got != "blank-folder" {
		t.Errorf("blank override folder should fall through, got %q", got)
	}
	if diff := cmp.Diff([]string{"overrides", "curated", "slugify"}, n.RuleNames()); diff != "" {
		t.Errorf("RuleNames() mismatch (-want +got):\n%s", diff)
	}

	n.SetOverrides(nil)
	if got := n.Folder("Alfred Stieglitz"); got != "alfred-stieglitz" {
		t.Errorf("clearing overrides should restore the table, got %q", got)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "authors.yaml")
	content := "authors:\n  \"E. J. Bellocq\": ernest-j-bellocq\n  \"Eugène Atget\": atget\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	pairs, err := LoadOverrides(path)
	if err != nil {
		t.Fatalf("LoadOverrides() error = %v", err)
	}
	want := map[string]string{"E. J. Bellocq": "ernest-j-bellocq", "Eugène Atget": "atget"}
	if diff := cmp.Diff(want, pairs); diff != "" {
		t.Errorf("LoadOverrides() mismatch (-want +got):\n%s", diff)
	}

	if _, err := LoadOverrides(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("authors: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	n := NewDefault()
	n.SetOverrides(map[string]string{"Keep Me": "kept"})
	if err := LoadOverridesInto(n, bad); err == nil {
		t.Error("expected parse error")
	}
	if got := n.Folder("Keep Me"); got != "kept" {
		t.Errorf("failed load should keep previous overrides, got %q", got)
	}
}

func TestWatchReloadsOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "authors.yaml")
	if err := os.WriteFile(path, []byte("authors: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	n := NewDefault()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := Watch(ctx, n, path); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("authors:\n  \"Walker Evans\": evans-fsa\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if n.Folder("Walker Evans") == "evans-fsa" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("override was not reloaded, Folder() = %q", n.Folder("Walker Evans"))
}
