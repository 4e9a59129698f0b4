package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Rule resolves an author name to a folder slug, reporting whether it
// matched.
type Rule interface {
	Name() string
	Folder(author string) (string, bool)
}

// TableRule matches names exactly against a fixed name-to-folder table.
type TableRule struct {
	name    string
	entries map[string]string
}

// NewTableRule builds a TableRule from name-to-folder pairs. Empty names and
// empty folders are skipped.
func NewTableRule(name string, pairs map[string]string) *TableRule {
	entries := make(map[string]string, len(pairs))
	for author, folder := range pairs {
		folder = strings.TrimSpace(folder)
		if strings.TrimSpace(author) == "" || folder == "" {
			continue
		}
		entries[author] = folder
	}
	return &TableRule{name: name, entries: entries}
}

// Name identifies the rule in logs and metrics.
func (r *TableRule) Name() string { return r.name }

// Len returns the number of usable entries.
func (r *TableRule) Len() int { return len(r.entries) }

// Folder looks author up in the table.
func (r *TableRule) Folder(author string) (string, bool) {
	folder, ok := r.entries[author]
	return folder, ok
}

// SlugifyRule is the catch-all rule. It always matches.
type SlugifyRule struct{}

// Name identifies the rule in logs and metrics.
func (SlugifyRule) Name() string { return "slugify" }

// Folder returns Slugify(author).
func (SlugifyRule) Folder(author string) (string, bool) {
	return Slugify(author), true
}

// Slugify decomposes accents, drops the combining marks, strips everything
// outside [a-zA-Z0-9 ], lowercases, trims and joins the remaining words with
// single hyphens. "Eugène  Atget" becomes "eugene-atget".
func Slugify(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	decomposed, _, err := transform.String(t, s)
	if err != nil {
		decomposed = s
	}

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		}
	}
	return strings.Join(strings.Fields(b.String()), "-")
}
