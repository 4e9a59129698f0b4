package identity

import (
	"sync"

	"mosaic-gallery/internal/logging"
	"mosaic-gallery/internal/metrics"
)

const overrideRuleName = "overrides"

// Normalizer resolves author names through a prioritized rule chain. It is
// safe for concurrent use; the override rule can be swapped while requests
// are being served.
type Normalizer struct {
	mu        sync.RWMutex
	overrides Rule
	rules     []Rule
}

// New returns a Normalizer that tries rules in order and falls back to
// SlugifyRule when none match.
func New(rules ...Rule) *Normalizer {
	chain := make([]Rule, 0, len(rules)+1)
	chain = append(chain, rules...)
	chain = append(chain, SlugifyRule{})
	return &Normalizer{rules: chain}
}

// NewDefault returns a Normalizer over the curated table.
func NewDefault() *Normalizer {
	return New(CuratedRule())
}

var defaultNormalizer = NewDefault()

// AuthorToFolder resolves author with the curated table and slugify
// fallback. It never fails; empty input yields "".
func AuthorToFolder(author string) string {
	return defaultNormalizer.Folder(author)
}

// Folder returns the folder slug for author.
func (n *Normalizer) Folder(author string) string {
	folder, _ := n.Resolve(author)
	return folder
}

// Resolve returns the folder slug and the name of the rule that produced
// it. Empty input resolves to "" with no rule.
func (n *Normalizer) Resolve(author string) (folder, rule string) {
	if author == "" {
		return "", ""
	}
	for _, r := range n.chain() {
		if folder, ok := r.Folder(author); ok {
			metrics.FolderResolutionsTotal.WithLabelValues(r.Name()).Inc()
			logging.Debug("identity: %q -> %q (%s)", author, folder, r.Name())
			return folder, r.Name()
		}
	}
	return "", ""
}

// SetOverrides installs pairs as the highest-priority rule, replacing any
// previous overrides. A nil or empty map removes them.
func (n *Normalizer) SetOverrides(pairs map[string]string) {
	var rule Rule
	if len(pairs) > 0 {
		rule = NewTableRule(overrideRuleName, pairs)
	}
	n.mu.Lock()
	n.overrides = rule
	n.mu.Unlock()
}

// RuleNames lists the active rules in priority order.
func (n *Normalizer) RuleNames() []string {
	chain := n.chain()
	names := make([]string, len(chain))
	for i, r := range chain {
		names[i] = r.Name()
	}
	return names
}

func (n *Normalizer) chain() []Rule {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.overrides == nil {
		return n.rules
	}
	chain := make([]Rule, 0, len(n.rules)+1)
	chain = append(chain, n.overrides)
	return append(chain, n.rules...)
}
