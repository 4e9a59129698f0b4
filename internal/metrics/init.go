package metrics

// InitializeMetrics pre-populates the expected label combinations so every
// series is exported from the first scrape.
func InitializeMetrics(tiers []string) {
	for _, tier := range tiers {
		for _, source := range []string{"breakpoint", "override"} {
			TierResolutionsTotal.WithLabelValues(tier, source)
		}
		for _, status := range []string{"rendered", "skipped", "failed"} {
			RenditionsTotal.WithLabelValues(tier, status)
		}
	}

	for _, rule := range []string{"overrides", "curated", "slugify"} {
		FolderResolutionsTotal.WithLabelValues(rule)
	}

	for _, kind := range []string{"output", "replaced"} {
		MergeRowsTotal.WithLabelValues(kind)
	}

	for _, source := range []string{"safe", "portraits"} {
		SourceFailuresTotal.WithLabelValues(source)
	}

	for _, class := range []string{"all", "sensitive", "always_shown"} {
		CatalogImagesTotal.WithLabelValues(class)
	}

	for _, outcome := range []string{"commit", "rollback"} {
		DBTransactionDuration.WithLabelValues(outcome)
	}
}
