// Package catalog defines catalog image rows and the merge applied when one
// photographer's gallery is assembled from two independent queries.
//
// The general query returns images that pass the visibility filter; the
// curated query returns portraits that are always displayed regardless of
// the sensitivity flag. MergeByID overlays the curated rows on the general
// ones: duplicates by ID are replaced by the later source while keeping the
// position of their first appearance.
//
// FetchMerged issues both queries concurrently. A source that fails
// contributes no rows; the merge itself never fails.
package catalog
