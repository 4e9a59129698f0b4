// Package sizetier maps device viewing characteristics to the named image
// size tiers published on the content-delivery origin.
//
// A tier is a CDN subdirectory holding one rendition of every image:
//
//	w400 < w600 < w800 < w1200 < w1600 < originals < originalsWEBP
//
// Resolve picks the smallest width tier that still looks sharp for an
// effective width (viewport width times pixel density):
//
//	width := sizetier.EffectiveWidth(390, 3) // 1170
//	tier := sizetier.Resolve(width)         // sizetier.W1200
//
// Ranges are half-open: a width of exactly 500 resolves to W600. Zero,
// negative and NaN widths resolve to W400. A caller-supplied override always
// wins; see ResolveWithOverride.
package sizetier
