// Package cdnurl builds content-delivery URLs for tiered image renditions.
//
// Every rendition lives at
//
//	<cdnRoot>/<basePath>/<folder>/<tier>/<filename>
//
// where the filename carries the optimized extension (webp by default) for
// every tier except sizetier.Originals. Composition is pure string work and
// byte-stable, so callers can cache on the result. The same relative layout
// is used by the renditions package when it writes the origin tree.
package cdnurl
