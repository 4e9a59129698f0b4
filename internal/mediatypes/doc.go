// Package mediatypes is the format table shared by the indexer, the
// renditioner and configuration: which originals are indexed and which
// backend writes each optimized format.
//
//	if mediatypes.IsImage(name) {
//	    backend, ok := mediatypes.Encoder(".webp") // BackendVips, true
//	}
package mediatypes
