// Package media renders catalog images into the per-tier tree the CDN
// serves from. Output paths come from the same cdnurl policy that composes
// URLs, so every URL the API returns has a file behind it on the origin.
//
// Originals are copied byte for byte. WebP tiers are encoded with libvips;
// JPEG, PNG and GIF tiers with the pure-Go imaging package.
package media
