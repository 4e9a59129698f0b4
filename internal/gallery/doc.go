// Package gallery assembles view records for a photographer's gallery.
//
// A Resolver turns catalog rows into Items: it resolves the size tier once
// per request from the viewport (or takes the caller's override), resolves
// each row's author to a CDN folder and composes the full-size and
// thumbnail URLs. A Service adds the data side: it fetches the safe and
// always-shown sources concurrently, merges them by ID and attaches the
// layout budget for the requesting device.
package gallery
