// Package handlers provides the HTTP handlers for the gallery API.
//
// It includes handlers for:
//   - Photographer listing and folder lookup
//   - Gallery pages and single images resolved for a viewport
//   - Layout budgets for the grid and the detail header
//   - Reindexing, stats, health checks and version info
package handlers
