// Command galleryctl exercises the gallery pipeline from the shell.
//
// Usage:
//
//	galleryctl <command> [flags]
//
// Commands:
//
//	tier     Resolve the size tier for a viewport width and pixel density
//	url      Compose a CDN URL for an image at a tier
//	slug     Resolve author names to CDN folder names
//	layout   Compute the grid cell and detail header budgets for a screen
//	gallery  Print an author's resolved gallery from the catalog database
//	index    Run one index pass over SOURCE_DIR
//	render   Render tier derivatives for catalog images into ORIGIN_DIR
//
// Output is JSON when stdout is not a terminal or --json is passed, and an
// aligned table otherwise. Configuration is read from the same environment
// variables as the server; a .env file in the working directory is loaded
// first.
package main
