package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"mosaic-gallery/internal/database"
	"mosaic-gallery/internal/layout"
	"mosaic-gallery/internal/logging"

	"github.com/gorilla/mux"
	"github.com/sahilm/fuzzy"
)

// Photographer is one entry of the photographer list.
type Photographer struct {
	Name       string `json:"name"`
	Folder     string `json:"folder"`
	Images     int    `json:"images"`
	SafeImages int    `json:"safeImages"`
}

// FolderResponse is the result of resolving an author name.
type FolderResponse struct {
	Author string `json:"author"`
	Folder string `json:"folder"`
	Rule   string `json:"rule"`
}

// ListPhotographers returns every author with its CDN folder. With q it
// returns only fuzzy matches on name or folder, best match first.
func (h *Handlers) ListPhotographers(w http.ResponseWriter, r *http.Request) {
	authors, err := h.catalog.ListAuthors(r.Context())
	if err != nil {
		logging.Error("ListPhotographers: %v", err)
		writeJSONError(w, "failed to list photographers", http.StatusInternalServerError)
		return
	}

	normalizer := h.gallery.Resolver().Normalizer
	out := make([]Photographer, 0, len(authors))
	for _, a := range authors {
		out = append(out, Photographer{
			Name:       a.Name,
			Folder:     normalizer.Folder(a.Name),
			Images:     a.Images,
			SafeImages: a.SafeImages,
		})
	}

	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		out = matchPhotographers(q, out)
	}

	writeJSONCached(w, r, out)
}

func matchPhotographers(query string, all []Photographer) []Photographer {
	targets := make([]string, len(all))
	for i, p := range all {
		targets[i] = p.Name + " " + p.Folder
	}
	matches := fuzzy.Find(query, targets)
	out := make([]Photographer, 0, len(matches))
	for _, m := range matches {
		out = append(out, all[m.Index])
	}
	return out
}

// GetGallery returns an author's merged gallery resolved for the caller's
// viewport.
func (h *Handlers) GetGallery(w http.ResponseWriter, r *http.Request) {
	author := strings.TrimSpace(r.URL.Query().Get("author"))
	if author == "" {
		writeJSONError(w, "author is required", http.StatusBadRequest)
		return
	}

	override, err := parseTier(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	page := h.gallery.Gallery(r.Context(), author, parseViewport(r), override)
	writeJSONCached(w, r, page)
}

// GetImage returns one image resolved for the caller's viewport.
func (h *Handlers) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeJSONError(w, "invalid image id", http.StatusBadRequest)
		return
	}

	override, err := parseTier(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	img, err := h.catalog.GetImage(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		writeJSONError(w, "image not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("GetImage %d: %v", id, err)
		writeJSONError(w, "failed to load image", http.StatusInternalServerError)
		return
	}

	resolver := h.gallery.Resolver()
	tier := resolver.Tier(parseViewport(r), override)
	writeJSONCached(w, r, resolver.Item(img.Row, tier))
}

// GetLayout returns the grid cell budget for the caller's screen.
func (h *Handlers) GetLayout(w http.ResponseWriter, r *http.Request) {
	vp := parseViewport(r)
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, layout.ComputeFor(vp, h.tabletThreshold))
}

// GetDetailHeader returns the detail-screen header geometry.
func (h *Handlers) GetDetailHeader(w http.ResponseWriter, r *http.Request) {
	vp := parseViewport(r)
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, layout.ComputeDetailHeader(vp.Width, vp.Height, h.tabletThreshold))
}

// GetFolder resolves an author name to its CDN folder.
func (h *Handlers) GetFolder(w http.ResponseWriter, r *http.Request) {
	author := strings.TrimSpace(r.URL.Query().Get("author"))
	if author == "" {
		writeJSONError(w, "author is required", http.StatusBadRequest)
		return
	}

	folder, rule := h.gallery.Resolver().Normalizer.Resolve(author)
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, FolderResponse{Author: author, Folder: folder, Rule: rule})
}
