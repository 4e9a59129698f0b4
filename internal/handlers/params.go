package handlers

import (
	"math"
	"net/http"
	"strconv"

	"mosaic-gallery/internal/layout"
	"mosaic-gallery/internal/sizetier"
)

// queryFloat returns the named query value, or def when it is missing,
// unparsable or not finite.
func queryFloat(r *http.Request, name string, def float64) float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// parseViewport reads vw, vh and dpr. Bad values fall back to 0 for the
// dimensions and 1 for the density.
func parseViewport(r *http.Request) layout.Metrics {
	vp := layout.Metrics{
		Width:        queryFloat(r, "vw", 0),
		Height:       queryFloat(r, "vh", 0),
		PixelDensity: queryFloat(r, "dpr", 1),
	}
	if vp.PixelDensity <= 0 {
		vp.PixelDensity = 1
	}
	return vp
}

// parseTier reads the optional tier override. An empty value means no
// override.
func parseTier(r *http.Request) (sizetier.Tier, error) {
	raw := r.URL.Query().Get("tier")
	if raw == "" {
		return "", nil
	}
	return sizetier.Parse(raw)
}
