package sizetier

import (
	"fmt"
	"math"
	"strings"
)

// Tier is a named image-size bucket used to select a CDN subdirectory.
type Tier string

const (
	// W400 is the smallest rendition, also used for thumbnails.
	W400 Tier = "w400"
	// W600 is the 600px wide rendition.
	W600 Tier = "w600"
	// W800 is the 800px wide rendition.
	W800 Tier = "w800"
	// W1200 is the 1200px wide rendition.
	W1200 Tier = "w1200"
	// W1600 is the largest resized rendition.
	W1600 Tier = "w1600"
	// Originals holds the source files with their original extension.
	Originals Tier = "originals"
	// OriginalsWebP holds full-size renditions in the optimized format.
	OriginalsWebP Tier = "originalsWEBP"
)

// All lists every tier in ascending order.
var All = []Tier{W400, W600, W800, W1200, W1600, Originals, OriginalsWebP}

// breakpoint is an exclusive upper bound on effective width for a tier.
type breakpoint struct {
	below float64
	tier  Tier
}

// breakpoints is checked in order; the first match wins.
var breakpoints = []breakpoint{
	{below: 500, tier: W400},
	{below: 700, tier: W600},
	{below: 900, tier: W800},
	{below: 1300, tier: W1200},
}

// widths holds the pixel width each resized tier is rendered at.
var widths = map[Tier]int{
	W400:  400,
	W600:  600,
	W800:  800,
	W1200: 1200,
	W1600: 1600,
}

// EffectiveWidth returns viewportWidth scaled by pixelDensity. A density
// that is not positive is treated as 1.
func EffectiveWidth(viewportWidth, pixelDensity float64) float64 {
	if pixelDensity <= 0 || math.IsNaN(pixelDensity) {
		pixelDensity = 1
	}
	return viewportWidth * pixelDensity
}

// Resolve maps an effective width to a tier. It never fails: widths that are
// zero, negative or NaN land in W400 and anything at or above 1300 is W1600.
func Resolve(effectiveWidth float64) Tier {
	if math.IsNaN(effectiveWidth) {
		return W400
	}
	for _, bp := range breakpoints {
		if effectiveWidth < bp.below {
			return bp.tier
		}
	}
	return W1600
}

// ResolveWithOverride returns override when it is set, and Resolve otherwise.
func ResolveWithOverride(effectiveWidth float64, override Tier) Tier {
	if override != "" {
		return override
	}
	return Resolve(effectiveWidth)
}

// Parse converts a tier name to a Tier. Matching is case-insensitive except
// that the canonical spelling is always returned.
func Parse(s string) (Tier, error) {
	s = strings.TrimSpace(s)
	for _, t := range All {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown size tier %q", s)
}

// IsOriginal reports whether t keeps the source file's extension.
func (t Tier) IsOriginal() bool {
	return t == Originals
}

// IsFullSize reports whether t is rendered at the source width.
func (t Tier) IsFullSize() bool {
	return t == Originals || t == OriginalsWebP
}

// Width returns the rendition width in pixels for resized tiers. Full-size
// tiers return 0.
func (t Tier) Width() int {
	return widths[t]
}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	for _, known := range All {
		if t == known {
			return true
		}
	}
	return false
}

func (t Tier) String() string {
	return string(t)
}
