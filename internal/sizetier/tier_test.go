package sizetier

import (
	"math"
	"testing"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		width float64
		want  Tier
	}{
		{"negative width", -20, W400},
		{"zero width", 0, W400},
		{"small phone", 320, W400},
		{"just below 500", 499.99, W400},
		{"exactly 500", 500, W600},
		{"mid w600", 640, W600},
		{"exactly 700", 700, W800},
		{"just below 900", 899, W800},
		{"exactly 900", 900, W1200},
		{"end-to-end example", 1000, W1200},
		{"just below 1300", 1299.5, W1200},
		{"exactly 1300", 1300, W1600},
		{"large tablet", 2732, W1600},
		{"infinite", math.Inf(1), W1600},
		{"not a number", math.NaN(), W400},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Resolve(tt.width); got != tt.want {
				t.Errorf("Resolve(%v) = %s, want %s", tt.width, got, tt.want)
			}
		})
	}
}

func TestResolveRanges(t *testing.T) {
	t.Parallel()

	ranges := []struct {
		from, to float64
		want     Tier
	}{
		{0, 500, W400},
		{500, 700, W600},
		{700, 900, W800},
		{900, 1300, W1200},
		{1300, 4000, W1600},
	}

	for _, r := range ranges {
		for w := r.from; w < r.to; w += 0.5 {
			if got := Resolve(w); got != r.want {
				t.Fatalf("Resolve(%v) = %s, want %s", w, got, r.want)
			}
		}
	}
}

func TestResolveWithOverride(t *testing.T) {
	t.Parallel()

	if got := ResolveWithOverride(320, Originals); got != Originals {
		t.Errorf("override ignored: got %s", got)
	}
	if got := ResolveWithOverride(320, ""); got != W400 {
		t.Errorf("empty override should fall back to Resolve, got %s", got)
	}
}

func TestEffectiveWidth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		viewport, density, want float64
	}{
		{390, 3, 1170},
		{500, 2, 1000},
		{768, 1, 768},
		{400, 0, 400},
		{400, -2, 400},
		{400, math.NaN(), 400},
	}

	for _, tt := range tests {
		if got := EffectiveWidth(tt.viewport, tt.density); got != tt.want {
			t.Errorf("EffectiveWidth(%v, %v) = %v, want %v", tt.viewport, tt.density, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Tier
		wantErr bool
	}{
		{"w400", W400, false},
		{"W1600", W1600, false},
		{" originals ", Originals, false},
		{"originalswebp", OriginalsWebP, false},
		{"w1000", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestTierProperties(t *testing.T) {
	t.Parallel()

	for _, tier := range All {
		if !tier.Valid() {
			t.Errorf("%s should be valid", tier)
		}
		if tier.IsFullSize() != (tier.Width() == 0) {
			t.Errorf("%s: IsFullSize=%v but Width=%d", tier, tier.IsFullSize(), tier.Width())
		}
	}
	if !Originals.IsOriginal() || OriginalsWebP.IsOriginal() {
		t.Error("only Originals keeps the source extension")
	}
	if Tier("w999").Valid() {
		t.Error("w999 should not be valid")
	}
	if W800.Width() != 800 {
		t.Errorf("W800.Width() = %d", W800.Width())
	}
}
