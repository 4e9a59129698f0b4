package layout

import "math"

// Fixed gallery cell heights in density-independent pixels.
const (
	MobileItemHeight = 420
	TabletItemHeight = 640

	HeaderHeight = 56 // photographer row
	TitleHeight  = 32
	FooterHeight = 44 // action bar

	// DefaultTabletThreshold is the device width at which tablet sizing
	// starts.
	DefaultTabletThreshold = 768

	// MaxDeviceHeight caps the device height used in row and header math.
	MaxDeviceHeight = 100000
)

// Detail header sizing. The fade overlay covers the bottom third.
const (
	mobileDetailHeaderRatio = 0.55
	tabletDetailHeaderRatio = 0.6
	minDetailHeaderHeight   = 200
)

// Metrics are the host's current viewport characteristics.
type Metrics struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	PixelDensity float64 `json:"pixelDensity"`
}

// Budget holds the reserved heights of one gallery cell. ItemHeight always
// equals HeaderHeight + TitleHeight + ImageHeight + FooterHeight.
type Budget struct {
	ItemHeight   int  `json:"itemHeight"`
	ImageHeight  int  `json:"imageHeight"`
	HeaderHeight int  `json:"headerHeight"`
	TitleHeight  int  `json:"titleHeight"`
	FooterHeight int  `json:"footerHeight"`
	Tablet       bool `json:"tablet"`
	// VisibleRows is how many cells fit in the device height, rounded up.
	VisibleRows int `json:"visibleRows"`
}

// Reserved returns the non-image part of the cell.
func (b Budget) Reserved() int {
	return b.HeaderHeight + b.TitleHeight + b.FooterHeight
}

// IsTablet reports whether deviceWidth reaches the tablet threshold. A
// threshold that is not positive means DefaultTabletThreshold.
func IsTablet(deviceWidth, tabletThreshold float64) bool {
	if tabletThreshold <= 0 {
		tabletThreshold = DefaultTabletThreshold
	}
	return deviceWidth >= tabletThreshold
}

// Compute returns the gallery cell budget for a device. The image height is
// whatever remains after the fixed reservations.
func Compute(deviceWidth, deviceHeight, tabletThreshold float64) Budget {
	tablet := IsTablet(deviceWidth, tabletThreshold)
	item := MobileItemHeight
	if tablet {
		item = TabletItemHeight
	}

	b := Budget{
		ItemHeight:   item,
		HeaderHeight: HeaderHeight,
		TitleHeight:  TitleHeight,
		FooterHeight: FooterHeight,
		Tablet:       tablet,
	}
	b.ImageHeight = max(item-b.Reserved(), 0)
	if deviceHeight > 0 {
		deviceHeight = min(deviceHeight, MaxDeviceHeight)
		b.VisibleRows = int(math.Ceil(deviceHeight / float64(item)))
	}
	return b
}

// ComputeFor is Compute over a Metrics value.
func ComputeFor(m Metrics, tabletThreshold float64) Budget {
	return Compute(m.Width, m.Height, tabletThreshold)
}

// DetailHeader sizes the hero image on a photographer detail screen.
type DetailHeader struct {
	Height     int  `json:"height"`
	FadeStart  int  `json:"fadeStart"`
	FadeHeight int  `json:"fadeHeight"`
	Tablet     bool `json:"tablet"`
}

// ComputeDetailHeader derives the header height from the device height and
// starts the fade overlay at the two-thirds boundary.
func ComputeDetailHeader(deviceWidth, deviceHeight, tabletThreshold float64) DetailHeader {
	tablet := IsTablet(deviceWidth, tabletThreshold)
	ratio := mobileDetailHeaderRatio
	if tablet {
		ratio = tabletDetailHeaderRatio
	}

	height := minDetailHeaderHeight
	if deviceHeight > 0 {
		deviceHeight = min(deviceHeight, MaxDeviceHeight)
		height = max(int(math.Round(deviceHeight*ratio)), minDetailHeaderHeight)
	}

	fadeStart := height * 2 / 3
	return DetailHeader{
		Height:     height,
		FadeStart:  fadeStart,
		FadeHeight: height - fadeStart,
		Tablet:     tablet,
	}
}
