package catalog

// Orientation describes the aspect of an image.
type Orientation string

const (
	// Portrait is taller than wide.
	Portrait Orientation = "portrait"
	// Landscape is wider than tall.
	Landscape Orientation = "landscape"
	// Square has equal sides.
	Square Orientation = "square"
)

// OrientationFor derives the orientation from pixel dimensions. Unknown
// dimensions yield "".
func OrientationFor(width, height int) Orientation {
	switch {
	case width <= 0 || height <= 0:
		return ""
	case height > width:
		return Portrait
	case width > height:
		return Landscape
	default:
		return Square
	}
}

// Row is one catalog image as returned by a query.
type Row struct {
	ID          int64       `json:"id"`
	Filename    string      `json:"filename"`
	BaseURL     string      `json:"baseUrl"`
	Width       int         `json:"width"`
	Height      int         `json:"height,omitempty"`
	Orientation Orientation `json:"orientation"`
	Author      string      `json:"author"`
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Year        *int        `json:"year,omitempty"`
	Nudity      bool        `json:"nudity"`
}
