package domain

// Point is a screen offset in pixels.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// CircleMarker is the style and placement of one facility marker.
type CircleMarker struct {
	Key         string  `json:"key"`
	Center      LatLng  `json:"center"`
	Radius      int     `json:"radius"`
	FillColor   string  `json:"fill_color"`
	Color       string  `json:"color"`
	Weight      int     `json:"weight"`
	Opacity     float64 `json:"opacity"`
	FillOpacity float64 `json:"fill_opacity"`
	// Degraded marks a marker whose coordinate was replaced or clamped.
	Degraded bool `json:"degraded,omitempty"`
}

// Tooltip is the label bound to a marker.
type Tooltip struct {
	Title     string  `json:"title"`
	Subtitle  string  `json:"subtitle"`
	Permanent bool    `json:"permanent"`
	Direction string  `json:"direction"`
	Offset    Point   `json:"offset"`
	Opacity   float64 `json:"opacity"`
}

// TileLayer is the background raster layer of a map surface.
type TileLayer struct {
	URL        string `json:"url"`
	MaxZoom    int    `json:"max_zoom"`
	Subdomains string `json:"subdomains"`
}

// View is the user-controlled camera of a map surface.
type View struct {
	Center LatLng `json:"center"`
	Zoom   int    `json:"zoom"`
}
