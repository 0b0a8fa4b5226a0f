package domain

// Status is the operating state reported for a facility.
type Status string

const (
	StatusOperational Status = "operational"
	StatusWarning     Status = "warning"
	StatusCritical    Status = "critical"
)

// Known reports whether s is one of the defined statuses.
func (s Status) Known() bool {
	switch s {
	case StatusOperational, StatusWarning, StatusCritical:
		return true
	}
	return false
}

// Facility is a monitored industrial site.
type Facility struct {
	ID      string  `yaml:"id" json:"id"`
	Name    string  `yaml:"name" json:"name"`
	Area    string  `yaml:"area" json:"area"`
	Lat     float64 `yaml:"lat" json:"lat"`
	Lng     float64 `yaml:"lng" json:"lng"`
	Status  Status  `yaml:"status" json:"status"`
	Zeolite Zeolite `yaml:"zeolite" json:"zeolite"`
}

// Zeolite is the filter bed health of a facility.
type Zeolite struct {
	Remaining  int `yaml:"remaining" json:"remaining"`
	Days       int `yaml:"days" json:"days"`
	Absorption int `yaml:"absorption" json:"absorption"`
}

// LatLng is a geographic coordinate in degrees.
type LatLng struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lng float64 `yaml:"lng" json:"lng"`
}
