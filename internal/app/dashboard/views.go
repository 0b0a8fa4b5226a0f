package dashboard

import (
	"fmt"

	"github.com/ghalamif/EcoGuard/internal/app/mapsync"
	"github.com/ghalamif/EcoGuard/internal/domain"
)

// Chart palette.
const (
	ColorRose    = mapsync.ColorRose
	ColorOrange  = "#f97316"
	ColorYellow  = "#eab308"
	ColorEmerald = mapsync.ColorEmerald
	ColorAmber   = mapsync.ColorAmber
	ColorBlue    = "#3b82f6"
)

// Efficiency is the total reduction shown on the efficiency card.
const Efficiency = 87.4

// AQIImpact is the air quality change shown for every facility.
const AQIImpact = "-87%"

const MaintenanceNotice = "Requires immediate maintenance check."

type Bar struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

type TrendPoint struct {
	Time      string  `json:"time"`
	InputSO2  float64 `json:"input_so2"`
	OutputSO2 float64 `json:"output_so2"`
}

// KPI is the card row for the selected facility.
type KPI struct {
	FacilityID   string        `json:"facility_id"`
	FacilityName string        `json:"facility_name"`
	Status       domain.Status `json:"status"`
	Health       int           `json:"zeolite_health"`
	HealthColor  string        `json:"zeolite_health_color"`
	Days         int           `json:"days_to_replacement"`
	Absorption   int           `json:"absorption"`
	Efficiency   float64       `json:"efficiency"`
	Notice       string        `json:"notice,omitempty"`
}

type RegionRow struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Area          string        `json:"area"`
	Status        domain.Status `json:"status"`
	Capacity      int           `json:"zeolite_capacity"`
	CapacityColor string        `json:"zeolite_capacity_color"`
	Absorption    string        `json:"absorption"`
	AQIImpact     string        `json:"aqi_impact"`
	Selected      bool          `json:"selected"`
}

type Views struct {
	Time    string       `json:"time"`
	Intake  []Bar        `json:"intake"`
	Output  []Bar        `json:"output"`
	AirMix  []Bar        `json:"air_mix"`
	Trend   []TrendPoint `json:"trend"`
	KPI     KPI          `json:"kpi"`
	Regions []RegionRow  `json:"regions"`
}

// BuildViews derives every dashboard view. Channels missing from latest fall
// back to the default profile values.
func BuildViews(latest domain.Sample, window []domain.Sample, catalog []domain.Facility, selected string) Views {
	def := defaults()
	v := func(ch string) float64 { return latest.Value(ch, def[ch]) }

	views := Views{
		Time: latest.Time,
		Intake: []Bar{
			{Name: "SO₂", Value: v(domain.InputSO2), Color: ColorRose},
			{Name: "NOx", Value: v(domain.InputNOx), Color: ColorOrange},
			{Name: "VOC", Value: v(domain.InputVOC), Color: ColorYellow},
			{Name: "CO", Value: v(domain.InputCO), Color: ColorRose},
		},
		Output: []Bar{
			{Name: "SO₂", Value: v(domain.OutputSO2), Color: ColorEmerald},
			{Name: "NOx", Value: v(domain.OutputNOx), Color: ColorEmerald},
			{Name: "VOC", Value: v(domain.OutputVOC), Color: ColorEmerald},
			{Name: "CO", Value: v(domain.OutputCO), Color: ColorEmerald},
		},
		AirMix: []Bar{
			{Name: "Oxygen (O₂)", Value: v(domain.CleanO2), Color: ColorEmerald},
			{Name: "Nitrogen (N₂)", Value: v(domain.CleanN2), Color: ColorBlue},
		},
		Trend:   make([]TrendPoint, 0, len(window)),
		Regions: make([]RegionRow, 0, len(catalog)),
	}

	for _, s := range window {
		views.Trend = append(views.Trend, TrendPoint{
			Time:      s.Time,
			InputSO2:  s.Value(domain.InputSO2, def[domain.InputSO2]),
			OutputSO2: s.Value(domain.OutputSO2, def[domain.OutputSO2]),
		})
	}

	views.KPI = buildKPI(catalog, selected)

	for _, f := range catalog {
		views.Regions = append(views.Regions, RegionRow{
			ID:            f.ID,
			Name:          f.Name,
			Area:          f.Area,
			Status:        f.Status,
			Capacity:      f.Zeolite.Remaining,
			CapacityColor: CapacityColor(f.Zeolite.Remaining),
			Absorption:    fmt.Sprintf("%d mg/hr", f.Zeolite.Absorption),
			AQIImpact:     AQIImpact,
			Selected:      f.ID == selected,
		})
	}
	return views
}

// CapacityColor bands the remaining zeolite capacity for the overview table.
func CapacityColor(remaining int) string {
	switch {
	case remaining > 50:
		return ColorEmerald
	case remaining > 25:
		return ColorAmber
	default:
		return ColorRose
	}
}

// HealthColor is the progress bar color on the zeolite health card.
func HealthColor(remaining int) string {
	if remaining > 50 {
		return ColorBlue
	}
	return ColorRose
}

// buildKPI falls back to the first catalog entry when selected is unknown.
func buildKPI(catalog []domain.Facility, selected string) KPI {
	if len(catalog) == 0 {
		return KPI{FacilityID: selected, Efficiency: Efficiency}
	}
	f := catalog[0]
	for _, c := range catalog {
		if c.ID == selected {
			f = c
			break
		}
	}

	kpi := KPI{
		FacilityID:   f.ID,
		FacilityName: f.Name,
		Status:       f.Status,
		Health:       f.Zeolite.Remaining,
		HealthColor:  HealthColor(f.Zeolite.Remaining),
		Days:         f.Zeolite.Days,
		Absorption:   f.Zeolite.Absorption,
		Efficiency:   Efficiency,
	}
	if f.Status == domain.StatusCritical {
		kpi.Notice = MaintenanceNotice
	}
	return kpi
}

func defaults() map[string]float64 {
	channels := domain.DefaultChannels()
	out := make(map[string]float64, len(channels))
	for _, ch := range channels {
		out[ch.Name] = ch.Default
	}
	return out
}
