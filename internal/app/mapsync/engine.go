// Package mapsync keeps one persistent map surface in step with a declarative
// facility list. Reconcile is the only way markers change; the surface itself
// is never handed out.
package mapsync

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ghalamif/EcoGuard/internal/domain"
	"github.com/ghalamif/EcoGuard/internal/ports"
)

// ErrNotMounted is returned by Reconcile before Mount or after Unmount.
var ErrNotMounted = errors.New("mapsync: surface not mounted")

// Marker styling.
const (
	RadiusDefault  = 6
	RadiusSelected = 10
	StrokeColor    = "#ffffff"
	StrokeWeight   = 3
)

// Status fill colors.
const (
	ColorEmerald = "#10b981"
	ColorAmber   = "#f59e0b"
	ColorRose    = "#f43f5e"
	ColorSlate   = "#94a3b8"
)

// StatusColor maps a status to its marker fill. Unknown statuses get slate.
func StatusColor(s domain.Status) string {
	switch s {
	case domain.StatusOperational:
		return ColorEmerald
	case domain.StatusWarning:
		return ColorAmber
	case domain.StatusCritical:
		return ColorRose
	default:
		return ColorSlate
	}
}

// Engine owns a single surface and its marker layer group. It is not safe for
// concurrent use; callers serialize Mount, Reconcile and Unmount.
type Engine struct {
	factory ports.SurfaceFactory
	tiles   domain.TileLayer
	obs     ports.Observability

	surface ports.Surface
	markers ports.LayerGroup
	center  domain.LatLng
}

// NewEngine prepares an unmounted engine. The tile layer is attached on Mount.
func NewEngine(factory ports.SurfaceFactory, tiles domain.TileLayer, obs ports.Observability) *Engine {
	if obs == nil {
		obs = ports.NopObservability{}
	}
	return &Engine{factory: factory, tiles: tiles, obs: obs}
}

// Mounted reports whether the engine currently holds a surface.
func (e *Engine) Mounted() bool { return e.surface != nil }

// Mount creates the surface once. Calling it while mounted does nothing.
func (e *Engine) Mount(host string, center domain.LatLng, zoom int) error {
	if e.surface != nil {
		return nil
	}
	if e.factory == nil {
		return fmt.Errorf("mapsync: surface factory is nil")
	}

	surface, err := e.factory.NewSurface(host, domain.View{Center: center, Zoom: zoom})
	if err != nil {
		return fmt.Errorf("mapsync: create surface: %w", err)
	}
	if err := surface.AddTileLayer(e.tiles); err != nil {
		_ = surface.Remove()
		return fmt.Errorf("mapsync: add tile layer: %w", err)
	}
	group, err := surface.AddLayerGroup()
	if err != nil {
		_ = surface.Remove()
		return fmt.Errorf("mapsync: add marker layer: %w", err)
	}

	e.surface = surface
	e.markers = group
	e.center = center
	e.obs.LogInfo("map_mounted",
		ports.Field{Key: "host", Value: host},
		ports.Field{Key: "zoom", Value: zoom})
	return nil
}

// Reconcile redraws every marker from facilities. The facility whose ID equals
// selectedID is enlarged and its tooltip pinned open. Clicking a marker calls
// onSelect with that facility's ID. The camera is left untouched.
func (e *Engine) Reconcile(facilities []domain.Facility, selectedID string, onSelect func(id string)) error {
	if e.surface == nil {
		return ErrNotMounted
	}
	start := time.Now()

	e.markers.ClearLayers()

	seen := make(map[string]struct{}, len(facilities))
	for _, f := range facilities {
		if _, dup := seen[f.ID]; dup {
			e.obs.LogError("duplicate_facility_id", fmt.Errorf("id %q already rendered", f.ID))
			continue
		}
		seen[f.ID] = struct{}{}

		if err := e.place(f, f.ID == selectedID, onSelect); err != nil {
			e.obs.LogError("marker_add_failed", err, ports.Field{Key: "facility", Value: f.ID})
		}
	}
	e.markers.Commit()

	rendered := e.markers.Len()
	e.obs.IncCounter(ports.Reconciles, 1)
	e.obs.SetGauge(ports.MarkersRendered, float64(rendered))
	e.obs.ObserveLatency(ports.ReconcileDuration, time.Since(start).Seconds())
	return nil
}

func (e *Engine) place(f domain.Facility, selected bool, onSelect func(id string)) error {
	pos, degraded := e.sanitize(f.Lat, f.Lng)
	if degraded {
		e.obs.IncCounter(ports.InvalidGeometry, 1)
		e.obs.LogError("invalid_geometry", fmt.Errorf("lat=%v lng=%v", f.Lat, f.Lng),
			ports.Field{Key: "facility", Value: f.ID})
	}

	radius := RadiusDefault
	if selected {
		radius = RadiusSelected
	}

	m, err := e.markers.AddCircleMarker(domain.CircleMarker{
		Key:         f.ID,
		Center:      pos,
		Radius:      radius,
		FillColor:   StatusColor(f.Status),
		Color:       StrokeColor,
		Weight:      StrokeWeight,
		Opacity:     1,
		FillOpacity: 1,
		Degraded:    degraded,
	})
	if err != nil {
		return err
	}

	m.BindTooltip(domain.Tooltip{
		Title:     f.Name,
		Subtitle:  f.Area,
		Permanent: selected,
		Direction: "top",
		Offset:    domain.Point{X: 0, Y: -12},
		Opacity:   1,
	})
	if selected {
		m.OpenTooltip()
	}

	id := f.ID
	m.OnClick(func() {
		if onSelect != nil {
			onSelect(id)
		}
	})
	return nil
}

// sanitize keeps a facility on the map whatever its coordinates: non-finite
// values fall back to the mount center, out-of-range values are clamped.
func (e *Engine) sanitize(lat, lng float64) (domain.LatLng, bool) {
	degraded := false
	if math.IsNaN(lat) || math.IsInf(lat, 0) {
		lat, degraded = e.center.Lat, true
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) {
		lng, degraded = e.center.Lng, true
	}
	if lat < -90 || lat > 90 {
		lat, degraded = math.Max(-90, math.Min(90, lat)), true
	}
	if lng < -180 || lng > 180 {
		lng, degraded = math.Max(-180, math.Min(180, lng)), true
	}
	return domain.LatLng{Lat: lat, Lng: lng}, degraded
}

// Unmount removes the surface with all its markers and handlers. Calling it
// while unmounted does nothing.
func (e *Engine) Unmount() error {
	if e.surface == nil {
		return nil
	}
	surface := e.surface
	e.surface = nil
	e.markers = nil

	if err := surface.Remove(); err != nil {
		return fmt.Errorf("mapsync: remove surface: %w", err)
	}
	e.obs.LogInfo("map_unmounted")
	return nil
}
