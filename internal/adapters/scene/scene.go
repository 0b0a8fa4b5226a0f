// Package scene is a headless, retained-mode map surface. It keeps the full
// layer/marker/tooltip graph in memory so the HTTP shell can serve it and
// tests can inspect and click it.
package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/ghalamif/EcoGuard/internal/domain"
	"github.com/ghalamif/EcoGuard/internal/ports"
)

var (
	// ErrRemoved is returned by any mutation on a removed surface.
	ErrRemoved = errors.New("scene: surface removed")
	// ErrNoMarker is returned by Click when no marker carries the key.
	ErrNoMarker = errors.New("scene: no such marker")
)

// Factory creates surfaces and remembers them for inspection.
type Factory struct {
	mu       sync.Mutex
	surfaces []*Surface
}

func NewFactory() *Factory { return &Factory{} }

func (f *Factory) NewSurface(host string, view domain.View) (ports.Surface, error) {
	if host == "" {
		return nil, fmt.Errorf("scene: host element is required")
	}
	s := &Surface{host: host, view: view}
	f.mu.Lock()
	f.surfaces = append(f.surfaces, s)
	f.mu.Unlock()
	return s, nil
}

// Surfaces returns every surface created so far, removed ones included.
func (f *Factory) Surfaces() []*Surface {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Surface(nil), f.surfaces...)
}

// Current returns the most recent surface that has not been removed.
func (f *Factory) Current() (*Surface, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.surfaces) - 1; i >= 0; i-- {
		if !f.surfaces[i].Removed() {
			return f.surfaces[i], true
		}
	}
	return nil, false
}

// Surface is one in-memory map.
type Surface struct {
	mu      sync.Mutex
	host    string
	view    domain.View
	tiles   []domain.TileLayer
	groups  []*layerGroup
	removed bool
}

func (s *Surface) AddTileLayer(layer domain.TileLayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removed {
		return ErrRemoved
	}
	s.tiles = append(s.tiles, layer)
	return nil
}

func (s *Surface) AddLayerGroup() (ports.LayerGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removed {
		return nil, ErrRemoved
	}
	g := &layerGroup{surface: s}
	s.groups = append(s.groups, g)
	return g, nil
}

func (s *Surface) Remove() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removed {
		return ErrRemoved
	}
	for _, g := range s.groups {
		for _, m := range append(g.markers, g.next...) {
			m.onClick = nil
		}
		g.markers, g.next = nil, nil
		g.drawing = false
	}
	s.groups = nil
	s.tiles = nil
	s.removed = true
	return nil
}

func (s *Surface) Host() string { return s.host }

func (s *Surface) Removed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removed
}

// View returns the camera. Only user navigation (SetView) changes it.
func (s *Surface) View() domain.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// SetView models the user panning or zooming.
func (s *Surface) SetView(v domain.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
}

func (s *Surface) TileLayers() []domain.TileLayer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.TileLayer(nil), s.tiles...)
}

// LayerGroups returns the number of attached layer groups.
func (s *Surface) LayerGroups() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.groups)
}

// MarkerState is a read-only copy of one rendered marker.
type MarkerState struct {
	domain.CircleMarker
	Tooltip     domain.Tooltip `json:"tooltip"`
	HasTooltip  bool           `json:"has_tooltip"`
	TooltipOpen bool           `json:"tooltip_open"`
	Clickable   bool           `json:"clickable"`
}

// Markers lists every marker across all layer groups in insertion order.
func (s *Surface) Markers() []MarkerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []MarkerState
	for _, g := range s.groups {
		for _, m := range g.markers {
			out = append(out, m.state())
		}
	}
	return out
}

// Click fires the click handler of the first marker with key. The handler runs
// without the surface lock held so it may redraw the surface.
func (s *Surface) Click(key string) error {
	s.mu.Lock()
	if s.removed {
		s.mu.Unlock()
		return ErrRemoved
	}
	var handler func()
	found := false
	for _, g := range s.groups {
		for _, m := range g.markers {
			if m.opts.Key == key {
				handler, found = m.onClick, true
				break
			}
		}
		if found {
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return fmt.Errorf("%w: %q", ErrNoMarker, key)
	}
	if handler != nil {
		handler()
	}
	return nil
}

// GeoJSON renders the markers as a FeatureCollection of points.
func (s *Surface) GeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, m := range s.Markers() {
		f := geojson.NewFeature(orb.Point{m.Center.Lng, m.Center.Lat})
		f.ID = m.Key
		f.Properties["radius"] = m.Radius
		f.Properties["fill_color"] = m.FillColor
		f.Properties["color"] = m.Color
		f.Properties["weight"] = m.Weight
		f.Properties["degraded"] = m.Degraded
		if m.HasTooltip {
			f.Properties["title"] = m.Tooltip.Title
			f.Properties["subtitle"] = m.Tooltip.Subtitle
			f.Properties["permanent"] = m.Tooltip.Permanent
			f.Properties["tooltip_open"] = m.TooltipOpen
		}
		fc.Append(f)
	}
	return fc
}

type layerGroup struct {
	surface *Surface
	markers []*marker

	// next collects a redraw between ClearLayers and Commit
	next    []*marker
	drawing bool
}

func (g *layerGroup) ClearLayers() {
	g.surface.mu.Lock()
	defer g.surface.mu.Unlock()
	g.next = nil
	g.drawing = true
}

func (g *layerGroup) AddCircleMarker(opts domain.CircleMarker) (ports.Marker, error) {
	g.surface.mu.Lock()
	defer g.surface.mu.Unlock()
	if g.surface.removed {
		return nil, ErrRemoved
	}
	m := &marker{surface: g.surface, opts: opts}
	if g.drawing {
		g.next = append(g.next, m)
	} else {
		g.markers = append(g.markers, m)
	}
	return m, nil
}

// Commit swaps the pending redraw in and detaches the old handlers.
func (g *layerGroup) Commit() {
	g.surface.mu.Lock()
	defer g.surface.mu.Unlock()
	if !g.drawing {
		return
	}
	for _, m := range g.markers {
		m.onClick = nil
	}
	g.markers, g.next = g.next, nil
	g.drawing = false
}

// Len counts the visible markers.
func (g *layerGroup) Len() int {
	g.surface.mu.Lock()
	defer g.surface.mu.Unlock()
	return len(g.markers)
}

type marker struct {
	surface     *Surface
	opts        domain.CircleMarker
	tooltip     domain.Tooltip
	hasTooltip  bool
	tooltipOpen bool
	onClick     func()
}

func (m *marker) BindTooltip(t domain.Tooltip) {
	m.surface.mu.Lock()
	defer m.surface.mu.Unlock()
	m.tooltip = t
	m.hasTooltip = true
}

func (m *marker) OpenTooltip() {
	m.surface.mu.Lock()
	defer m.surface.mu.Unlock()
	if m.hasTooltip {
		m.tooltipOpen = true
	}
}

func (m *marker) OnClick(fn func()) {
	m.surface.mu.Lock()
	defer m.surface.mu.Unlock()
	m.onClick = fn
}

func (m *marker) state() MarkerState {
	return MarkerState{
		CircleMarker: m.opts,
		Tooltip:      m.tooltip,
		HasTooltip:   m.hasTooltip,
		TooltipOpen:  m.tooltipOpen,
		Clickable:    m.onClick != nil,
	}
}

var (
	_ ports.SurfaceFactory = (*Factory)(nil)
	_ ports.Surface        = (*Surface)(nil)
	_ ports.LayerGroup     = (*layerGroup)(nil)
	_ ports.Marker         = (*marker)(nil)
)
