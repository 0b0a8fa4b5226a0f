package dashboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ghalamif/EcoGuard/internal/app/config"
	"github.com/ghalamif/EcoGuard/internal/app/mapsync"
	"github.com/ghalamif/EcoGuard/internal/app/telemetry"
	"github.com/ghalamif/EcoGuard/internal/domain"
	"github.com/ghalamif/EcoGuard/internal/ports"
)

var ErrUnknownFacility = errors.New("dashboard: unknown facility")

// Dashboard owns the facility catalog and the current selection, and drives
// one map engine and one telemetry stream from them. All map work goes
// through mu so reconciliations never overlap.
type Dashboard struct {
	cfg    *config.Config
	engine *mapsync.Engine
	stream *telemetry.Stream
	obs    ports.Observability

	mu       sync.Mutex
	catalog  []domain.Facility
	selected string
}

func New(cfg *config.Config, engine *mapsync.Engine, stream *telemetry.Stream, obs ports.Observability) *Dashboard {
	if obs == nil {
		obs = ports.NopObservability{}
	}
	catalog := make([]domain.Facility, len(cfg.Facilities))
	copy(catalog, cfg.Facilities)
	return &Dashboard{
		cfg:      cfg,
		engine:   engine,
		stream:   stream,
		obs:      obs,
		catalog:  catalog,
		selected: cfg.Selected,
	}
}

// Mount creates the map surface and renders the catalog once.
func (d *Dashboard) Mount() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	m := d.cfg.Map
	if err := d.engine.Mount(m.Host, m.Center, m.Zoom); err != nil {
		return fmt.Errorf("dashboard: mount map: %w", err)
	}
	return d.reconcileLocked()
}

// Start mounts the map if needed and begins telemetry generation.
func (d *Dashboard) Start() error {
	if err := d.Mount(); err != nil {
		return err
	}
	if err := d.stream.Start(d.cfg.Stream.Interval); err != nil {
		return fmt.Errorf("dashboard: start stream: %w", err)
	}
	d.obs.LogInfo("dashboard_started",
		ports.Field{Key: "facilities", Value: len(d.Facilities())},
		ports.Field{Key: "interval", Value: d.cfg.Stream.Interval})
	return nil
}

// Close stops the stream and tears the map down. Safe to call more than once.
func (d *Dashboard) Close() error {
	d.stream.Stop()

	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engine.Unmount()
}

// Select switches the highlighted facility and redraws the map.
func (d *Dashboard) Select(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.knownLocked(id) {
		return fmt.Errorf("%w: %q", ErrUnknownFacility, id)
	}
	if id == d.selected {
		return nil
	}
	prev := d.selected
	d.selected = id
	d.obs.IncCounter(ports.SelectionChanges, 1)
	d.obs.LogInfo("facility_selected",
		ports.Field{Key: "from", Value: prev},
		ports.Field{Key: "to", Value: id})

	if !d.engine.Mounted() {
		return nil
	}
	return d.reconcileLocked()
}

// SetFacilities replaces the catalog and redraws. The selection is kept even
// when the new catalog no longer contains it; no marker is enlarged then.
func (d *Dashboard) SetFacilities(facilities []domain.Facility) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.catalog = make([]domain.Facility, len(facilities))
	copy(d.catalog, facilities)
	if !d.engine.Mounted() {
		return nil
	}
	return d.reconcileLocked()
}

func (d *Dashboard) Selected() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selected
}

func (d *Dashboard) Facilities() []domain.Facility {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.Facility, len(d.catalog))
	copy(out, d.catalog)
	return out
}

func (d *Dashboard) Latest() domain.Sample   { return d.stream.Latest() }
func (d *Dashboard) Window() []domain.Sample { return d.stream.Window() }

// AddSink forwards every new sample to sink.
func (d *Dashboard) AddSink(sink ports.SampleSink) { d.stream.AddSink(sink) }

// Views computes the chart, card and table data for the current state.
func (d *Dashboard) Views() Views {
	catalog := d.Facilities()
	selected := d.Selected()
	return BuildViews(d.stream.Latest(), d.stream.Window(), catalog, selected)
}

func (d *Dashboard) knownLocked(id string) bool {
	for _, f := range d.catalog {
		if f.ID == id {
			return true
		}
	}
	return false
}

func (d *Dashboard) reconcileLocked() error {
	return d.engine.Reconcile(d.catalog, d.selected, d.onMarkerClick)
}

// onMarkerClick runs from the surface without any dashboard lock held.
func (d *Dashboard) onMarkerClick(id string) {
	if err := d.Select(id); err != nil {
		d.obs.LogError("marker_select_failed", err, ports.Field{Key: "facility", Value: id})
	}
}
