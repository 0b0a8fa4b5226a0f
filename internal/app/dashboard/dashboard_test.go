package dashboard

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghalamif/EcoGuard/internal/adapters/clock"
	"github.com/ghalamif/EcoGuard/internal/adapters/scene"
	"github.com/ghalamif/EcoGuard/internal/adapters/window"
	"github.com/ghalamif/EcoGuard/internal/app/config"
	"github.com/ghalamif/EcoGuard/internal/app/mapsync"
	"github.com/ghalamif/EcoGuard/internal/app/telemetry"
	"github.com/ghalamif/EcoGuard/internal/domain"
	"github.com/ghalamif/EcoGuard/internal/ports"
)

type fixture struct {
	dash    *Dashboard
	factory *scene.Factory
	clk     *clock.Manual
	obs     *countingObs
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	cfg := config.Default()
	obs := &countingObs{}
	factory := scene.NewFactory()
	clk := clock.NewManual(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))

	engine := mapsync.NewEngine(factory, cfg.Map.TileLayer(), obs)
	lowest := ports.GeneratorFunc(func(channels []domain.Channel) map[string]float64 {
		out := make(map[string]float64, len(channels))
		for _, ch := range channels {
			out[ch.Name] = ch.Min
		}
		return out
	})
	stream := telemetry.New(window.NewRing(cfg.Stream.Capacity), lowest, clk, cfg.Stream.Channels,
		telemetry.WithObservability(obs))

	d := New(cfg, engine, stream, obs)
	t.Cleanup(func() { _ = d.Close() })
	return fixture{dash: d, factory: factory, clk: clk, obs: obs}
}

func (f fixture) surface(t *testing.T) *scene.Surface {
	t.Helper()
	s, ok := f.factory.Current()
	require.True(t, ok, "no mounted surface")
	return s
}

func radii(s *scene.Surface) map[string]int {
	out := map[string]int{}
	for _, m := range s.Markers() {
		out[m.Key] = m.Radius
	}
	return out
}

func TestMountRendersCatalogWithSelection(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.dash.Mount())

	s := f.surface(t)
	r := radii(s)
	assert.Len(t, r, 8)
	assert.Equal(t, mapsync.RadiusSelected, r["manali"])
	assert.Equal(t, mapsync.RadiusDefault, r["ennore"])
}

func TestMarkerClickChangesSelection(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.dash.Mount())
	s := f.surface(t)

	require.NoError(t, s.Click("guindy"))

	assert.Equal(t, "guindy", f.dash.Selected())
	r := radii(s)
	assert.Equal(t, mapsync.RadiusSelected, r["guindy"])
	assert.Equal(t, mapsync.RadiusDefault, r["manali"])
	assert.Len(t, f.factory.Surfaces(), 1, "click must not recreate the surface")
	assert.Equal(t, 1.0, f.obs.count(ports.SelectionChanges))

	kpi := f.dash.Views().KPI
	assert.Equal(t, "guindy", kpi.FacilityID)
	assert.Equal(t, MaintenanceNotice, kpi.Notice)
}

func TestSelectUnknownFacility(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.dash.Mount())

	err := f.dash.Select("atlantis")
	require.ErrorIs(t, err, ErrUnknownFacility)
	assert.Equal(t, "manali", f.dash.Selected())
}

func TestSelectSameFacilityIsNoop(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.dash.Mount())

	require.NoError(t, f.dash.Select("manali"))
	assert.Equal(t, 0.0, f.obs.count(ports.SelectionChanges))
}

func TestSelectBeforeMountDefersRender(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.dash.Select("ennore"))
	require.NoError(t, f.dash.Mount())

	assert.Equal(t, mapsync.RadiusSelected, radii(f.surface(t))["ennore"])
}

func TestSetFacilitiesRedraws(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.dash.Mount())

	require.NoError(t, f.dash.SetFacilities(nil))
	assert.Empty(t, f.surface(t).Markers())

	require.NoError(t, f.dash.SetFacilities(config.ChennaiFacilities()[:2]))
	assert.Len(t, f.surface(t).Markers(), 2)
}

func TestStartFeedsViewsAndCloseTearsDown(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.dash.Start())

	for i := 0; i < 3; i++ {
		require.Equal(t, 1, f.clk.Tick())
	}

	s := f.surface(t)
	require.NoError(t, f.dash.Close())
	assert.True(t, s.Removed())
	assert.Equal(t, 0, f.clk.Active())
	require.NoError(t, f.dash.Close())

	views := f.dash.Views()
	assert.Len(t, views.Trend, 3)
	assert.Equal(t, 100.0, views.Intake[0].Value)
	assert.Equal(t, 5.0, views.Output[0].Value)
}

// countingObs records counter increments.
type countingObs struct {
	ports.NopObservability
	mu       sync.Mutex
	counters map[string]float64
}

func (c *countingObs) IncCounter(name string, v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counters == nil {
		c.counters = map[string]float64{}
	}
	c.counters[name] += v
}

func (c *countingObs) count(name string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counters[name]
}

func TestViewsBeforeFirstTickShowClock(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.dash.Mount())

	v := f.dash.Views()
	assert.Equal(t, "10:00:00", v.Time)
	assert.Equal(t, uint64(0), f.dash.Latest().Seq)
}
