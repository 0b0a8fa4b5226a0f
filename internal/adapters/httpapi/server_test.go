package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghalamif/EcoGuard/internal/adapters/clock"
	"github.com/ghalamif/EcoGuard/internal/adapters/generator"
	"github.com/ghalamif/EcoGuard/internal/adapters/observability"
	"github.com/ghalamif/EcoGuard/internal/adapters/scene"
	"github.com/ghalamif/EcoGuard/internal/adapters/window"
	"github.com/ghalamif/EcoGuard/internal/app/config"
	"github.com/ghalamif/EcoGuard/internal/app/dashboard"
	"github.com/ghalamif/EcoGuard/internal/app/mapsync"
	"github.com/ghalamif/EcoGuard/internal/app/telemetry"
	"github.com/ghalamif/EcoGuard/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	srv  *Server
	dash *dashboard.Dashboard
	clk  *clock.Manual
}

func newHarness(t *testing.T, mount bool) harness {
	t.Helper()
	cfg := config.Default()
	obs := observability.NewPromObs(nil)
	factory := scene.NewFactory()
	clk := clock.NewManual(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))

	hub := NewHub(4, obs)
	stream := telemetry.New(window.NewRing(cfg.Stream.Capacity), generator.NewUniform(cfg.Stream.Seed), clk, cfg.Stream.Channels,
		telemetry.WithObservability(obs),
		telemetry.WithSink(hub))
	dash := dashboard.New(cfg, mapsync.NewEngine(factory, cfg.Map.TileLayer(), obs), stream, obs)
	if mount {
		require.NoError(t, dash.Start())
	}
	t.Cleanup(func() {
		hub.Close()
		_ = dash.Close()
	})

	return harness{
		srv:  NewServer(dash, factory, hub, obs.Handler(), obs),
		dash: dash,
		clk:  clk,
	}
}

func (h harness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	h := newHarness(t, true)
	w := h.do(t, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"map_mounted":true`)
}

func TestFacilitiesAndSelection(t *testing.T) {
	h := newHarness(t, true)

	w := h.do(t, http.MethodGet, "/api/facilities", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var facilities []domain.Facility
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &facilities))
	assert.Len(t, facilities, 8)

	w = h.do(t, http.MethodPost, "/api/selection", SelectRequest{ID: "ennore"})
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(t, http.MethodGet, "/api/selection", nil)
	assert.JSONEq(t, `{"id":"ennore"}`, w.Body.String())
}

func TestSelectionErrors(t *testing.T) {
	h := newHarness(t, true)

	w := h.do(t, http.MethodPost, "/api/selection", SelectRequest{ID: "atlantis"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/selection", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, "manali", h.dash.Selected())
}

func TestMarkerClickSelectsAndRedraws(t *testing.T) {
	h := newHarness(t, true)

	w := h.do(t, http.MethodPost, "/api/map/markers/guindy/click", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"guindy"}`, w.Body.String())

	w = h.do(t, http.MethodGet, "/api/map", nil)
	require.Equal(t, http.StatusOK, w.Code)
	fc, err := geojson.UnmarshalFeatureCollection(w.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, fc.Features, 8)

	for _, f := range fc.Features {
		want := float64(mapsync.RadiusDefault)
		if f.ID == "guindy" {
			want = float64(mapsync.RadiusSelected)
			assert.Equal(t, mapsync.ColorRose, f.Properties["fill_color"])
			assert.Equal(t, true, f.Properties["permanent"])
		}
		assert.Equal(t, want, f.Properties["radius"], "feature %v", f.ID)
	}

	w = h.do(t, http.MethodPost, "/api/map/markers/nowhere/click", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMapViewKeepsCamera(t *testing.T) {
	h := newHarness(t, true)
	h.do(t, http.MethodPost, "/api/selection", SelectRequest{ID: "perungudi"})

	w := h.do(t, http.MethodGet, "/api/map/view", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp MapViewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "map", resp.Host)
	assert.Equal(t, 11, resp.View.Zoom)
	assert.Equal(t, 13.0827, resp.View.Center.Lat)
	require.Len(t, resp.TileLayers, 1)
	assert.Equal(t, "abcd", resp.TileLayers[0].Subdomains)
	assert.Len(t, resp.Markers, 8)
}

func TestMapUnavailableBeforeMount(t *testing.T) {
	h := newHarness(t, false)

	assert.Equal(t, http.StatusServiceUnavailable, h.do(t, http.MethodGet, "/api/map", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, h.do(t, http.MethodGet, "/api/map/view", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, h.do(t, http.MethodPost, "/api/map/markers/manali/click", nil).Code)
}

func TestTelemetryEndpoints(t *testing.T) {
	h := newHarness(t, true)

	var latest domain.Sample
	w := h.do(t, http.MethodGet, "/api/telemetry/latest", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &latest))
	assert.Equal(t, uint64(0), latest.Seq)
	assert.Equal(t, 125.0, latest.Values[domain.InputSO2])

	require.Equal(t, 1, h.clk.Tick())
	require.Equal(t, 1, h.clk.Tick())

	require.Eventually(t, func() bool {
		w := h.do(t, http.MethodGet, "/api/telemetry/latest", nil)
		return json.Unmarshal(w.Body.Bytes(), &latest) == nil && latest.Seq == 2
	}, 2*time.Second, 10*time.Millisecond)

	var window []domain.Sample
	w = h.do(t, http.MethodGet, "/api/telemetry/window", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &window))
	require.Len(t, window, 2)
	assert.Equal(t, uint64(1), window[0].Seq)
}

func TestViewsEndpoint(t *testing.T) {
	h := newHarness(t, true)
	h.do(t, http.MethodPost, "/api/selection", SelectRequest{ID: "guindy"})

	var views dashboard.Views
	w := h.do(t, http.MethodGet, "/api/views", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))

	assert.Equal(t, "guindy", views.KPI.FacilityID)
	assert.Equal(t, dashboard.MaintenanceNotice, views.KPI.Notice)
	assert.Len(t, views.Regions, 8)
	assert.Len(t, views.Intake, 4)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t, true)
	h.do(t, http.MethodPost, "/api/selection", SelectRequest{ID: "ennore"})

	w := h.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "ecoguard_reconcile_total 2")
	assert.Contains(t, body, "ecoguard_selection_changes_total 1")
	assert.Contains(t, body, "ecoguard_markers_rendered 8")
}

func TestWebsocketReceivesSamples(t *testing.T) {
	h := newHarness(t, true)
	ts := httptest.NewServer(h.srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/telemetry"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return h.srv.Hub().Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.Equal(t, 1, h.clk.Tick())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var s domain.Sample
	require.NoError(t, json.Unmarshal(raw, &s))
	assert.Equal(t, uint64(1), s.Seq)
	assert.Len(t, s.Values, 10)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return h.srv.Hub().Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}
