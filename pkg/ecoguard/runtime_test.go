package ecoguard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ghalamif/EcoGuard/internal/adapters/clock"
	"github.com/ghalamif/EcoGuard/internal/adapters/scene"
)

var epoch = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func TestNewRuntimeRequiresConfig(t *testing.T) {
	if _, err := NewRuntime(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
	cfg := DefaultConfig()
	cfg.Stream.Capacity = -1
	if _, err := NewRuntime(cfg); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestNewRuntimeWiresOverrides(t *testing.T) {
	obsStub := &stubObservability{}
	rt, err := NewRuntime(DefaultConfig(),
		WithObservability(obsStub),
		WithSurfaceFactory(scene.NewFactory()),
		WithoutHTTP(),
	)
	if err != nil {
		t.Fatalf("NewRuntime returned error: %v", err)
	}
	if rt.obs != obsStub {
		t.Fatalf("expected custom observability to be used")
	}
	if rt.scenes != nil {
		t.Fatalf("expected no built-in scene with a custom surface factory")
	}
	if rt.listen {
		t.Fatalf("expected HTTP listener to be disabled")
	}
}

func TestRuntimeStreamsToSinksAndViews(t *testing.T) {
	clk := clock.NewManual(epoch)
	var (
		mu  sync.Mutex
		got []Sample
	)
	rt, err := NewRuntime(DefaultConfig(),
		WithClock(clk),
		WithoutHTTP(),
		WithObservability(&stubObservability{}),
		WithSink(NewCallbackSink("collect", func(s Sample) error {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, s)
			return nil
		})),
	)
	if err != nil {
		t.Fatalf("NewRuntime returned error: %v", err)
	}
	if err := rt.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := rt.Start(); err == nil {
		t.Fatalf("expected second Start to fail")
	}

	for i := 0; i < 4; i++ {
		if clk.Tick() != 1 {
			t.Fatalf("tick %d not delivered", i+1)
		}
	}

	if err := rt.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown returned error: %v", err)
	}

	mu.Lock()
	n := len(got)
	mu.Unlock()
	if n != 4 {
		t.Fatalf("expected 4 samples at the sink, got %d", n)
	}
	if rt.Latest().Seq != 4 {
		t.Fatalf("expected latest seq 4, got %d", rt.Latest().Seq)
	}
	if len(rt.Views().Trend) != 4 {
		t.Fatalf("expected 4 trend points, got %d", len(rt.Views().Trend))
	}
	if s, ok := rt.Scene(); ok || s != nil {
		t.Fatalf("expected surface to be removed after shutdown")
	}
}

func TestRuntimeSelectRedrawsScene(t *testing.T) {
	rt, err := NewRuntime(DefaultConfig(), WithClock(clock.NewManual(epoch)), WithoutHTTP())
	if err != nil {
		t.Fatalf("NewRuntime returned error: %v", err)
	}
	if err := rt.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer rt.Shutdown(context.Background())

	if err := rt.Select("tiruvottiyur"); err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	surface, ok := rt.Scene()
	if !ok {
		t.Fatalf("expected mounted scene")
	}
	for _, m := range surface.Markers() {
		if (m.Key == "tiruvottiyur") != m.TooltipOpen {
			t.Fatalf("marker %s tooltip open=%v", m.Key, m.TooltipOpen)
		}
	}
	if rt.Selected() != "tiruvottiyur" {
		t.Fatalf("expected selection to stick, got %s", rt.Selected())
	}
}

func TestRuntimeHandlerServesInProcess(t *testing.T) {
	rt, err := NewRuntime(DefaultConfig(), WithClock(clock.NewManual(epoch)), WithoutHTTP())
	if err != nil {
		t.Fatalf("NewRuntime returned error: %v", err)
	}
	if err := rt.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	defer rt.Shutdown(context.Background())

	w := httptest.NewRecorder()
	rt.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/selection", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["id"] != "manali" {
		t.Fatalf("expected manali, got %q", body["id"])
	}

	w = httptest.NewRecorder()
	rt.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(w.Body.String(), "ecoguard_reconcile_total 1") {
		t.Fatalf("expected reconcile counter in metrics output")
	}
}

func TestRuntimeRunStopsOnCancel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HTTP.Addr = "127.0.0.1:0"
	rt, err := NewRuntime(cfg, WithClock(clock.NewManual(epoch)), WithObservability(&stubObservability{}))
	if err != nil {
		t.Fatalf("NewRuntime returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rt.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

type stubObservability struct{}

func (s *stubObservability) LogInfo(string, ...Field)            {}
func (s *stubObservability) LogError(string, error, ...Field)    {}
func (s *stubObservability) LogCritical(string, error, ...Field) {}
func (s *stubObservability) IncCounter(string, float64)          {}
func (s *stubObservability) ObserveLatency(string, float64)      {}
func (s *stubObservability) SetGauge(string, float64)            {}
