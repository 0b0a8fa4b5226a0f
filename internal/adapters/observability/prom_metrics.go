package observability

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ghalamif/EcoGuard/internal/ports"
)

// PromObs exports the ports metric set on its own registry.
type PromObs struct {
	reg      *prometheus.Registry
	logger   *log.Logger
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

// NewPromObs registers the dashboard metrics on reg. A nil reg gets a fresh
// registry so several runtimes can live in one process.
func NewPromObs(reg *prometheus.Registry) *PromObs {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: help})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
	}

	generated := counter(ports.SamplesGenerated, "Telemetry samples generated by the stream.")
	sinkErrs := counter(ports.SinkErrors, "Samples a sink failed to accept.")
	reconciles := counter(ports.Reconciles, "Map reconciliations performed.")
	invalid := counter(ports.InvalidGeometry, "Facilities rendered with clamped or replaced coordinates.")
	selections := counter(ports.SelectionChanges, "Facility selection changes.")
	dropped := counter(ports.WSDropped, "Samples dropped for slow websocket clients.")

	windowLen := gauge(ports.WindowLength, "Samples currently retained in the rolling window.")
	markers := gauge(ports.MarkersRendered, "Markers on the map surface after the last reconcile.")
	clients := gauge(ports.WSClients, "Connected websocket telemetry clients.")

	tick := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    ports.TickLatency,
		Help:    "Time spent generating and publishing one sample.",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	})
	reconcile := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    ports.ReconcileDuration,
		Help:    "Time spent redrawing the marker layer.",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	})

	reg.MustRegister(
		generated, sinkErrs, reconciles, invalid, selections, dropped,
		windowLen, markers, clients, tick, reconcile,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &PromObs{
		reg:    reg,
		logger: log.Default(),
		counters: map[string]prometheus.Counter{
			ports.SamplesGenerated: generated,
			ports.SinkErrors:       sinkErrs,
			ports.Reconciles:       reconciles,
			ports.InvalidGeometry:  invalid,
			ports.SelectionChanges: selections,
			ports.WSDropped:        dropped,
		},
		gauges: map[string]prometheus.Gauge{
			ports.WindowLength:    windowLen,
			ports.MarkersRendered: markers,
			ports.WSClients:       clients,
		},
		histos: map[string]prometheus.Observer{
			ports.TickLatency:       tick,
			ports.ReconcileDuration: reconcile,
		},
	}
}

// SetLogger redirects log output, e.g. to a file or io.Discard.
func (p *PromObs) SetLogger(l *log.Logger) {
	if l != nil {
		p.logger = l
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PromObs) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (p *PromObs) Registry() *prometheus.Registry { return p.reg }

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	p.logger.Printf("INFO: %s%s", msg, formatFields(fields))
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	if err != nil {
		p.logger.Printf("ERROR: %s: %v%s", msg, err, formatFields(fields))
	}
}

func (p *PromObs) LogCritical(msg string, err error, fields ...ports.Field) {
	if err != nil {
		p.logger.Printf("CRITICAL: %s: %v%s", msg, err, formatFields(fields))
	}
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func formatFields(fields []ports.Field) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	return b.String()
}

var _ ports.Observability = (*PromObs)(nil)
