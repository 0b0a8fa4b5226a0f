package ports

// Metric names shared by the stream, the map engine and the HTTP shell.
const (
	SamplesGenerated  = "ecoguard_samples_generated_total"
	SinkErrors        = "ecoguard_sink_errors_total"
	Reconciles        = "ecoguard_reconcile_total"
	InvalidGeometry   = "ecoguard_invalid_geometry_total"
	SelectionChanges  = "ecoguard_selection_changes_total"
	WSDropped         = "ecoguard_ws_dropped_total"
	WindowLength      = "ecoguard_window_length"
	MarkersRendered   = "ecoguard_markers_rendered"
	WSClients         = "ecoguard_ws_clients"
	TickLatency       = "ecoguard_tick_latency_seconds"
	ReconcileDuration = "ecoguard_reconcile_duration_seconds"
)
