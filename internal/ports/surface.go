package ports

import "github.com/ghalamif/EcoGuard/internal/domain"

// SurfaceFactory binds a new map surface to a host element.
type SurfaceFactory interface {
	NewSurface(host string, view domain.View) (Surface, error)
}

// Surface is a stateful map rendering surface. Only the map sync engine may
// hold one.
type Surface interface {
	AddTileLayer(layer domain.TileLayer) error
	AddLayerGroup() (LayerGroup, error)
	// Remove destroys the surface and every layer, marker and handler on it.
	Remove() error
}

// LayerGroup is a container of markers on a surface. ClearLayers opens a
// redraw: the current markers stay visible until Commit replaces them with
// everything added since, in one step.
type LayerGroup interface {
	ClearLayers()
	AddCircleMarker(opts domain.CircleMarker) (Marker, error)
	Commit()
	Len() int
}

// Marker is one rendered circle marker.
type Marker interface {
	BindTooltip(t domain.Tooltip)
	OpenTooltip()
	OnClick(fn func())
}
