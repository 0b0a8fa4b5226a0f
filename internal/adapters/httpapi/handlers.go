package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ghalamif/EcoGuard/internal/adapters/scene"
	"github.com/ghalamif/EcoGuard/internal/app/dashboard"
	"github.com/ghalamif/EcoGuard/internal/domain"
)

type SelectRequest struct {
	ID string `json:"id" binding:"required"`
}

type MapViewResponse struct {
	Host       string              `json:"host"`
	View       domain.View         `json:"view"`
	TileLayers []domain.TileLayer  `json:"tile_layers"`
	Markers    []scene.MarkerState `json:"markers"`
}

func (s *Server) health(c *gin.Context) {
	_, mounted := s.maps.Current()
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "map_mounted": mounted})
}

func (s *Server) facilities(c *gin.Context) {
	c.JSON(http.StatusOK, s.dash.Facilities())
}

func (s *Server) selection(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"id": s.dash.Selected()})
}

func (s *Server) selectFacility(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := s.dash.Select(req.ID); err != nil {
		s.selectError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": s.dash.Selected()})
}

func (s *Server) mapFeatures(c *gin.Context) {
	surface, ok := s.maps.Current()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "map not mounted"})
		return
	}
	raw, err := surface.GeoJSON().MarshalJSON()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/geo+json", raw)
}

func (s *Server) mapView(c *gin.Context) {
	surface, ok := s.maps.Current()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "map not mounted"})
		return
	}
	c.JSON(http.StatusOK, MapViewResponse{
		Host:       surface.Host(),
		View:       surface.View(),
		TileLayers: surface.TileLayers(),
		Markers:    surface.Markers(),
	})
}

// clickMarker routes a click through the surface so the marker's own handler
// performs the selection, the same path a pointer click takes.
func (s *Server) clickMarker(c *gin.Context) {
	surface, ok := s.maps.Current()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "map not mounted"})
		return
	}
	if err := surface.Click(c.Param("id")); err != nil {
		switch {
		case errors.Is(err, scene.ErrNoMarker):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, scene.ErrRemoved):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": s.dash.Selected()})
}

func (s *Server) latest(c *gin.Context) {
	c.JSON(http.StatusOK, s.dash.Latest())
}

func (s *Server) window(c *gin.Context) {
	c.JSON(http.StatusOK, s.dash.Window())
}

func (s *Server) views(c *gin.Context) {
	c.JSON(http.StatusOK, s.dash.Views())
}

func (s *Server) selectError(c *gin.Context, err error) {
	if errors.Is(err, dashboard.ErrUnknownFacility) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	s.obs.LogError("select_failed", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
