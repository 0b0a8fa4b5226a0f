package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ghalamif/EcoGuard/internal/adapters/scene"
	"github.com/ghalamif/EcoGuard/internal/app/dashboard"
	"github.com/ghalamif/EcoGuard/internal/domain"
	"github.com/ghalamif/EcoGuard/internal/ports"
)

// Dashboard is the application state the shell exposes.
type Dashboard interface {
	Facilities() []domain.Facility
	Selected() string
	Select(id string) error
	Latest() domain.Sample
	Window() []domain.Sample
	Views() dashboard.Views
}

// Surfaces resolves the map surface currently mounted.
type Surfaces interface {
	Current() (*scene.Surface, bool)
}

type Server struct {
	router  *gin.Engine
	dash    Dashboard
	maps    Surfaces
	hub     *Hub
	metrics http.Handler
	obs     ports.Observability
}

// NewServer builds the router. metrics may be nil to leave /metrics out.
func NewServer(dash Dashboard, maps Surfaces, hub *Hub, metrics http.Handler, obs ports.Observability) *Server {
	if obs == nil {
		obs = ports.NopObservability{}
	}
	if hub == nil {
		hub = NewHub(16, obs)
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLog(obs))

	s := &Server{router: r, dash: dash, maps: maps, hub: hub, metrics: metrics, obs: obs}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/healthz", s.health)
	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics))
	}

	api := s.router.Group("/api")
	{
		api.GET("/facilities", s.facilities)
		api.GET("/selection", s.selection)
		api.POST("/selection", s.selectFacility)

		api.GET("/map", s.mapFeatures)
		api.GET("/map/view", s.mapView)
		api.POST("/map/markers/:id/click", s.clickMarker)

		api.GET("/telemetry/latest", s.latest)
		api.GET("/telemetry/window", s.window)

		api.GET("/views", s.views)
	}

	s.router.GET("/ws/telemetry", s.hub.handle)
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Hub() *Hub { return s.hub }

// Run serves on addr until ctx is cancelled, then drains within five seconds.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.obs.LogInfo("http_listening", ports.Field{Key: "addr", Value: addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	// Hijacked websocket connections are not tracked by Shutdown.
	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func requestLog(obs ports.Observability) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		obs.LogInfo("http_request",
			ports.Field{Key: "method", Value: c.Request.Method},
			ports.Field{Key: "path", Value: c.FullPath()},
			ports.Field{Key: "status", Value: c.Writer.Status()},
			ports.Field{Key: "latency", Value: time.Since(start)})
	}
}
