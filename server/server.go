package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tplfvg/tariffe/alerts"
	"github.com/tplfvg/tariffe/config"
	"github.com/tplfvg/tariffe/selection"
	"github.com/tplfvg/tariffe/stops"
	"github.com/tplfvg/tariffe/tariff"
)

// Deps are the collaborators the HTTP API serves from.
type Deps struct {
	Registry   *tariff.Registry
	Selections selection.Store
	// Alerts is optional.
	Alerts *alerts.Monitor
	Config config.AppConfig
	// Coordinates overrides the stop positions taken from Config.
	Coordinates stops.Coordinates
}

// Server is the fare lookup HTTP API.
type Server struct {
	registry   *tariff.Registry
	selections selection.Store
	alerts     *alerts.Monitor
	cfg        config.AppConfig
	coords     stops.Coordinates

	httpServer *http.Server
}

func New(deps Deps) *Server {
	store := deps.Selections
	if store == nil {
		store = selection.NewMemoryStore()
	}
	coords := deps.Coordinates
	if coords == nil {
		coords = deps.Config.Coordinates()
	}
	return &Server{
		registry:   deps.Registry,
		selections: store,
		alerts:     deps.Alerts,
		cfg:        deps.Config,
		coords:     coords,
	}
}

// Routes builds the gin engine with every API route registered.
func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(Logging(), Recovery())

	api := r.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/lines", s.handleLines)
	api.GET("/lines/:line/stops", s.handleStops)
	api.GET("/lines/:line/nearest", s.handleNearest)
	api.GET("/lines/:line/alerts", s.handleAlerts)
	api.GET("/price", s.handlePrice)
	api.POST("/selection", s.handleNewSelection)
	api.GET("/selection/:client", s.handleGetSelection)
	api.PUT("/selection/:client", s.handlePutSelection)
	api.DELETE("/selection/:client", s.handleDeleteSelection)
	api.POST("/reload", s.handleReload)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// Start listens in the background on the configured port.
func (s *Server) Start() {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       msOr(s.cfg.Server.ReadTimeoutMS, 10*time.Second),
		WriteTimeout:      msOr(s.cfg.Server.WriteTimeoutMS, 30*time.Second),
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on %s", addr)
}

// HandleGracefulShutdown blocks until SIGINT, SIGTERM or ctx is done, then
// shuts the server down.
func (s *Server) HandleGracefulShutdown(ctx context.Context) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	select {
	case <-sigs:
		log.Printf("shutdown signal received")
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown error: %v", err)
		} else {
			log.Printf("server shut down successfully")
		}
	}
}

func msOr(ms int, def time.Duration) time.Duration {
	if ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}
