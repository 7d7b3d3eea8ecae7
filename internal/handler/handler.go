package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maxviazov/clients-service/internal/config"
	"github.com/maxviazov/clients-service/internal/metrics"
	"github.com/maxviazov/clients-service/internal/service"
)

// Register mounts all public routes on the given engine.
func Register(r *gin.Engine, store Pinger, clients service.ClientService, logger zerolog.Logger) {
	h := NewHealthHandler(store, logger)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)
	health := r.Group("/health")
	{
		health.GET("/live", h.Liveness)
		health.GET("/ready", h.Readiness)
	}

	NewClientHandler(clients).Register(r)
}

// RouterDeps carries what NewRouter wires. Metrics may be nil.
type RouterDeps struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Store   Pinger
	Clients service.ClientService
	Metrics *metrics.Metrics
}

// NewRouter builds the engine with the middleware chain and every route.
func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Recovery(d.Logger), AccessLog(d.Logger))

	cfg := d.Config
	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(CORS(cfg.CORS))
	}
	if d.Metrics != nil && cfg.Metrics.Enabled {
		r.Use(d.Metrics.Middleware())
		r.GET(cfg.Metrics.Path, gin.WrapH(d.Metrics.Handler()))
	}
	if cfg.Docs.Enabled {
		RegisterDocs(r)
	}

	Register(r, d.Store, d.Clients, d.Logger)
	return r
}
