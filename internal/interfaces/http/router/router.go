// Package router assembles the gin engine with its middleware chain and
// registers the API routes.
package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/ledgerpos/backend/internal/infrastructure/logger"
	"github.com/ledgerpos/backend/internal/interfaces/http/middleware"
)

// Registrar registers a group of routes on the API group
type Registrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Config controls router assembly
type Config struct {
	// ServiceName names the service in HTTP spans
	ServiceName string
	// APIVersion is the version segment of the base path, e.g. "v1"
	APIVersion string
	// MaxBodyBytes caps request body size; zero disables the limit
	MaxBodyBytes int64
	// TracingEnabled attaches the otelgin middleware
	TracingEnabled bool
	// TenantSkipPaths lists paths served without a tenant header
	TenantSkipPaths []string
}

// DefaultConfig returns the default router configuration
func DefaultConfig() Config {
	return Config{
		ServiceName:  "ledgerpos-backend",
		APIVersion:   "v1",
		MaxBodyBytes: 1 << 20,
		TenantSkipPaths: []string{
			"/api/v1/health",
			"/api/v1/system",
			"/api/v1/tenants",
		},
	}
}

// New assembles a gin engine. Middleware order matters: the request ID must
// exist before logging, and the tenant must be resolved before any handler runs.
func New(log *zap.Logger, cfg Config, registrars ...Registrar) *gin.Engine {
	if cfg.APIVersion == "" {
		cfg.APIVersion = "v1"
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	if cfg.TracingEnabled {
		engine.Use(otelgin.Middleware(cfg.ServiceName))
	}
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	if cfg.MaxBodyBytes > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	}
	engine.Use(middleware.Tenant(middleware.TenantConfig{SkipPaths: cfg.TenantSkipPaths}))

	api := engine.Group("/api/" + cfg.APIVersion)
	for _, registrar := range registrars {
		registrar.RegisterRoutes(api)
	}

	return engine
}
