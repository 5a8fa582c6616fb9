package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ledgerpos/backend/internal/infrastructure/logger"
	"github.com/ledgerpos/backend/internal/interfaces/http/dto"
)

const (
	// TenantIDKey is the gin context key holding the resolved tenant ID
	TenantIDKey = "tenant_id"
	// TenantIDHeader carries the tenant ID. It stands in for the identity
	// collaborator; authentication is out of scope for this service.
	TenantIDHeader = "X-Tenant-ID"
)

// TenantConfig configures the tenant resolution middleware
type TenantConfig struct {
	// SkipPaths lists path prefixes that do not require a tenant (health, tenant bootstrap)
	SkipPaths []string
}

// Tenant requires a valid X-Tenant-ID header on every request outside
// SkipPaths, stores the parsed UUID in the gin context and enriches the
// request logger with it.
func Tenant(cfg TenantConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, prefix := range cfg.SkipPaths {
			if len(c.Request.URL.Path) >= len(prefix) && c.Request.URL.Path[:len(prefix)] == prefix {
				c.Next()
				return
			}
		}

		raw := c.GetHeader(TenantIDHeader)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest, "Missing "+TenantIDHeader+" header", GetRequestID(c)))
			return
		}

		tenantID, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest, TenantIDHeader+" must be a UUID", GetRequestID(c)))
			return
		}

		c.Set(TenantIDKey, tenantID)
		ctx := c.Request.Context()
		ctx, _ = logger.WithTenantID(ctx, logger.FromContext(ctx), tenantID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetTenantID returns the tenant ID resolved by the Tenant middleware
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(TenantIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
