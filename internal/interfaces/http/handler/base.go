// Package handler contains the gin HTTP handlers. Handlers stay thin: they
// bind and validate wire DTOs, call an application service and translate the
// outcome into the response envelope.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ledgerpos/backend/internal/domain/shared"
	"github.com/ledgerpos/backend/internal/interfaces/http/dto"
	"github.com/ledgerpos/backend/internal/interfaces/http/middleware"
)

// IdempotencyKeyHeader carries the client-chosen key that makes a write
// retry-safe
const IdempotencyKeyHeader = "Idempotency-Key"

// BaseHandler provides common response utilities for all handlers
type BaseHandler struct{}

// tenantID returns the tenant resolved by the tenant middleware. The
// middleware rejects requests without one, so a miss here is a routing bug.
func (h *BaseHandler) tenantID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetTenantID(c)
	if !ok {
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "Tenant not resolved for this route")
	}
	return id, ok
}

// actor identifies who performed the operation for the audit trail. It stands
// in for the identity collaborator; the header is required on write routes.
func (h *BaseHandler) actor(c *gin.Context) (string, bool) {
	actor := c.GetHeader("X-Actor")
	if actor == "" {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Missing X-Actor header")
		return "", false
	}
	return actor, true
}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a 200 response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with an explicit status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// DomainError translates an application error into the response envelope,
// deriving the status code from the error's domain code.
func (h *BaseHandler) DomainError(c *gin.Context, err error) {
	code, message := dto.FromError(err)
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// bindFilter converts list query parameters into a repository filter
func bindFilter(c *gin.Context) (shared.Filter, bool) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeValidation, err.Error(), middleware.GetRequestID(c)))
		return shared.Filter{}, false
	}

	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	filter.Search = req.Search
	return filter, true
}

// bindID parses the :id path parameter as a UUID
func bindID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeValidation, "id must be a UUID", middleware.GetRequestID(c)))
		return uuid.Nil, false
	}
	return uuid.MustParse(req.ID), true
}
