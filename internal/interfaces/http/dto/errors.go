package dto

import (
	"errors"
	"net/http"

	"github.com/ledgerpos/backend/internal/domain/inventory"
	"github.com/ledgerpos/backend/internal/domain/partner"
	"github.com/ledgerpos/backend/internal/domain/shared"
)

// Error codes returned by the API. Domain error codes pass through unchanged;
// the codes below cover transport-level failures.
const (
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeConflict    = "CONCURRENCY_CONFLICT"
	ErrCodeUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeInternal    = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes. Validation-style
// domain codes (INVALID_*) default to 422 via GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeNotFound:         http.StatusNotFound,
	"ALREADY_EXISTS":        http.StatusConflict,
	ErrCodeConflict:         http.StatusConflict,
	"DUPLICATE_REQUEST":     http.StatusConflict,
	"CROSS_TENANT":          http.StatusNotFound,
	"TENANT_NOT_ACTIVE":     http.StatusForbidden,
	"INSUFFICIENT_STOCK":    http.StatusUnprocessableEntity,
	"CREDIT_LIMIT_EXCEEDED": http.StatusUnprocessableEntity,
	"OVER_RETURN":           http.StatusUnprocessableEntity,
	"INVALID_STATE":         http.StatusUnprocessableEntity,
	ErrCodeUnavailable:      http.StatusServiceUnavailable,
	ErrCodeInternal:         http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code. Unknown codes
// map to 422: every unmapped code comes from a domain validation rule.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}

// FromError translates an application or domain error into a wire error code
// and message. Infrastructure errors never leak their internals to the client.
func FromError(err error) (code string, message string) {
	var stockErr *inventory.InsufficientStockError
	if errors.As(err, &stockErr) {
		return stockErr.Code(), stockErr.Error()
	}
	var creditErr *partner.CreditLimitExceededError
	if errors.As(err, &creditErr) {
		return creditErr.Code(), creditErr.Error()
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code, domainErr.Message
	}
	var transientErr *shared.TransientError
	if errors.As(err, &transientErr) {
		if transientErr.CommitStateUnknown {
			return ErrCodeUnavailable, "Commit outcome unknown; retry with the same idempotency key"
		}
		return ErrCodeUnavailable, "Temporary failure; nothing was recorded, retry with the same idempotency key"
	}
	return ErrCodeInternal, "Internal server error"
}
