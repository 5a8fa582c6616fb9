package persistence

import (
	"strings"

	"github.com/ledgerpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// commonSortFields are the sort fields every record family carries
var commonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// validateSortField checks the requested sort field against a whitelist.
// Returns the defaultField when the request is empty or not whitelisted.
func validateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] || commonSortFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// validateSortOrder normalizes the sort order to ASC or DESC, defaulting to DESC
func validateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// applyFilter applies pagination and whitelisted ordering to a query.
// Ordering falls back to created_at DESC, which keeps listings stable for
// append-only record families.
func applyFilter(query *gorm.DB, filter shared.Filter, allowedFields map[string]bool) *gorm.DB {
	if filter.Paginated() {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	field := validateSortField(filter.OrderBy, allowedFields, "created_at")
	query = query.Order(field + " " + validateSortOrder(filter.OrderDir))

	return query
}
