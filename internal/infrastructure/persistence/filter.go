package persistence

import (
	"fmt"
	"strings"

	"github.com/forwardops/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// sortableColumns guards ORDER BY input; anything else falls back to created_at
var sortableColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"date":       true,
	"sequence":   true,
	"amount":     true,
}

// applySearch adds a case-insensitive LIKE over the given columns
func applySearch(query *gorm.DB, search string, columns ...string) *gorm.DB {
	if search == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + strings.ToLower(search) + "%"
	clauses := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		clauses[i] = fmt.Sprintf("LOWER(%s) LIKE ?", col)
		args[i] = pattern
	}
	return query.Where(strings.Join(clauses, " OR "), args...)
}

// applyPagination adds ordering, offset and limit from the filter
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := filter.OrderBy
	if !sortableColumns[orderBy] {
		orderBy = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		dir = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	return query.
		Order(fmt.Sprintf("%s %s", orderBy, dir)).
		Offset((page - 1) * pageSize).
		Limit(pageSize)
}
