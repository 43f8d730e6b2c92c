package postgres

import (
	"strings"

	"github.com/haingladys/jsdc-accounting/internal/ledger"
	"gorm.io/gorm"
)

// ApplyFilter adds the filter's date range, category, status and search
// conditions. categoryColumn may be empty for tables without one.
func ApplyFilter(db *gorm.DB, f ledger.Filter, categoryColumn string, searchColumns ...string) *gorm.DB {
	if f.Start != "" {
		db = db.Where("date >= ?", f.Start)
	}
	if f.End != "" {
		db = db.Where("date <= ?", f.End)
	}
	if f.Category != "" && categoryColumn != "" {
		db = db.Where("LOWER("+categoryColumn+") = ?", strings.ToLower(f.Category))
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if search := strings.TrimSpace(f.Search); search != "" && len(searchColumns) > 0 {
		pattern := "%" + strings.ToLower(search) + "%"
		conditions := make([]string, len(searchColumns))
		args := make([]interface{}, len(searchColumns))
		for i, column := range searchColumns {
			conditions[i] = "LOWER(" + column + ") LIKE ?"
			args[i] = pattern
		}
		db = db.Where("("+strings.Join(conditions, " OR ")+")", args...)
	}
	if f.Limit > 0 {
		db = db.Limit(f.Limit)
	}
	if f.Offset > 0 {
		db = db.Offset(f.Offset)
	}
	return db.Order("date DESC").Order("created_at DESC")
}
