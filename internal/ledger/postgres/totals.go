package postgres

import (
	"github.com/haingladys/jsdc-accounting/internal/ledger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type totalsRow struct {
	Count int64
	Total decimal.Decimal
	GST   decimal.Decimal
}

// SumTotals counts and sums the rows of db's model between start and end.
// gstColumn may be empty for tables without GST.
func SumTotals(db *gorm.DB, start, end, amountColumn, gstColumn string) (ledger.Totals, error) {
	gst := "0"
	if gstColumn != "" {
		gst = "COALESCE(SUM(" + gstColumn + "), 0)"
	}
	if start != "" {
		db = db.Where("date >= ?", start)
	}
	if end != "" {
		db = db.Where("date <= ?", end)
	}

	var row totalsRow
	err := db.Select("COUNT(*) AS count, COALESCE(SUM(" + amountColumn + "), 0) AS total, " + gst + " AS gst").
		Scan(&row).Error
	if err != nil {
		return ledger.Totals{}, err
	}
	return ledger.Totals{Count: row.Count, Total: row.Total.Round(2), GST: row.GST.Round(2)}, nil
}
