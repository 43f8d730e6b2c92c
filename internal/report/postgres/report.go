package postgres

import (
	"context"
	"fmt"

	"github.com/haingladys/jsdc-accounting/internal/ledger"
	"github.com/haingladys/jsdc-accounting/internal/report"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// ReportStore runs the aggregate queries over the shared connection pool.
type ReportStore struct {
	db *sqlx.DB
}

func NewReportStore(db *sqlx.DB) *ReportStore {
	return &ReportStore{db: db}
}

type totalsRow struct {
	Count int64           `db:"count"`
	Total decimal.Decimal `db:"total"`
	GST   decimal.Decimal `db:"gst"`
}

func (s *ReportStore) Totals(ctx context.Context, src report.Source, start, end string) (ledger.Totals, error) {
	gst := "0"
	if src.GSTColumn != "" {
		gst = fmt.Sprintf("COALESCE(SUM(%s), 0)", src.GSTColumn)
	}
	query := s.db.Rebind(fmt.Sprintf(
		`SELECT COUNT(*) AS count, COALESCE(SUM(%s), 0) AS total, %s AS gst
		FROM %s WHERE date >= ? AND date <= ?`,
		src.AmountColumn, gst, src.Table))

	var row totalsRow
	if err := s.db.GetContext(ctx, &row, query, start, end); err != nil {
		return ledger.Totals{}, fmt.Errorf("totals of %s: %w", src.Table, err)
	}
	return ledger.Totals{Count: row.Count, Total: row.Total.Round(2), GST: row.GST.Round(2)}, nil
}

func (s *ReportStore) ByCategory(ctx context.Context, src report.Source, start, end string) ([]report.CategoryTotal, error) {
	query := s.db.Rebind(fmt.Sprintf(
		`SELECT %[1]s AS category, COUNT(*) AS count, COALESCE(SUM(%[2]s), 0) AS total
		FROM %[3]s WHERE date >= ? AND date <= ?
		GROUP BY %[1]s ORDER BY total DESC, category ASC`,
		src.GroupColumn, src.AmountColumn, src.Table))

	rows := []report.CategoryTotal{}
	if err := s.db.SelectContext(ctx, &rows, query, start, end); err != nil {
		return nil, fmt.Errorf("%s by %s: %w", src.Table, src.GroupColumn, err)
	}
	for i := range rows {
		rows[i].Total = rows[i].Total.Round(2)
	}
	return rows, nil
}

// PayrollLines returns the payroll rows whose year*100+month lies in [from, to].
func (s *ReportStore) PayrollLines(ctx context.Context, from, to int) ([]report.PayrollLine, error) {
	query := s.db.Rebind(`SELECT id, name, month, year, basic_salary, spr_amount, advances, status,
		COALESCE(salary_date, '') AS salary_date
		FROM payroll_employees WHERE (year * 100 + month) BETWEEN ? AND ?
		ORDER BY year ASC, month ASC, name ASC`)

	lines := []report.PayrollLine{}
	if err := s.db.SelectContext(ctx, &lines, query, from, to); err != nil {
		return nil, fmt.Errorf("payroll lines: %w", err)
	}
	return lines, nil
}
