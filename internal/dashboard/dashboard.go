// Package dashboard assembles the chart series and headline numbers shown on
// the landing page.
package dashboard

import (
	"github.com/haingladys/jsdc-accounting/internal/attendance"
	"github.com/haingladys/jsdc-accounting/internal/ledger"
	"github.com/haingladys/jsdc-accounting/internal/payroll"
	"github.com/haingladys/jsdc-accounting/internal/period"
	"github.com/shopspring/decimal"
)

type LineChart struct {
	Labels    []string          `json:"labels"`
	Income    []decimal.Decimal `json:"income"`
	Expenses  []decimal.Decimal `json:"expenses"`
	Purchases []decimal.Decimal `json:"purchases"`
}

type Overview struct {
	Income   ledger.Totals `json:"income"`
	Expense  ledger.Totals `json:"expense"`
	Purchase ledger.Totals `json:"purchase"`
}

type ChartsResponse struct {
	Success       bool      `json:"success"`
	Error         string    `json:"error,omitempty"`
	PeriodType    string    `json:"period_type"`
	StartDate     string    `json:"start_date,omitempty"`
	EndDate       string    `json:"end_date,omitempty"`
	LineChart     LineChart `json:"line_chart"`
	MonthOverview Overview  `json:"month_overview"`
}

type Summary struct {
	Date       string                   `json:"date"`
	Month      string                   `json:"month"`
	Attendance *attendance.TodaySummary `json:"attendance"`
	Overview   Overview                 `json:"month_totals"`
	Payroll    payroll.Summary          `json:"payroll"`
	Profit     decimal.Decimal          `json:"profit"`
}

// Profit is income minus expenses minus purchases.
func Profit(income, expense, purchase decimal.Decimal) decimal.Decimal {
	return income.Sub(expense).Sub(purchase)
}

// buildLineChart aligns the three series on shared labels. Only when every
// series is all zero does the chart collapse to the "No Data" placeholder.
func buildLineChart(income, expenses, purchases []period.Bucket) LineChart {
	if period.AllZero(income) && period.AllZero(expenses) && period.AllZero(purchases) {
		return FallbackChart()
	}

	labels := make([]string, len(income))
	for i, b := range income {
		labels[i] = b.Label
	}
	return LineChart{
		Labels:    labels,
		Income:    period.Values(income),
		Expenses:  period.Values(expenses),
		Purchases: period.Values(purchases),
	}
}

// FallbackChart is the empty chart sent with failures and empty windows.
func FallbackChart() LineChart {
	placeholder := period.Placeholder()
	return LineChart{
		Labels:    []string{placeholder[0].Label},
		Income:    period.Values(placeholder),
		Expenses:  period.Values(placeholder),
		Purchases: period.Values(placeholder),
	}
}

func emptyOverview() Overview {
	zero := ledger.Totals{Total: decimal.Zero, GST: decimal.Zero}
	return Overview{Income: zero, Expense: zero, Purchase: zero}
}
