// Package report builds period reports (totals, profit, category breakdowns,
// payroll and attendance) and renders them as JSON, Excel or PDF.
package report

import (
	"strings"
	"time"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/attendance"
	"github.com/haingladys/jsdc-accounting/internal/expense"
	"github.com/haingladys/jsdc-accounting/internal/income"
	"github.com/haingladys/jsdc-accounting/internal/ledger"
	"github.com/haingladys/jsdc-accounting/internal/payroll"
	"github.com/haingladys/jsdc-accounting/internal/purchase"
	"github.com/shopspring/decimal"
)

const (
	TypeSummary    = "summary"
	TypeIncome     = "income"
	TypeExpense    = "expense"
	TypePurchase   = "purchase"
	TypePayroll    = "payroll"
	TypeAttendance = "attendance"
	TypeAll        = "all"

	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

var Types = []string{TypeSummary, TypeIncome, TypeExpense, TypePurchase, TypePayroll, TypeAttendance, TypeAll}

// Source names the table and columns a ledger aggregate reads. The values
// are fixed below and never come from a request.
type Source struct {
	Table        string
	GroupColumn  string
	AmountColumn string
	GSTColumn    string
}

var (
	SourceIncome   = Source{Table: "income", GroupColumn: "source", AmountColumn: "amount"}
	SourceExpense  = Source{Table: "expenses", GroupColumn: "category", AmountColumn: "total_amount", GSTColumn: "gst_amount"}
	SourcePurchase = Source{Table: "purchases", GroupColumn: "category", AmountColumn: "total_amount", GSTColumn: "gst_amount"}
)

type CategoryTotal struct {
	Category string          `json:"category" db:"category"`
	Count    int64           `json:"count" db:"count"`
	Total    decimal.Decimal `json:"total" db:"total"`
}

// PayrollLine is one payroll row as read by the report store.
type PayrollLine struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Month       int             `db:"month"`
	Year        int             `db:"year"`
	BasicSalary decimal.Decimal `db:"basic_salary"`
	SPRAmount   decimal.Decimal `db:"spr_amount"`
	Advances    decimal.Decimal `db:"advances"`
	Status      string          `db:"status"`
	SalaryDate  string          `db:"salary_date"`
}

func (l PayrollLine) employee() *payroll.Employee {
	return &payroll.Employee{
		ID:          l.ID,
		Name:        l.Name,
		Month:       l.Month,
		Year:        l.Year,
		BasicSalary: l.BasicSalary,
		SPRAmount:   l.SPRAmount,
		Advances:    l.Advances,
		NetSalary:   payroll.NetSalary(l.BasicSalary, l.SPRAmount, l.Advances),
		Status:      l.Status,
		SalaryDate:  l.SalaryDate,
	}
}

type Query struct {
	Type     string
	Period   string
	Selected string
	Start    string
	End      string
}

func (q *Query) normalize() error {
	q.Type = strings.ToLower(strings.TrimSpace(q.Type))
	if q.Type == "" {
		q.Type = TypeSummary
	}
	for _, t := range Types {
		if q.Type == t {
			return nil
		}
	}
	return internal.NewValidationFieldError("type", "type must be one of "+strings.Join(Types, ", "), internal.ErrCodeValidationFailed)
}

func (q Query) includes(section string) bool {
	return q.Type == TypeAll || q.Type == section
}

type SummarySection struct {
	Income             ledger.Totals   `json:"income"`
	Expense            ledger.Totals   `json:"expense"`
	Purchase           ledger.Totals   `json:"purchase"`
	PayrollNet         decimal.Decimal `json:"payroll_net"`
	Profit             decimal.Decimal `json:"profit"`
	IncomeBySource     []CategoryTotal `json:"income_by_source"`
	ExpenseByCategory  []CategoryTotal `json:"expense_by_category"`
	PurchaseByCategory []CategoryTotal `json:"purchase_by_category"`
}

type Section[T any] struct {
	Rows       []T             `json:"rows"`
	Totals     ledger.Totals   `json:"totals"`
	ByCategory []CategoryTotal `json:"by_category"`
}

type PayrollSection struct {
	Rows    []*payroll.Employee `json:"rows"`
	Summary payroll.Summary     `json:"summary"`
}

type Data struct {
	Summary    *SummarySection               `json:"summary,omitempty"`
	Income     *Section[*income.Income]      `json:"income,omitempty"`
	Expense    *Section[*expense.Expense]    `json:"expense,omitempty"`
	Purchase   *Section[*purchase.Purchase]  `json:"purchase,omitempty"`
	Payroll    *PayrollSection               `json:"payroll,omitempty"`
	Attendance []*attendance.EmployeeSummary `json:"attendance,omitempty"`
}

type Report struct {
	Type        string    `json:"type"`
	PeriodType  string    `json:"period_type"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	GeneratedAt time.Time `json:"generated_at"`
	Company     string    `json:"company,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	Data        Data      `json:"data"`
}

// Filename is report-<type>-<start>_<end>.<ext>.
func (r *Report) Filename(ext string) string {
	return "report-" + r.Type + "-" + r.StartDate + "_" + r.EndDate + "." + ext
}
