package report

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/attendance"
	"github.com/haingladys/jsdc-accounting/internal/expense"
	"github.com/haingladys/jsdc-accounting/internal/income"
	"github.com/haingladys/jsdc-accounting/internal/ledger"
	"github.com/haingladys/jsdc-accounting/internal/payroll"
	"github.com/haingladys/jsdc-accounting/internal/period"
	"github.com/haingladys/jsdc-accounting/internal/purchase"
	"github.com/haingladys/jsdc-accounting/internal/setting"
)

type Store interface {
	Totals(ctx context.Context, src Source, start, end string) (ledger.Totals, error)
	ByCategory(ctx context.Context, src Source, start, end string) ([]CategoryTotal, error)
	PayrollLines(ctx context.Context, from, to int) ([]PayrollLine, error)
}

type IncomeLister interface {
	List(ctx context.Context, filter ledger.Filter) ([]*income.Income, error)
}

type ExpenseLister interface {
	List(ctx context.Context, filter ledger.Filter) ([]*expense.Expense, error)
}

type PurchaseLister interface {
	List(ctx context.Context, filter ledger.Filter) ([]*purchase.Purchase, error)
}

type AttendanceSource interface {
	ListEmployees(ctx context.Context, activeOnly bool) ([]*attendance.Employee, error)
	EmployeeSummary(ctx context.Context, employeeID, start, end string) (*attendance.EmployeeSummary, error)
}

type SettingsReader interface {
	Get(ctx context.Context) (setting.Settings, error)
}

type Sources struct {
	Income     IncomeLister
	Expenses   ExpenseLister
	Purchases  PurchaseLister
	Attendance AttendanceSource
	Settings   SettingsReader
}

type Service struct {
	store   Store
	sources Sources
	now     func() time.Time
	logger  *slog.Logger
}

func NewService(store Store, sources Sources, now func() time.Time, logger *slog.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:   store,
		sources: sources,
		now:     now,
		logger:  logger,
	}
}

func (s *Service) Generate(ctx context.Context, q Query) (*Report, error) {
	if err := q.normalize(); err != nil {
		return nil, err
	}
	window, err := period.Resolve(q.Period, q.Selected, q.Start, q.End, s.now())
	if err != nil {
		code := internal.ErrCodeInvalidDate
		if errors.Is(err, period.ErrInvalidPeriod) {
			code = internal.ErrCodeInvalidPeriod
		}
		return nil, internal.NewValidationError(err.Error(), code)
	}

	start, end := window.StartKey(), window.EndKey()
	r := &Report{
		Type:        q.Type,
		PeriodType:  window.Type,
		StartDate:   start,
		EndDate:     end,
		GeneratedAt: s.now(),
	}
	if s.sources.Settings != nil {
		if settings, err := s.sources.Settings.Get(ctx); err == nil {
			r.Company, r.Currency = settings.CompanyName, settings.Currency
		}
	}

	if err := s.fill(ctx, q, window, &r.Data); err != nil {
		s.logger.Error("failed to build report", "error", err, "type", q.Type, "start", start, "end", end)
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		return nil, internal.NewInternalError("failed to build report", err)
	}

	s.logger.Info("report generated", "type", r.Type, "period_type", r.PeriodType, "start", start, "end", end)
	return r, nil
}

func (s *Service) fill(ctx context.Context, q Query, window period.Window, data *Data) error {
	start, end := window.StartKey(), window.EndKey()
	filter := ledger.Filter{Start: start, End: end}

	if q.includes(TypeSummary) {
		summary, err := s.summary(ctx, window)
		if err != nil {
			return err
		}
		data.Summary = summary
	}

	if q.includes(TypeIncome) {
		rows, err := s.sources.Income.List(ctx, filter)
		if err != nil {
			return err
		}
		section, err := sectionOf(ctx, s.store, SourceIncome, start, end, rows)
		if err != nil {
			return err
		}
		data.Income = section
	}

	if q.includes(TypeExpense) {
		rows, err := s.sources.Expenses.List(ctx, filter)
		if err != nil {
			return err
		}
		section, err := sectionOf(ctx, s.store, SourceExpense, start, end, rows)
		if err != nil {
			return err
		}
		data.Expense = section
	}

	if q.includes(TypePurchase) {
		rows, err := s.sources.Purchases.List(ctx, filter)
		if err != nil {
			return err
		}
		section, err := sectionOf(ctx, s.store, SourcePurchase, start, end, rows)
		if err != nil {
			return err
		}
		data.Purchase = section
	}

	if q.includes(TypePayroll) {
		section, err := s.payroll(ctx, window)
		if err != nil {
			return err
		}
		data.Payroll = section
	}

	if q.includes(TypeAttendance) && s.sources.Attendance != nil {
		employees, err := s.sources.Attendance.ListEmployees(ctx, false)
		if err != nil {
			return err
		}
		data.Attendance = make([]*attendance.EmployeeSummary, 0, len(employees))
		for _, e := range employees {
			summary, err := s.sources.Attendance.EmployeeSummary(ctx, e.ID, start, end)
			if err != nil {
				return err
			}
			data.Attendance = append(data.Attendance, summary)
		}
	}
	return nil
}

func (s *Service) summary(ctx context.Context, window period.Window) (*SummarySection, error) {
	start, end := window.StartKey(), window.EndKey()
	var (
		out SummarySection
		err error
	)
	if out.Income, err = s.store.Totals(ctx, SourceIncome, start, end); err != nil {
		return nil, err
	}
	if out.Expense, err = s.store.Totals(ctx, SourceExpense, start, end); err != nil {
		return nil, err
	}
	if out.Purchase, err = s.store.Totals(ctx, SourcePurchase, start, end); err != nil {
		return nil, err
	}
	if out.IncomeBySource, err = s.store.ByCategory(ctx, SourceIncome, start, end); err != nil {
		return nil, err
	}
	if out.ExpenseByCategory, err = s.store.ByCategory(ctx, SourceExpense, start, end); err != nil {
		return nil, err
	}
	if out.PurchaseByCategory, err = s.store.ByCategory(ctx, SourcePurchase, start, end); err != nil {
		return nil, err
	}

	payrollSection, err := s.payroll(ctx, window)
	if err != nil {
		return nil, err
	}
	out.PayrollNet = payrollSection.Summary.TotalNet
	out.Profit = out.Income.Total.Sub(out.Expense.Total).Sub(out.Purchase.Total)
	return &out, nil
}

func (s *Service) payroll(ctx context.Context, window period.Window) (*PayrollSection, error) {
	from := window.Start.Year()*100 + int(window.Start.Month())
	to := window.End.Year()*100 + int(window.End.Month())
	lines, err := s.store.PayrollLines(ctx, from, to)
	if err != nil {
		return nil, err
	}

	rows := make([]*payroll.Employee, len(lines))
	for i, l := range lines {
		rows[i] = l.employee()
	}
	summary := payroll.Summarize(0, 0, rows)
	if from == to {
		summary.Month, summary.Year = int(window.Start.Month()), window.Start.Year()
	}
	return &PayrollSection{Rows: rows, Summary: summary}, nil
}

func sectionOf[T any](ctx context.Context, store Store, src Source, start, end string, rows []T) (*Section[T], error) {
	totals, err := store.Totals(ctx, src, start, end)
	if err != nil {
		return nil, err
	}
	byCategory, err := store.ByCategory(ctx, src, start, end)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}
	return &Section[T]{Rows: rows, Totals: totals, ByCategory: byCategory}, nil
}
