package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/attendance"
	"github.com/haingladys/jsdc-accounting/internal/ledger"
	"github.com/haingladys/jsdc-accounting/internal/payroll"
	"github.com/haingladys/jsdc-accounting/internal/period"
)

// LedgerSource is what purchases, expenses and income each provide.
type LedgerSource interface {
	Points(ctx context.Context, start, end string) ([]period.Point, error)
	Totals(ctx context.Context, start, end string) (ledger.Totals, error)
}

type AttendanceSource interface {
	TodaySummary(ctx context.Context) (*attendance.TodaySummary, error)
}

type PayrollSource interface {
	Summary(ctx context.Context, month, year int) (payroll.Summary, error)
}

type Sources struct {
	Income     LedgerSource
	Expenses   LedgerSource
	Purchases  LedgerSource
	Attendance AttendanceSource
	Payroll    PayrollSource
}

type Service struct {
	sources Sources
	now     func() time.Time
	logger  *slog.Logger
}

func NewService(sources Sources, now func() time.Time, logger *slog.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		sources: sources,
		now:     now,
		logger:  logger,
	}
}

// Charts resolves the query window and builds the line chart plus totals.
func (s *Service) Charts(ctx context.Context, periodType, selected, start, end string) (*ChartsResponse, error) {
	window, err := period.Resolve(periodType, selected, start, end, s.now())
	if err != nil {
		if errors.Is(err, period.ErrInvalidPeriod) {
			return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidPeriod)
		}
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidDate)
	}

	startKey, endKey := window.StartKey(), window.EndKey()
	series := make([][]period.Bucket, 3)
	for i, source := range []LedgerSource{s.sources.Income, s.sources.Expenses, s.sources.Purchases} {
		points, err := source.Points(ctx, startKey, endKey)
		if err != nil {
			return nil, err
		}
		series[i] = period.Bucketize(points, window)
	}

	overview, err := s.overview(ctx, startKey, endKey)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("dashboard charts built", "period_type", window.Type, "start", startKey, "end", endKey)
	return &ChartsResponse{
		Success:       true,
		PeriodType:    window.Type,
		StartDate:     startKey,
		EndDate:       endKey,
		LineChart:     buildLineChart(series[0], series[1], series[2]),
		MonthOverview: overview,
	}, nil
}

// Summary reports today's attendance and the current month's money figures.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	today := s.now()
	monthStart, monthEnd := period.MonthRange(today.Year(), today.Month())

	overview, err := s.overview(ctx, period.Key(monthStart), period.Key(monthEnd))
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Date:     period.Key(today),
		Month:    today.Format(period.MonthLayout),
		Overview: overview,
		Profit:   Profit(overview.Income.Total, overview.Expense.Total, overview.Purchase.Total),
	}

	if s.sources.Attendance != nil {
		if summary.Attendance, err = s.sources.Attendance.TodaySummary(ctx); err != nil {
			return nil, err
		}
	}
	if s.sources.Payroll != nil {
		if summary.Payroll, err = s.sources.Payroll.Summary(ctx, int(today.Month()), today.Year()); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

func (s *Service) overview(ctx context.Context, start, end string) (Overview, error) {
	var (
		o   Overview
		err error
	)
	if o.Income, err = s.sources.Income.Totals(ctx, start, end); err != nil {
		return Overview{}, err
	}
	if o.Expense, err = s.sources.Expenses.Totals(ctx, start, end); err != nil {
		return Overview{}, err
	}
	if o.Purchase, err = s.sources.Purchases.Totals(ctx, start, end); err != nil {
		return Overview{}, err
	}
	return o, nil
}
