package expense

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/category"
	expenseDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/expense"
	"github.com/haingladys/jsdc-accounting/internal/ledger"
	"github.com/haingladys/jsdc-accounting/internal/period"
	"github.com/shopspring/decimal"
)

// Repository interface defines the data access methods for expenses
type Repository interface {
	Create(ctx context.Context, e *expenseDatamodel.Expense) error
	Update(ctx context.Context, e *expenseDatamodel.Expense) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*expenseDatamodel.Expense, error)
	List(ctx context.Context, filter ledger.Filter) ([]*expenseDatamodel.Expense, error)
	Totals(ctx context.Context, start, end string) (ledger.Totals, error)
}

type CategoryChecker interface {
	IsValidCategory(ctx context.Context, kind category.Kind, name string) bool
}

// Service handles expense business logic
type Service struct {
	repo       Repository
	categories CategoryChecker
	publisher  ledger.Publisher
	logger     *slog.Logger
}

// NewService creates a new expense service
func NewService(repo Repository, categories CategoryChecker, publisher ledger.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *Service) validate(ctx context.Context, dto *ExpenseDTO) error {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return err
	}
	if s.categories != nil && !s.categories.IsValidCategory(ctx, category.KindExpense, dto.Category) {
		return internal.NewValidationFieldError("category", "category is not in the expense category list", internal.ErrCodeInvalidCategory)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, dto ExpenseDTO) (*Expense, error) {
	if err := s.validate(ctx, &dto); err != nil {
		s.logger.Warn("expense validation failed", "error", err)
		return nil, err
	}

	now := time.Now()
	e := &Expense{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	e.apply(dto)

	if err := s.repo.Create(ctx, ToDataModel(e)); err != nil {
		s.logger.Error("failed to create expense", "error", err)
		return nil, internal.NewInternalError("failed to create expense", err)
	}

	s.logger.Info("expense created", "expense_id", e.ID, "category", e.Category, "total", e.TotalAmount.String())
	ledger.Notify(ctx, s.publisher, ledger.KindExpense, ledger.ActionCreated, e.ID)
	return e, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Expense, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get expense", "error", err, "expense_id", id)
		return nil, internal.NewInternalError("failed to get expense", err)
	}
	if row == nil {
		return nil, internal.ErrExpenseNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id string, dto ExpenseDTO) (*Expense, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &dto); err != nil {
		s.logger.Warn("expense validation failed", "error", err, "expense_id", id)
		return nil, err
	}

	e.apply(dto)
	e.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, ToDataModel(e)); err != nil {
		s.logger.Error("failed to update expense", "error", err, "expense_id", id)
		return nil, internal.NewInternalError("failed to update expense", err)
	}

	ledger.Notify(ctx, s.publisher, ledger.KindExpense, ledger.ActionUpdated, e.ID)
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", id)
		return internal.NewInternalError("failed to delete expense", err)
	}

	s.logger.Info("expense deleted", "expense_id", id)
	ledger.Notify(ctx, s.publisher, ledger.KindExpense, ledger.ActionDeleted, id)
	return nil
}

func (s *Service) List(ctx context.Context, filter ledger.Filter) ([]*Expense, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err)
		return nil, internal.NewInternalError("failed to list expenses", err)
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) Totals(ctx context.Context, start, end string) (ledger.Totals, error) {
	totals, err := s.repo.Totals(ctx, start, end)
	if err != nil {
		s.logger.Error("failed to total expenses", "error", err, "start", start, "end", end)
		return ledger.Totals{}, internal.NewInternalError("failed to total expenses", err)
	}
	return totals, nil
}

func (s *Service) Points(ctx context.Context, start, end string) ([]period.Point, error) {
	expenses, err := s.List(ctx, ledger.Filter{Start: start, End: end})
	if err != nil {
		return nil, err
	}
	points := make([]period.Point, len(expenses))
	for i, e := range expenses {
		points[i] = period.Point{Date: e.Date, Value: e.TotalAmount}
	}
	return points, nil
}

func (s *Service) ExportCSV(ctx context.Context, filter ledger.Filter, w io.Writer) error {
	filter.Limit, filter.Offset = 0, 0
	expenses, err := s.List(ctx, filter)
	if err != nil {
		return err
	}

	rows := make([][]string, len(expenses))
	for i, e := range expenses {
		rows[i] = []string{
			e.Date,
			e.Category,
			e.Description,
			e.Vendor,
			ledger.Amount(e.TotalAmount),
			ledger.Amount(e.GSTAmount),
			e.PaymentMode,
			e.Status,
			e.Notes,
		}
	}
	return ledger.WriteCSV(w, CSVHeader, rows)
}

func Sum(expenses []*Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.TotalAmount)
	}
	return total
}
