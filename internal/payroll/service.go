package payroll

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/haingladys/jsdc-accounting/internal"
	payrollDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/payroll"
	"github.com/haingladys/jsdc-accounting/internal/ledger"
	"github.com/haingladys/jsdc-accounting/internal/period"
)

type Repository interface {
	Create(ctx context.Context, e *payrollDatamodel.Employee) error
	Update(ctx context.Context, e *payrollDatamodel.Employee) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*payrollDatamodel.Employee, error)
	List(ctx context.Context, filter ListFilter) ([]*payrollDatamodel.Employee, error)
}

// Company is printed on payslips.
type Company struct {
	Name     string
	Currency string
}

type Service struct {
	repo      Repository
	publisher ledger.Publisher
	company   Company
	logger    *slog.Logger
	clock     func() time.Time
}

func NewService(repo Repository, publisher ledger.Publisher, company Company, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		company:   company,
		logger:    logger,
		clock:     time.Now,
	}
}

func (s *Service) Create(ctx context.Context, dto EmployeeDTO) (*Employee, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		s.logger.Warn("payroll validation failed", "error", err)
		return nil, err
	}

	now := time.Now()
	e := &Employee{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	e.apply(dto)

	if err := s.repo.Create(ctx, ToDataModel(e)); err != nil {
		s.logger.Error("failed to create payroll entry", "error", err)
		return nil, internal.NewInternalError("failed to create payroll entry", err)
	}

	s.logger.Info("payroll entry created", "payroll_id", e.ID, "month", e.Month, "year", e.Year)
	ledger.Notify(ctx, s.publisher, RecordKind, ledger.ActionCreated, e.ID)
	return e, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Employee, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get payroll entry", "error", err, "payroll_id", id)
		return nil, internal.NewInternalError("failed to get payroll entry", err)
	}
	if row == nil {
		return nil, internal.ErrPayrollNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id string, dto EmployeeDTO) (*Employee, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		s.logger.Warn("payroll validation failed", "error", err, "payroll_id", id)
		return nil, err
	}

	e.apply(dto)
	if err := s.save(ctx, e, ledger.ActionUpdated); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete payroll entry", "error", err, "payroll_id", id)
		return internal.NewInternalError("failed to delete payroll entry", err)
	}

	s.logger.Info("payroll entry deleted", "payroll_id", id)
	ledger.Notify(ctx, s.publisher, RecordKind, ledger.ActionDeleted, id)
	return nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Employee, error) {
	if filter.Month < 0 || filter.Month > 12 {
		return nil, internal.NewValidationFieldError("month", "month must be between 1 and 12", internal.ErrCodeInvalidPeriod)
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list payroll", "error", err)
		return nil, internal.NewInternalError("failed to list payroll", err)
	}
	return FromDataModelSlice(rows), nil
}

// MarkPaid sets the status to paid and stamps today's date when no salary date was recorded.
func (s *Service) MarkPaid(ctx context.Context, id string) (*Employee, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Status = StatusPaid
	if e.SalaryDate == "" {
		e.SalaryDate = period.Key(s.clock())
	}
	if err := s.save(ctx, e, ledger.ActionUpdated); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) MarkUnpaid(ctx context.Context, id string) (*Employee, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Status = StatusUnpaid
	e.SalaryDate = ""
	if err := s.save(ctx, e, ledger.ActionUpdated); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) Summary(ctx context.Context, month, year int) (Summary, error) {
	employees, err := s.List(ctx, ListFilter{Month: month, Year: year})
	if err != nil {
		return Summary{}, err
	}
	return Summarize(month, year, employees), nil
}

func (s *Service) ExportCSV(ctx context.Context, filter ListFilter, w io.Writer) error {
	employees, err := s.List(ctx, filter)
	if err != nil {
		return err
	}

	rows := make([][]string, len(employees))
	for i, e := range employees {
		rows[i] = []string{
			e.Name,
			strconv.Itoa(e.Month),
			strconv.Itoa(e.Year),
			ledger.Amount(e.BasicSalary),
			ledger.Amount(e.SPRAmount),
			ledger.Amount(e.Advances),
			ledger.Amount(e.NetSalary),
			e.Status,
			e.SalaryDate,
			e.Notes,
		}
	}
	return ledger.WriteCSV(w, CSVHeader, rows)
}

func (s *Service) save(ctx context.Context, e *Employee, action string) error {
	e.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, ToDataModel(e)); err != nil {
		s.logger.Error("failed to update payroll entry", "error", err, "payroll_id", e.ID)
		return internal.NewInternalError("failed to update payroll entry", err)
	}
	ledger.Notify(ctx, s.publisher, RecordKind, action, e.ID)
	return nil
}
