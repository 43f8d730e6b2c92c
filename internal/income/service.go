package income

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/haingladys/jsdc-accounting/internal"
	incomeDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/income"
	"github.com/haingladys/jsdc-accounting/internal/ledger"
	"github.com/haingladys/jsdc-accounting/internal/period"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, i *incomeDatamodel.Income) error
	Update(ctx context.Context, i *incomeDatamodel.Income) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*incomeDatamodel.Income, error)
	List(ctx context.Context, filter ledger.Filter) ([]*incomeDatamodel.Income, error)
	Totals(ctx context.Context, start, end string) (ledger.Totals, error)
}

type Service struct {
	repo      Repository
	publisher ledger.Publisher
	logger    *slog.Logger
}

func NewService(repo Repository, publisher ledger.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) Create(ctx context.Context, dto IncomeDTO) (*Income, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		s.logger.Warn("income validation failed", "error", err)
		return nil, err
	}

	now := time.Now()
	i := &Income{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	i.apply(dto)

	if err := s.repo.Create(ctx, ToDataModel(i)); err != nil {
		s.logger.Error("failed to create income", "error", err)
		return nil, internal.NewInternalError("failed to create income", err)
	}

	s.logger.Info("income created", "income_id", i.ID, "source", i.Source, "amount", i.Amount.String())
	ledger.Notify(ctx, s.publisher, ledger.KindIncome, ledger.ActionCreated, i.ID)
	return i, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Income, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get income", "error", err, "income_id", id)
		return nil, internal.NewInternalError("failed to get income", err)
	}
	if row == nil {
		return nil, internal.ErrIncomeNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id string, dto IncomeDTO) (*Income, error) {
	i, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		s.logger.Warn("income validation failed", "error", err, "income_id", id)
		return nil, err
	}

	i.apply(dto)
	i.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, ToDataModel(i)); err != nil {
		s.logger.Error("failed to update income", "error", err, "income_id", id)
		return nil, internal.NewInternalError("failed to update income", err)
	}

	ledger.Notify(ctx, s.publisher, ledger.KindIncome, ledger.ActionUpdated, i.ID)
	return i, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete income", "error", err, "income_id", id)
		return internal.NewInternalError("failed to delete income", err)
	}

	s.logger.Info("income deleted", "income_id", id)
	ledger.Notify(ctx, s.publisher, ledger.KindIncome, ledger.ActionDeleted, id)
	return nil
}

func (s *Service) List(ctx context.Context, filter ledger.Filter) ([]*Income, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list income", "error", err)
		return nil, internal.NewInternalError("failed to list income", err)
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) Totals(ctx context.Context, start, end string) (ledger.Totals, error) {
	totals, err := s.repo.Totals(ctx, start, end)
	if err != nil {
		s.logger.Error("failed to total income", "error", err, "start", start, "end", end)
		return ledger.Totals{}, internal.NewInternalError("failed to total income", err)
	}
	return totals, nil
}

func (s *Service) Points(ctx context.Context, start, end string) ([]period.Point, error) {
	entries, err := s.List(ctx, ledger.Filter{Start: start, End: end})
	if err != nil {
		return nil, err
	}
	points := make([]period.Point, len(entries))
	for n, i := range entries {
		points[n] = period.Point{Date: i.Date, Value: i.Amount}
	}
	return points, nil
}

func (s *Service) ExportCSV(ctx context.Context, filter ledger.Filter, w io.Writer) error {
	filter.Limit, filter.Offset = 0, 0
	entries, err := s.List(ctx, filter)
	if err != nil {
		return err
	}

	rows := make([][]string, len(entries))
	for n, i := range entries {
		rows[n] = []string{
			i.Date,
			i.Source,
			i.Description,
			ledger.Amount(i.Amount),
			i.PaymentMode,
			i.Status,
			i.Notes,
		}
	}
	return ledger.WriteCSV(w, CSVHeader, rows)
}

func Sum(entries []*Income) decimal.Decimal {
	total := decimal.Zero
	for _, i := range entries {
		total = total.Add(i.Amount)
	}
	return total
}
