package purchase

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/category"
	purchaseDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/purchase"
	"github.com/haingladys/jsdc-accounting/internal/ledger"
	"github.com/haingladys/jsdc-accounting/internal/period"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, p *purchaseDatamodel.Purchase) error
	Update(ctx context.Context, p *purchaseDatamodel.Purchase) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*purchaseDatamodel.Purchase, error)
	List(ctx context.Context, filter ledger.Filter) ([]*purchaseDatamodel.Purchase, error)
	Totals(ctx context.Context, start, end string) (ledger.Totals, error)
}

type CategoryChecker interface {
	IsValidCategory(ctx context.Context, kind category.Kind, name string) bool
}

type Service struct {
	repo       Repository
	categories CategoryChecker
	publisher  ledger.Publisher
	logger     *slog.Logger
}

func NewService(repo Repository, categories CategoryChecker, publisher ledger.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *Service) validate(ctx context.Context, dto *PurchaseDTO) error {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return err
	}
	if s.categories != nil && !s.categories.IsValidCategory(ctx, category.KindPurchase, dto.Category) {
		return internal.NewValidationFieldError("category", "category is not in the purchase category list", internal.ErrCodeInvalidCategory)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, dto PurchaseDTO) (*Purchase, error) {
	if err := s.validate(ctx, &dto); err != nil {
		s.logger.Warn("purchase validation failed", "error", err)
		return nil, err
	}

	now := time.Now()
	p := &Purchase{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	p.apply(dto)

	if err := s.repo.Create(ctx, ToDataModel(p)); err != nil {
		s.logger.Error("failed to create purchase", "error", err)
		return nil, internal.NewInternalError("failed to create purchase", err)
	}

	s.logger.Info("purchase created", "purchase_id", p.ID, "total", p.TotalAmount.String())
	ledger.Notify(ctx, s.publisher, ledger.KindPurchase, ledger.ActionCreated, p.ID)
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Purchase, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get purchase", "error", err, "purchase_id", id)
		return nil, internal.NewInternalError("failed to get purchase", err)
	}
	if row == nil {
		return nil, internal.ErrPurchaseNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, id string, dto PurchaseDTO) (*Purchase, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &dto); err != nil {
		s.logger.Warn("purchase validation failed", "error", err, "purchase_id", id)
		return nil, err
	}

	p.apply(dto)
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, ToDataModel(p)); err != nil {
		s.logger.Error("failed to update purchase", "error", err, "purchase_id", id)
		return nil, internal.NewInternalError("failed to update purchase", err)
	}

	ledger.Notify(ctx, s.publisher, ledger.KindPurchase, ledger.ActionUpdated, p.ID)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete purchase", "error", err, "purchase_id", id)
		return internal.NewInternalError("failed to delete purchase", err)
	}

	s.logger.Info("purchase deleted", "purchase_id", id)
	ledger.Notify(ctx, s.publisher, ledger.KindPurchase, ledger.ActionDeleted, id)
	return nil
}

func (s *Service) List(ctx context.Context, filter ledger.Filter) ([]*Purchase, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list purchases", "error", err)
		return nil, internal.NewInternalError("failed to list purchases", err)
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) Totals(ctx context.Context, start, end string) (ledger.Totals, error) {
	totals, err := s.repo.Totals(ctx, start, end)
	if err != nil {
		s.logger.Error("failed to total purchases", "error", err, "start", start, "end", end)
		return ledger.Totals{}, internal.NewInternalError("failed to total purchases", err)
	}
	return totals, nil
}

// Points returns the purchase totals in the range as chart points.
func (s *Service) Points(ctx context.Context, start, end string) ([]period.Point, error) {
	purchases, err := s.List(ctx, ledger.Filter{Start: start, End: end})
	if err != nil {
		return nil, err
	}
	points := make([]period.Point, len(purchases))
	for i, p := range purchases {
		points[i] = period.Point{Date: p.Date, Value: p.TotalAmount}
	}
	return points, nil
}

func (s *Service) ExportCSV(ctx context.Context, filter ledger.Filter, w io.Writer) error {
	filter.Limit, filter.Offset = 0, 0
	purchases, err := s.List(ctx, filter)
	if err != nil {
		return err
	}

	rows := make([][]string, len(purchases))
	for i, p := range purchases {
		rows[i] = []string{
			p.Date,
			p.Category,
			p.Vendor,
			p.Description,
			ledger.Amount(p.UnitPrice),
			p.Quantity.String(),
			ledger.Amount(p.GSTAmount),
			ledger.Amount(p.TotalAmount),
			p.PaymentMode,
			p.Status,
			p.Notes,
		}
	}
	return ledger.WriteCSV(w, CSVHeader, rows)
}

// Sum adds up the total amount of the given purchases.
func Sum(purchases []*Purchase) decimal.Decimal {
	total := decimal.Zero
	for _, p := range purchases {
		total = total.Add(p.TotalAmount)
	}
	return total
}
