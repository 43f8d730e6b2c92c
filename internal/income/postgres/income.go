package postgres

import (
	"context"
	"errors"

	incomeDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/income"
	"github.com/haingladys/jsdc-accounting/internal/ledger"
	ledgerPostgres "github.com/haingladys/jsdc-accounting/internal/ledger/postgres"
	"gorm.io/gorm"
)

type IncomeRepository struct {
	db *gorm.DB
}

func NewIncomeRepository(db *gorm.DB) *IncomeRepository {
	return &IncomeRepository{db: db}
}

func (r *IncomeRepository) Create(ctx context.Context, i *incomeDatamodel.Income) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *IncomeRepository) Update(ctx context.Context, i *incomeDatamodel.Income) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *IncomeRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&incomeDatamodel.Income{}).Error
}

func (r *IncomeRepository) GetByID(ctx context.Context, id string) (*incomeDatamodel.Income, error) {
	var i incomeDatamodel.Income
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&i).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &i, nil
}

// List treats the filter's category as the income source.
func (r *IncomeRepository) List(ctx context.Context, filter ledger.Filter) ([]*incomeDatamodel.Income, error) {
	var entries []*incomeDatamodel.Income
	query := ledgerPostgres.ApplyFilter(r.db.WithContext(ctx).Model(&incomeDatamodel.Income{}), filter,
		"source", "source", "description", "notes")
	err := query.Find(&entries).Error
	return entries, err
}

func (r *IncomeRepository) Totals(ctx context.Context, start, end string) (ledger.Totals, error) {
	return ledgerPostgres.SumTotals(r.db.WithContext(ctx).Model(&incomeDatamodel.Income{}), start, end, "amount", "")
}
