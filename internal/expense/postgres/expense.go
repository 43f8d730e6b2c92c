package postgres

import (
	"context"
	"errors"

	expenseDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/expense"
	"github.com/haingladys/jsdc-accounting/internal/ledger"
	ledgerPostgres "github.com/haingladys/jsdc-accounting/internal/ledger/postgres"
	"gorm.io/gorm"
)

// ExpenseRepository implements expense.Repository using GORM
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, e *expenseDatamodel.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *ExpenseRepository) Update(ctx context.Context, e *expenseDatamodel.Expense) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&expenseDatamodel.Expense{}).Error
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*expenseDatamodel.Expense, error) {
	var e expenseDatamodel.Expense
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *ExpenseRepository) List(ctx context.Context, filter ledger.Filter) ([]*expenseDatamodel.Expense, error) {
	var expenses []*expenseDatamodel.Expense
	query := ledgerPostgres.ApplyFilter(r.db.WithContext(ctx).Model(&expenseDatamodel.Expense{}), filter,
		"category", "description", "vendor", "notes")
	err := query.Find(&expenses).Error
	return expenses, err
}

func (r *ExpenseRepository) Totals(ctx context.Context, start, end string) (ledger.Totals, error) {
	return ledgerPostgres.SumTotals(r.db.WithContext(ctx).Model(&expenseDatamodel.Expense{}), start, end, "total_amount", "gst_amount")
}
