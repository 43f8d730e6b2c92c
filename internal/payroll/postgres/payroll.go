package postgres

import (
	"context"
	"errors"

	payrollDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/payroll"
	"github.com/haingladys/jsdc-accounting/internal/payroll"
	"gorm.io/gorm"
)

// PayrollRepository implements payroll.Repository using GORM
type PayrollRepository struct {
	db *gorm.DB
}

func NewPayrollRepository(db *gorm.DB) *PayrollRepository {
	return &PayrollRepository{db: db}
}

func (r *PayrollRepository) Create(ctx context.Context, e *payrollDatamodel.Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *PayrollRepository) Update(ctx context.Context, e *payrollDatamodel.Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *PayrollRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&payrollDatamodel.Employee{}).Error
}

func (r *PayrollRepository) GetByID(ctx context.Context, id string) (*payrollDatamodel.Employee, error) {
	var e payrollDatamodel.Employee
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *PayrollRepository) List(ctx context.Context, filter payroll.ListFilter) ([]*payrollDatamodel.Employee, error) {
	var employees []*payrollDatamodel.Employee
	query := r.db.WithContext(ctx)
	if filter.Month > 0 {
		query = query.Where("month = ?", filter.Month)
	}
	if filter.Year > 0 {
		query = query.Where("year = ?", filter.Year)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	err := query.Order("year DESC").Order("month DESC").Order("name ASC").Find(&employees).Error
	return employees, err
}
