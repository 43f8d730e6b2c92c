package payroll

import (
	"strings"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type EmployeeDTO struct {
	Name        string          `json:"name"`
	BasicSalary decimal.Decimal `json:"basic_salary"`
	SPRAmount   decimal.Decimal `json:"spr_amount"`
	Advances    decimal.Decimal `json:"advances"`
	SalaryDate  string          `json:"salary_date"`
	Status      string          `json:"status"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	Notes       string          `json:"notes"`
}

func (d *EmployeeDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.SalaryDate = strings.TrimSpace(d.SalaryDate)
	d.Status = strings.ToLower(strings.TrimSpace(d.Status))
	if d.Status == "" {
		d.Status = StatusUnpaid
	}
}

func (d EmployeeDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(120)
	v.Field("basic_salary", d.BasicSalary).NonNegative()
	v.Field("spr_amount", d.SPRAmount).NonNegative()
	v.Field("advances", d.Advances).NonNegative()
	v.Field("salary_date", d.SalaryDate).Date()
	v.Field("status", d.Status).OneOf(internal.ErrCodeInvalidStatus, Statuses...)
	v.Field("month", d.Month).MinInt(1, internal.ErrCodeInvalidPeriod).MaxInt(12, internal.ErrCodeInvalidPeriod)
	v.Field("year", d.Year).MinInt(2000, internal.ErrCodeInvalidPeriod).MaxInt(9999, internal.ErrCodeInvalidPeriod)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ListFilter selects payroll rows; zero values match everything.
type ListFilter struct {
	Month  int
	Year   int
	Status string
}

type ListResponse struct {
	Employees []*Employee `json:"employees"`
	Summary   Summary     `json:"summary"`
}
