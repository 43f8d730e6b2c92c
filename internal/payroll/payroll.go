// Package payroll keeps the monthly salary sheet: basic pay, SPR allowance,
// advances and the derived net salary.
package payroll

import (
	"time"

	payrollDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/payroll"
	"github.com/shopspring/decimal"
)

const (
	StatusPaid   = "paid"
	StatusUnpaid = "unpaid"

	// RecordKind tags payroll changes on the record.changed event.
	RecordKind = "payroll"
)

var Statuses = []string{StatusPaid, StatusUnpaid}

type Employee struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	BasicSalary decimal.Decimal `json:"basic_salary"`
	SPRAmount   decimal.Decimal `json:"spr_amount"`
	Advances    decimal.Decimal `json:"advances"`
	NetSalary   decimal.Decimal `json:"net_salary"`
	SalaryDate  string          `json:"salary_date"`
	Status      string          `json:"status"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NetSalary is basic + SPR - advances. It may be negative and is never stored.
func NetSalary(basic, spr, advances decimal.Decimal) decimal.Decimal {
	return basic.Add(spr).Sub(advances)
}

func (e *Employee) apply(dto EmployeeDTO) {
	e.Name = dto.Name
	e.BasicSalary = dto.BasicSalary.Round(2)
	e.SPRAmount = dto.SPRAmount.Round(2)
	e.Advances = dto.Advances.Round(2)
	e.NetSalary = NetSalary(e.BasicSalary, e.SPRAmount, e.Advances)
	e.SalaryDate = dto.SalaryDate
	e.Status = dto.Status
	e.Month = dto.Month
	e.Year = dto.Year
	e.Notes = dto.Notes
}

func ToDataModel(e *Employee) *payrollDatamodel.Employee {
	return &payrollDatamodel.Employee{
		ID:          e.ID,
		Name:        e.Name,
		BasicSalary: e.BasicSalary,
		SPRAmount:   e.SPRAmount,
		Advances:    e.Advances,
		SalaryDate:  e.SalaryDate,
		Status:      e.Status,
		Month:       e.Month,
		Year:        e.Year,
		Notes:       e.Notes,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModel(e *payrollDatamodel.Employee) *Employee {
	return &Employee{
		ID:          e.ID,
		Name:        e.Name,
		BasicSalary: e.BasicSalary,
		SPRAmount:   e.SPRAmount,
		Advances:    e.Advances,
		NetSalary:   NetSalary(e.BasicSalary, e.SPRAmount, e.Advances),
		SalaryDate:  e.SalaryDate,
		Status:      e.Status,
		Month:       e.Month,
		Year:        e.Year,
		Notes:       e.Notes,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*payrollDatamodel.Employee) []*Employee {
	result := make([]*Employee, len(rows))
	for i, e := range rows {
		result[i] = FromDataModel(e)
	}
	return result
}

type Summary struct {
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	EmployeeCount int             `json:"employee_count"`
	TotalBasic    decimal.Decimal `json:"total_basic"`
	TotalSPR      decimal.Decimal `json:"total_spr"`
	TotalAdvances decimal.Decimal `json:"total_advances"`
	TotalNet      decimal.Decimal `json:"total_net"`
	PaidCount     int             `json:"paid_count"`
	UnpaidCount   int             `json:"unpaid_count"`
	PaidNet       decimal.Decimal `json:"paid_net"`
	UnpaidNet     decimal.Decimal `json:"unpaid_net"`
}

// Summarize totals the given payroll rows.
func Summarize(month, year int, employees []*Employee) Summary {
	s := Summary{
		Month:         month,
		Year:          year,
		EmployeeCount: len(employees),
		TotalBasic:    decimal.Zero,
		TotalSPR:      decimal.Zero,
		TotalAdvances: decimal.Zero,
		TotalNet:      decimal.Zero,
		PaidNet:       decimal.Zero,
		UnpaidNet:     decimal.Zero,
	}
	for _, e := range employees {
		s.TotalBasic = s.TotalBasic.Add(e.BasicSalary)
		s.TotalSPR = s.TotalSPR.Add(e.SPRAmount)
		s.TotalAdvances = s.TotalAdvances.Add(e.Advances)
		s.TotalNet = s.TotalNet.Add(e.NetSalary)
		if e.Status == StatusPaid {
			s.PaidCount++
			s.PaidNet = s.PaidNet.Add(e.NetSalary)
		} else {
			s.UnpaidCount++
			s.UnpaidNet = s.UnpaidNet.Add(e.NetSalary)
		}
	}
	return s
}

var CSVHeader = []string{"Name", "Month", "Year", "Basic Salary", "SPR", "Advances", "Net Salary", "Status", "Salary Date", "Notes"}
