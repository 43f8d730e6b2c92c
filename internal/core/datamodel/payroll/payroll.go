package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)"`
	Name        string          `gorm:"column:name;not null"`
	BasicSalary decimal.Decimal `gorm:"column:basic_salary;type:numeric(18,2);not null"`
	SPRAmount   decimal.Decimal `gorm:"column:spr_amount;type:numeric(18,2);not null"`
	Advances    decimal.Decimal `gorm:"column:advances;type:numeric(18,2);not null"`
	SalaryDate  string          `gorm:"column:salary_date;type:varchar(10)"`
	Status      string          `gorm:"column:status;type:varchar(10);not null"`
	Month       int             `gorm:"column:month;not null;index:idx_payroll_period"`
	Year        int             `gorm:"column:year;not null;index:idx_payroll_period"`
	Notes       string          `gorm:"column:notes"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (Employee) TableName() string {
	return "payroll_employees"
}
