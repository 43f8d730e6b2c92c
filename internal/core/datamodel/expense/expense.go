package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)"`
	Date        string          `gorm:"column:date;type:varchar(10);not null;index"`
	Category    string          `gorm:"column:category;not null"`
	Description string          `gorm:"column:description;not null"`
	Vendor      string          `gorm:"column:vendor"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(18,2);not null"`
	GSTAmount   decimal.Decimal `gorm:"column:gst_amount;type:numeric(18,2);not null"`
	PaymentMode string          `gorm:"column:payment_mode;type:varchar(16)"`
	Status      string          `gorm:"column:status;type:varchar(16);not null"`
	Notes       string          `gorm:"column:notes"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (Expense) TableName() string {
	return "expenses"
}
