package income

import (
	"time"

	"github.com/shopspring/decimal"
)

type Income struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)"`
	Date        string          `gorm:"column:date;type:varchar(10);not null;index"`
	Source      string          `gorm:"column:source;not null"`
	Description string          `gorm:"column:description"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(18,2);not null"`
	PaymentMode string          `gorm:"column:payment_mode;type:varchar(16)"`
	Status      string          `gorm:"column:status;type:varchar(16);not null"`
	Notes       string          `gorm:"column:notes"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (Income) TableName() string {
	return "income"
}
