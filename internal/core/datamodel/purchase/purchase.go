package purchase

import (
	"time"

	"github.com/shopspring/decimal"
)

type Purchase struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)"`
	Date        string          `gorm:"column:date;type:varchar(10);not null;index"`
	Category    string          `gorm:"column:category;not null"`
	Vendor      string          `gorm:"column:vendor"`
	Description string          `gorm:"column:description"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(18,2);not null"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:numeric(18,3);not null"`
	GSTAmount   decimal.Decimal `gorm:"column:gst_amount;type:numeric(18,2);not null"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(18,2);not null"`
	PaymentMode string          `gorm:"column:payment_mode;type:varchar(16)"`
	Status      string          `gorm:"column:status;type:varchar(16);not null"`
	Notes       string          `gorm:"column:notes"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (Purchase) TableName() string {
	return "purchases"
}
