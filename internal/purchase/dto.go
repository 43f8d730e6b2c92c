package purchase

import (
	"strings"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/core/common/validation"
	"github.com/haingladys/jsdc-accounting/internal/ledger"
	"github.com/shopspring/decimal"
)

// PurchaseDTO is the request payload for creating or replacing a purchase.
type PurchaseDTO struct {
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Vendor      string          `json:"vendor"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    decimal.Decimal `json:"quantity"`
	GSTAmount   decimal.Decimal `json:"gst_amount"`
	PaymentMode string          `json:"payment_mode"`
	Status      string          `json:"status"`
	Notes       string          `json:"notes"`
}

// Normalize trims text fields and fills the default mode and status.
func (d *PurchaseDTO) Normalize() {
	d.Date = strings.TrimSpace(d.Date)
	d.Category = strings.TrimSpace(d.Category)
	d.Vendor = strings.TrimSpace(d.Vendor)
	d.Description = strings.TrimSpace(d.Description)
	d.PaymentMode = strings.ToLower(strings.TrimSpace(d.PaymentMode))
	d.Status = strings.ToLower(strings.TrimSpace(d.Status))
	if d.PaymentMode == "" {
		d.PaymentMode = ledger.PaymentCash
	}
	if d.Status == "" {
		d.Status = StatusPending
	}
}

func (d PurchaseDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("date", d.Date).Required().Date()
	v.Field("category", d.Category).Required()
	v.Field("vendor", d.Vendor).MaxLength(200)
	v.Field("description", d.Description).MaxLength(500)
	v.Field("unit_price", d.UnitPrice).NonNegative()
	v.Field("quantity", d.Quantity).Positive()
	v.Field("gst_amount", d.GSTAmount).NonNegative()
	v.Field("payment_mode", d.PaymentMode).OneOf(internal.ErrCodeInvalidPayment, ledger.PaymentModes...)
	v.Field("status", d.Status).OneOf(internal.ErrCodeInvalidStatus, Statuses...)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ListResponse struct {
	Purchases []*Purchase     `json:"purchases"`
	Count     int             `json:"count"`
	Total     decimal.Decimal `json:"total"`
}
