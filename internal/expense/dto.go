package expense

import (
	"strings"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/core/common/validation"
	"github.com/haingladys/jsdc-accounting/internal/ledger"
	"github.com/shopspring/decimal"
)

type ExpenseDTO struct {
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Vendor      string          `json:"vendor"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	GSTAmount   decimal.Decimal `json:"gst_amount"`
	PaymentMode string          `json:"payment_mode"`
	Status      string          `json:"status"`
	Notes       string          `json:"notes"`
}

func (d *ExpenseDTO) Normalize() {
	d.Date = strings.TrimSpace(d.Date)
	d.Category = strings.TrimSpace(d.Category)
	d.Description = strings.TrimSpace(d.Description)
	d.Vendor = strings.TrimSpace(d.Vendor)
	d.PaymentMode = strings.ToLower(strings.TrimSpace(d.PaymentMode))
	d.Status = strings.ToLower(strings.TrimSpace(d.Status))
	if d.PaymentMode == "" {
		d.PaymentMode = ledger.PaymentCash
	}
	if d.Status == "" {
		d.Status = StatusPaid
	}
}

func (d ExpenseDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("date", d.Date).Required().Date()
	v.Field("category", d.Category).Required()
	v.Field("description", d.Description).Required().MaxLength(500)
	v.Field("vendor", d.Vendor).MaxLength(200)
	v.Field("total_amount", d.TotalAmount).Positive()
	v.Field("gst_amount", d.GSTAmount).NonNegative()
	v.Field("payment_mode", d.PaymentMode).OneOf(internal.ErrCodeInvalidPayment, ledger.PaymentModes...)
	v.Field("status", d.Status).OneOf(internal.ErrCodeInvalidStatus, Statuses...)
	if err := v.Validate(); err != nil {
		return err
	}
	if d.GSTAmount.GreaterThan(d.TotalAmount) {
		return internal.NewValidationFieldError("gst_amount", "gst_amount cannot exceed total_amount", internal.ErrCodeInvalidAmount)
	}
	return nil
}

type ListResponse struct {
	Expenses []*Expense      `json:"expenses"`
	Count    int             `json:"count"`
	Total    decimal.Decimal `json:"total"`
}
