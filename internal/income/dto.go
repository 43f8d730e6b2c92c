package income

import (
	"strings"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/core/common/validation"
	"github.com/haingladys/jsdc-accounting/internal/ledger"
	"github.com/shopspring/decimal"
)

type IncomeDTO struct {
	Date        string          `json:"date"`
	Source      string          `json:"source"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode string          `json:"payment_mode"`
	Status      string          `json:"status"`
	Notes       string          `json:"notes"`
}

func (d *IncomeDTO) Normalize() {
	d.Date = strings.TrimSpace(d.Date)
	d.Source = strings.TrimSpace(d.Source)
	d.Description = strings.TrimSpace(d.Description)
	d.PaymentMode = strings.ToLower(strings.TrimSpace(d.PaymentMode))
	d.Status = strings.ToLower(strings.TrimSpace(d.Status))
	if d.PaymentMode == "" {
		d.PaymentMode = ledger.PaymentBank
	}
	if d.Status == "" {
		d.Status = StatusReceived
	}
}

func (d IncomeDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("date", d.Date).Required().Date()
	v.Field("source", d.Source).Required().MaxLength(200)
	v.Field("description", d.Description).MaxLength(500)
	v.Field("amount", d.Amount).Positive()
	v.Field("payment_mode", d.PaymentMode).OneOf(internal.ErrCodeInvalidPayment, ledger.PaymentModes...)
	v.Field("status", d.Status).OneOf(internal.ErrCodeInvalidStatus, Statuses...)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ListResponse struct {
	Income []*Income       `json:"income"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}
