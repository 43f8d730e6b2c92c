// Package income records money received: sales, services and other sources.
package income

import (
	"time"

	incomeDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/income"
	"github.com/shopspring/decimal"
)

const (
	StatusReceived = "received"
	StatusPending  = "pending"
)

var Statuses = []string{StatusReceived, StatusPending}

type Income struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Source      string          `json:"source"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentMode string          `json:"payment_mode"`
	Status      string          `json:"status"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (i *Income) apply(dto IncomeDTO) {
	i.Date = dto.Date
	i.Source = dto.Source
	i.Description = dto.Description
	i.Amount = dto.Amount.Round(2)
	i.PaymentMode = dto.PaymentMode
	i.Status = dto.Status
	i.Notes = dto.Notes
}

func ToDataModel(i *Income) *incomeDatamodel.Income {
	return &incomeDatamodel.Income{
		ID:          i.ID,
		Date:        i.Date,
		Source:      i.Source,
		Description: i.Description,
		Amount:      i.Amount,
		PaymentMode: i.PaymentMode,
		Status:      i.Status,
		Notes:       i.Notes,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func FromDataModel(i *incomeDatamodel.Income) *Income {
	return &Income{
		ID:          i.ID,
		Date:        i.Date,
		Source:      i.Source,
		Description: i.Description,
		Amount:      i.Amount,
		PaymentMode: i.PaymentMode,
		Status:      i.Status,
		Notes:       i.Notes,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func FromDataModelSlice(entries []*incomeDatamodel.Income) []*Income {
	result := make([]*Income, len(entries))
	for n, i := range entries {
		result[n] = FromDataModel(i)
	}
	return result
}

var CSVHeader = []string{"Date", "Source", "Description", "Amount", "Payment Mode", "Status", "Notes"}
