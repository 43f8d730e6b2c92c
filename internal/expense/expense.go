package expense

import (
	"time"

	expenseDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/expense"
	"github.com/shopspring/decimal"
)

const (
	StatusPaid    = "paid"
	StatusPending = "pending"
)

var Statuses = []string{StatusPaid, StatusPending}

type Expense struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Vendor      string          `json:"vendor"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	GSTAmount   decimal.Decimal `json:"gst_amount"`
	PaymentMode string          `json:"payment_mode"`
	Status      string          `json:"status"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (e *Expense) apply(dto ExpenseDTO) {
	e.Date = dto.Date
	e.Category = dto.Category
	e.Description = dto.Description
	e.Vendor = dto.Vendor
	e.TotalAmount = dto.TotalAmount.Round(2)
	e.GSTAmount = dto.GSTAmount.Round(2)
	e.PaymentMode = dto.PaymentMode
	e.Status = dto.Status
	e.Notes = dto.Notes
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:          e.ID,
		Date:        e.Date,
		Category:    e.Category,
		Description: e.Description,
		Vendor:      e.Vendor,
		TotalAmount: e.TotalAmount,
		GSTAmount:   e.GSTAmount,
		PaymentMode: e.PaymentMode,
		Status:      e.Status,
		Notes:       e.Notes,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	return &Expense{
		ID:          e.ID,
		Date:        e.Date,
		Category:    e.Category,
		Description: e.Description,
		Vendor:      e.Vendor,
		TotalAmount: e.TotalAmount,
		GSTAmount:   e.GSTAmount,
		PaymentMode: e.PaymentMode,
		Status:      e.Status,
		Notes:       e.Notes,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModelSlice(expenses []*expenseDatamodel.Expense) []*Expense {
	result := make([]*Expense, len(expenses))
	for i, e := range expenses {
		result[i] = FromDataModel(e)
	}
	return result
}

var CSVHeader = []string{"Date", "Category", "Description", "Vendor", "Total", "GST", "Payment Mode", "Status", "Notes"}
