package purchase

import (
	"time"

	purchaseDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/purchase"
	"github.com/shopspring/decimal"
)

const (
	StatusPaid    = "paid"
	StatusPending = "pending"
	StatusPartial = "partial"
)

var Statuses = []string{StatusPaid, StatusPending, StatusPartial}

type Purchase struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Vendor      string          `json:"vendor"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    decimal.Decimal `json:"quantity"`
	GSTAmount   decimal.Decimal `json:"gst_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaymentMode string          `json:"payment_mode"`
	Status      string          `json:"status"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ComputeTotal is unit price times quantity plus GST, rounded to paise.
func ComputeTotal(unitPrice, quantity, gst decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(quantity).Add(gst).Round(2)
}

func (p *Purchase) apply(dto PurchaseDTO) {
	p.Date = dto.Date
	p.Category = dto.Category
	p.Vendor = dto.Vendor
	p.Description = dto.Description
	p.UnitPrice = dto.UnitPrice
	p.Quantity = dto.Quantity
	p.GSTAmount = dto.GSTAmount
	p.TotalAmount = ComputeTotal(dto.UnitPrice, dto.Quantity, dto.GSTAmount)
	p.PaymentMode = dto.PaymentMode
	p.Status = dto.Status
	p.Notes = dto.Notes
}

func ToDataModel(p *Purchase) *purchaseDatamodel.Purchase {
	return &purchaseDatamodel.Purchase{
		ID:          p.ID,
		Date:        p.Date,
		Category:    p.Category,
		Vendor:      p.Vendor,
		Description: p.Description,
		UnitPrice:   p.UnitPrice,
		Quantity:    p.Quantity,
		GSTAmount:   p.GSTAmount,
		TotalAmount: p.TotalAmount,
		PaymentMode: p.PaymentMode,
		Status:      p.Status,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromDataModel(p *purchaseDatamodel.Purchase) *Purchase {
	return &Purchase{
		ID:          p.ID,
		Date:        p.Date,
		Category:    p.Category,
		Vendor:      p.Vendor,
		Description: p.Description,
		UnitPrice:   p.UnitPrice,
		Quantity:    p.Quantity,
		GSTAmount:   p.GSTAmount,
		TotalAmount: p.TotalAmount,
		PaymentMode: p.PaymentMode,
		Status:      p.Status,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromDataModelSlice(purchases []*purchaseDatamodel.Purchase) []*Purchase {
	result := make([]*Purchase, len(purchases))
	for i, p := range purchases {
		result[i] = FromDataModel(p)
	}
	return result
}

// CSVHeader is the fixed column order of the purchases export.
var CSVHeader = []string{"Date", "Category", "Vendor", "Description", "Unit Price", "Quantity", "GST", "Total", "Payment Mode", "Status", "Notes"}
