// Package ledger holds what purchases, expenses and income records share:
// payment modes, list filters, totals and CSV export.
package ledger

import (
	"context"
	"encoding/csv"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/core/common/validation"
	"github.com/haingladys/jsdc-accounting/internal/core/events"
	"github.com/shopspring/decimal"
)

const (
	KindPurchase = "purchase"
	KindExpense  = "expense"
	KindIncome   = "income"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

const (
	PaymentCash   = "cash"
	PaymentBank   = "bank"
	PaymentUPI    = "upi"
	PaymentCard   = "card"
	PaymentCheque = "cheque"
	PaymentOther  = "other"
)

var PaymentModes = []string{PaymentCash, PaymentBank, PaymentUPI, PaymentCard, PaymentCheque, PaymentOther}

// Filter narrows list and export queries. Empty fields do not filter.
type Filter struct {
	Start    string `json:"start_date,omitempty"`
	End      string `json:"end_date,omitempty"`
	Category string `json:"category,omitempty"`
	Status   string `json:"status,omitempty"`
	Search   string `json:"search,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

func (f Filter) Validate() error {
	v := validation.NewValidator()
	v.Field("start_date", f.Start).Date()
	v.Field("end_date", f.End).Date()
	v.Field("limit", f.Limit).MinInt(0, internal.ErrCodeValidationFailed).MaxInt(1000, internal.ErrCodeValidationFailed)
	v.Field("offset", f.Offset).MinInt(0, internal.ErrCodeValidationFailed)
	if err := v.Validate(); err != nil {
		return err
	}
	if f.Start != "" && f.End != "" && f.Start > f.End {
		return internal.NewValidationFieldError("start_date", "start_date must not be after end_date", internal.ErrCodeInvalidDate)
	}
	return nil
}

// Totals is the count and amount sum of the records in a window.
type Totals struct {
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
	GST   decimal.Decimal `json:"gst"`
}

// Publisher is the slice of the event bus the record services use.
type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Notify publishes a record.changed event when a publisher is wired.
func Notify(ctx context.Context, publisher Publisher, kind, action, id string) {
	if publisher == nil {
		return
	}
	_ = publisher.Publish(ctx, events.NewRecordChangedEvent(kind, action, id))
}

// Amount formats money with two decimals for exports.
func Amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// WriteCSV writes a header and rows, quoting every field that needs it.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(sanitize(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// sanitize defuses spreadsheet formula injection in free-text cells.
func sanitize(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		if cell != "" && strings.ContainsRune("=+@", rune(cell[0])) {
			cell = "'" + cell
		}
		out[i] = cell
	}
	return out
}

// FilterFromQuery reads start_date, end_date, category, status, search,
// limit and offset query parameters.
func FilterFromQuery(q url.Values) Filter {
	f := Filter{
		Start:    strings.TrimSpace(q.Get("start_date")),
		End:      strings.TrimSpace(q.Get("end_date")),
		Category: strings.TrimSpace(q.Get("category")),
		Status:   strings.TrimSpace(q.Get("status")),
		Search:   q.Get("search"),
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		f.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil {
		f.Offset = v
	}
	return f
}
