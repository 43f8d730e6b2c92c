package expense

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/haingladys/jsdc-accounting/internal/ledger"
	"github.com/haingladys/jsdc-accounting/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto ExpenseDTO) (*Expense, error)
	Get(ctx context.Context, id string) (*Expense, error)
	Update(ctx context.Context, id string, dto ExpenseDTO) (*Expense, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ledger.Filter) ([]*Expense, error)
	Totals(ctx context.Context, start, end string) (ledger.Totals, error)
	ExportCSV(ctx context.Context, filter ledger.Filter, w io.Writer) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.ListExpenses)
	r.Post("/", h.CreateExpense)
	r.Get("/totals", h.GetTotals)
	r.Get("/export.csv", h.ExportCSV)
	r.Get("/{id}", h.GetExpense)
	r.Put("/{id}", h.UpdateExpense)
	r.Delete("/{id}", h.DeleteExpense)
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var dto ExpenseDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	expense, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.Logger.Warn("CreateExpense: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, expense)
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, expense)
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var dto ExpenseDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	expense, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, expense)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Service.List(r.Context(), ledger.FilterFromQuery(r.URL.Query()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{
		Expenses: expenses,
		Count:    len(expenses),
		Total:    Sum(expenses),
	})
}

func (h *Handler) GetTotals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	totals, err := h.Service.Totals(r.Context(), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, totals)
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Service.ExportCSV(r.Context(), ledger.FilterFromQuery(r.URL.Query()), &buf); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("expenses-%s.csv", time.Now().Format("2006-01-02"))
	h.WriteAttachment(w, "text/csv; charset=utf-8", filename, buf.Bytes())
}
