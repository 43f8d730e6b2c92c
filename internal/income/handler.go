package income

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
	Create(ctx context.Context, dto IncomeDTO) (*Income, error)
	Get(ctx context.Context, id string) (*Income, error)
	Update(ctx context.Context, id string, dto IncomeDTO) (*Income, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ledger.Filter) ([]*Income, error)
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
	r.Get("/", h.ListIncome)
	r.Post("/", h.CreateIncome)
	r.Get("/totals", h.GetTotals)
	r.Get("/export.csv", h.ExportCSV)
	r.Get("/{id}", h.GetIncome)
	r.Put("/{id}", h.UpdateIncome)
	r.Delete("/{id}", h.DeleteIncome)
}

func (h *Handler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	var dto IncomeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	entry, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, entry)
}

func (h *Handler) GetIncome(w http.ResponseWriter, r *http.Request) {
	entry, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) UpdateIncome(w http.ResponseWriter, r *http.Request) {
	var dto IncomeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	entry, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListIncome(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.List(r.Context(), ledger.FilterFromQuery(r.URL.Query()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{
		Income: entries,
		Count:  len(entries),
		Total:  Sum(entries),
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

	filename := fmt.Sprintf("income-%s.csv", time.Now().Format("2006-01-02"))
	h.WriteAttachment(w, "text/csv; charset=utf-8", filename, buf.Bytes())
}
