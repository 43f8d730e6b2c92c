package payroll

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/haingladys/jsdc-accounting/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto EmployeeDTO) (*Employee, error)
	Get(ctx context.Context, id string) (*Employee, error)
	Update(ctx context.Context, id string, dto EmployeeDTO) (*Employee, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]*Employee, error)
	MarkPaid(ctx context.Context, id string) (*Employee, error)
	MarkUnpaid(ctx context.Context, id string) (*Employee, error)
	Summary(ctx context.Context, month, year int) (Summary, error)
	Payslip(ctx context.Context, id string) ([]byte, string, error)
	ExportCSV(ctx context.Context, filter ListFilter, w io.Writer) error
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
	r.Get("/", h.ListPayroll)
	r.Post("/", h.CreateEntry)
	r.Get("/summary", h.GetSummary)
	r.Get("/export.csv", h.ExportCSV)
	r.Get("/{id}", h.GetEntry)
	r.Put("/{id}", h.UpdateEntry)
	r.Delete("/{id}", h.DeleteEntry)
	r.Post("/{id}/paid", h.MarkPaid)
	r.Post("/{id}/unpaid", h.MarkUnpaid)
	r.Get("/{id}/payslip.pdf", h.DownloadPayslip)
}

func (h *Handler) filter(r *http.Request) ListFilter {
	return ListFilter{
		Month:  h.QueryInt(r, "month", 0),
		Year:   h.QueryInt(r, "year", 0),
		Status: strings.ToLower(r.URL.Query().Get("status")),
	}
}

func (h *Handler) ListPayroll(w http.ResponseWriter, r *http.Request) {
	filter := h.filter(r)
	employees, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{
		Employees: employees,
		Summary:   Summarize(filter.Month, filter.Year, employees),
	})
}

func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var dto EmployeeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	e, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	e, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	var dto EmployeeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	e, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	e, err := h.Service.MarkPaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) MarkUnpaid(w http.ResponseWriter, r *http.Request) {
	e, err := h.Service.MarkUnpaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	filter := h.filter(r)
	summary, err := h.Service.Summary(r.Context(), filter.Month, filter.Year)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) DownloadPayslip(w http.ResponseWriter, r *http.Request) {
	data, filename, err := h.Service.Payslip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteAttachment(w, "application/pdf", filename, data)
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	filter := h.filter(r)
	var buf bytes.Buffer
	if err := h.Service.ExportCSV(r.Context(), filter, &buf); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("payroll-%04d-%02d.csv", filter.Year, filter.Month)
	h.WriteAttachment(w, "text/csv; charset=utf-8", filename, buf.Bytes())
}
