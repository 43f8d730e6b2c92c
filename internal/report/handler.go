package report

import (
	"context"
	"net/http"
	"net/url"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/transport"
)

type ServiceAPI interface {
	Generate(ctx context.Context, q Query) (*Report, error)
	Export(ctx context.Context, q Query, format string) (*Export, error)
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

type DataResponse struct {
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	Type       string `json:"type,omitempty"`
	PeriodType string `json:"period_type,omitempty"`
	StartDate  string `json:"start_date,omitempty"`
	EndDate    string `json:"end_date,omitempty"`
	Data       *Data  `json:"data,omitempty"`
}

func queryFrom(values url.Values) Query {
	return Query{
		Type:     values.Get("type"),
		Period:   values.Get("period"),
		Selected: values.Get("selected_period"),
		Start:    values.Get("start_date"),
		End:      values.Get("end_date"),
	}
}

// GetReportData handles GET /reports/api/get-report-data/
func (h *Handler) GetReportData(w http.ResponseWriter, r *http.Request) {
	report, err := h.Service.Generate(r.Context(), queryFrom(r.URL.Query()))
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, DataResponse{
		Success:    true,
		Type:       report.Type,
		PeriodType: report.PeriodType,
		StartDate:  report.StartDate,
		EndDate:    report.EndDate,
		Data:       &report.Data,
	})
}

// ExportReport handles GET /reports/api/export/
func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	export, err := h.Service.Export(r.Context(), queryFrom(values), values.Get("format"))
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	h.WriteAttachment(w, export.ContentType, export.Filename, export.Data)
}

func (h *Handler) writeFailure(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "failed to generate report"
	if appErr, ok := internal.IsAppError(err); ok {
		status = appErr.StatusCode
		if status < http.StatusInternalServerError {
			message = appErr.Message
		}
	}
	h.Logger.Warn("report request failed", "error", err, "status", status)
	h.WriteJSON(w, status, DataResponse{Success: false, Error: message})
}
