package dashboard

import (
	"context"
	"net/http"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/transport"
)

type ServiceAPI interface {
	Charts(ctx context.Context, periodType, selected, start, end string) (*ChartsResponse, error)
	Summary(ctx context.Context) (*Summary, error)
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

// GetCharts handles GET /api/dashboard-charts/. Failures still carry a
// renderable empty chart.
func (h *Handler) GetCharts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.Service.Charts(r.Context(), q.Get("period"), q.Get("selected_period"), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		status := http.StatusInternalServerError
		message := "failed to load dashboard data"
		if appErr, ok := internal.IsAppError(err); ok {
			status = appErr.StatusCode
			if status < http.StatusInternalServerError {
				message = appErr.Message
			}
		}
		h.Logger.Warn("dashboard charts failed", "error", err, "status", status)
		h.WriteJSON(w, status, ChartsResponse{
			Success:       false,
			Error:         message,
			PeriodType:    q.Get("period"),
			LineChart:     FallbackChart(),
			MonthOverview: emptyOverview(),
		})
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.Summary(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, summary)
}
