package attendance

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/haingladys/jsdc-accounting/internal/transport"
)

type ServiceAPI interface {
	CreateEmployee(ctx context.Context, dto EmployeeDTO) (*Employee, error)
	ListEmployees(ctx context.Context, activeOnly bool) ([]*Employee, error)
	UpdateEmployee(ctx context.Context, id string, dto EmployeeDTO) (*Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
	UpdateAttendance(ctx context.Context, dto AttendanceDTO) (*Record, error)
	GetAttendance(ctx context.Context, employeeID, date string) (*Record, error)
	ClearAttendance(ctx context.Context, employeeID, date string) error
	WeekGrid(ctx context.Context) (*WeekGrid, error)
	TodaySummary(ctx context.Context) (*TodaySummary, error)
	EmployeeSummary(ctx context.Context, employeeID, start, end string) (*EmployeeSummary, error)
	MonthlyChart(ctx context.Context, year, month int) (*ChartResponse, error)
	Now() time.Time
}

// DayChecker is the roll-over re-check behind GET /week?refresh=1.
type DayChecker interface {
	Check(ctx context.Context, now time.Time) bool
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Rollover DayChecker
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, rollover DayChecker) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Rollover:    rollover,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/employees", h.ListEmployees)
	r.Post("/employees", h.CreateEmployee)
	r.Put("/employees/{id}", h.UpdateEmployee)
	r.Delete("/employees/{id}", h.DeleteEmployee)
	r.Get("/employees/{id}/summary", h.GetEmployeeSummary)
	r.Put("/records", h.UpdateAttendance)
	r.Get("/records/{employeeID}/{date}", h.GetAttendance)
	r.Delete("/records/{employeeID}/{date}", h.ClearAttendance)
	r.Get("/week", h.GetWeek)
	r.Get("/today", h.GetToday)
	r.Get("/chart", h.GetChart)
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	employees, err := h.Service.ListEmployees(r.Context(), activeOnly)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"employees": employees,
		"count":     len(employees),
	})
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var dto EmployeeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	employee, err := h.Service.CreateEmployee(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, employee)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var dto EmployeeDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	employee, err := h.Service.UpdateEmployee(r.Context(), chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, employee)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteEmployee(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetEmployeeSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	summary, err := h.Service.EmployeeSummary(r.Context(), chi.URLParam(r, "id"), q.Get("start"), q.Get("end"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) UpdateAttendance(w http.ResponseWriter, r *http.Request) {
	var dto AttendanceDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	record, err := h.Service.UpdateAttendance(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) GetAttendance(w http.ResponseWriter, r *http.Request) {
	record, err := h.Service.GetAttendance(r.Context(), chi.URLParam(r, "employeeID"), chi.URLParam(r, "date"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) ClearAttendance(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.ClearAttendance(r.Context(), chi.URLParam(r, "employeeID"), chi.URLParam(r, "date")); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("refresh") == "1" && h.Rollover != nil {
		h.Rollover.Check(r.Context(), h.Service.Now())
	}

	grid, err := h.Service.WeekGrid(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, grid)
}

func (h *Handler) GetToday(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.TodaySummary(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	now := h.Service.Now()
	year := h.QueryInt(r, "year", now.Year())
	month := h.QueryInt(r, "month", int(now.Month()))

	chart, err := h.Service.MonthlyChart(r.Context(), year, month)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, chart)
}
