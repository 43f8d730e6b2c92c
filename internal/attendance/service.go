package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/haingladys/jsdc-accounting/internal"
	attendanceDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/attendance"
	"github.com/haingladys/jsdc-accounting/internal/core/events"
	"github.com/haingladys/jsdc-accounting/internal/period"
	"github.com/haingladys/jsdc-accounting/internal/setting"
)

type Repository interface {
	CreateEmployee(ctx context.Context, e *attendanceDatamodel.Employee) error
	UpdateEmployee(ctx context.Context, e *attendanceDatamodel.Employee) error
	GetEmployee(ctx context.Context, id string) (*attendanceDatamodel.Employee, error)
	ListEmployees(ctx context.Context, activeOnly bool) ([]*attendanceDatamodel.Employee, error)
	// DeleteEmployee removes the employee and every record keyed by it.
	DeleteEmployee(ctx context.Context, id string) error

	UpsertRecord(ctx context.Context, r *attendanceDatamodel.Record) error
	GetRecord(ctx context.Context, employeeID, date string) (*attendanceDatamodel.Record, error)
	DeleteRecord(ctx context.Context, employeeID, date string) error
	ListRecords(ctx context.Context, start, end string) ([]*attendanceDatamodel.Record, error)
	ListEmployeeRecords(ctx context.Context, employeeID, start, end string) ([]*attendanceDatamodel.Record, error)
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// SettingsReader supplies the configured working week.
type SettingsReader interface {
	Get(ctx context.Context) (setting.Settings, error)
}

type Option func(*Service)

// WithClock replaces time.Now, mostly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithSettings reads working days from the company settings; without it
// DefaultWeekdays is used.
func WithSettings(settings SettingsReader) Option {
	return func(s *Service) { s.settings = settings }
}

// WithLocation sets the zone in which "today" is resolved.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

type Service struct {
	repo      Repository
	publisher Publisher
	settings  SettingsReader
	logger    *slog.Logger
	clock     func() time.Time
	loc       *time.Location
}

func NewService(repo Repository, publisher Publisher, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		clock:     time.Now,
		loc:       time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now is the current time in the service's location.
func (s *Service) Now() time.Time {
	return s.clock().In(s.loc)
}

func (s *Service) today() string {
	return period.Key(s.Now())
}

func (s *Service) weekdays(ctx context.Context) ([]time.Weekday, error) {
	if s.settings == nil {
		return DefaultWeekdays, nil
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Error("failed to load working days", "error", err)
		return nil, internal.NewInternalError("failed to load working days", err)
	}
	return Weekdays(settings.WorkingDays), nil
}

func (s *Service) CreateEmployee(ctx context.Context, dto EmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	e := &Employee{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(dto.Name),
		JoinDate:  strings.TrimSpace(dto.JoinDate),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if e.JoinDate == "" {
		e.JoinDate = s.today()
	}
	if dto.Active != nil {
		e.Active = *dto.Active
	}

	if err := s.repo.CreateEmployee(ctx, EmployeeToDataModel(e)); err != nil {
		s.logger.Error("failed to create employee", "error", err)
		return nil, internal.NewInternalError("failed to create employee", err)
	}

	s.logger.Info("employee created", "employee_id", e.ID, "name", e.Name)
	s.notify(ctx, e.ID, s.today())
	return e, nil
}

func (s *Service) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	row, err := s.repo.GetEmployee(ctx, id)
	if err != nil {
		s.logger.Error("failed to get employee", "error", err, "employee_id", id)
		return nil, internal.NewInternalError("failed to get employee", err)
	}
	if row == nil {
		return nil, internal.ErrEmployeeNotFound
	}
	return EmployeeFromDataModel(row), nil
}

func (s *Service) ListEmployees(ctx context.Context, activeOnly bool) ([]*Employee, error) {
	rows, err := s.repo.ListEmployees(ctx, activeOnly)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, internal.NewInternalError("failed to list employees", err)
	}
	return EmployeesFromDataModel(rows), nil
}

func (s *Service) UpdateEmployee(ctx context.Context, id string, dto EmployeeDTO) (*Employee, error) {
	e, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e.Name = strings.TrimSpace(dto.Name)
	if joinDate := strings.TrimSpace(dto.JoinDate); joinDate != "" {
		e.JoinDate = joinDate
	}
	if dto.Active != nil {
		e.Active = *dto.Active
	}
	e.UpdatedAt = time.Now()

	if err := s.repo.UpdateEmployee(ctx, EmployeeToDataModel(e)); err != nil {
		s.logger.Error("failed to update employee", "error", err, "employee_id", id)
		return nil, internal.NewInternalError("failed to update employee", err)
	}

	s.notify(ctx, e.ID, s.today())
	return e, nil
}

// DeleteEmployee removes the employee together with all of its attendance records.
func (s *Service) DeleteEmployee(ctx context.Context, id string) error {
	if _, err := s.GetEmployee(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteEmployee(ctx, id); err != nil {
		s.logger.Error("failed to delete employee", "error", err, "employee_id", id)
		return internal.NewInternalError("failed to delete employee", err)
	}

	s.logger.Info("employee deleted", "employee_id", id)
	s.notify(ctx, id, s.today())
	return nil
}

// UpdateAttendance writes the status for (employee, date), replacing any
// earlier record for the same pair.
func (s *Service) UpdateAttendance(ctx context.Context, dto AttendanceDTO) (*Record, error) {
	dto.EmployeeID = strings.TrimSpace(dto.EmployeeID)
	dto.Date = strings.TrimSpace(dto.Date)
	dto.Status = strings.TrimSpace(dto.Status)
	if err := dto.Validate(); err != nil {
		s.logger.Warn("attendance validation failed", "error", err, "employee_id", dto.EmployeeID)
		return nil, err
	}
	if _, err := s.GetEmployee(ctx, dto.EmployeeID); err != nil {
		return nil, err
	}

	r := &Record{
		EmployeeID: dto.EmployeeID,
		Date:       dto.Date,
		Status:     dto.Status,
		Notes:      strings.TrimSpace(dto.Notes),
		UpdatedAt:  time.Now(),
	}
	if err := s.repo.UpsertRecord(ctx, RecordToDataModel(r)); err != nil {
		s.logger.Error("failed to save attendance", "error", err, "employee_id", r.EmployeeID, "date", r.Date)
		return nil, internal.NewInternalError("failed to save attendance", err)
	}

	s.logger.Debug("attendance updated", "employee_id", r.EmployeeID, "date", r.Date, "status", r.Status)
	s.notify(ctx, r.EmployeeID, r.Date)
	return r, nil
}

func (s *Service) GetAttendance(ctx context.Context, employeeID, date string) (*Record, error) {
	row, err := s.repo.GetRecord(ctx, employeeID, date)
	if err != nil {
		s.logger.Error("failed to get attendance", "error", err, "employee_id", employeeID, "date", date)
		return nil, internal.NewInternalError("failed to get attendance", err)
	}
	if row == nil {
		return nil, internal.ErrAttendanceNotFound
	}
	return RecordFromDataModel(row), nil
}

func (s *Service) ClearAttendance(ctx context.Context, employeeID, date string) error {
	if _, err := s.GetAttendance(ctx, employeeID, date); err != nil {
		return err
	}
	if err := s.repo.DeleteRecord(ctx, employeeID, date); err != nil {
		s.logger.Error("failed to clear attendance", "error", err, "employee_id", employeeID, "date", date)
		return internal.NewInternalError("failed to clear attendance", err)
	}
	s.notify(ctx, employeeID, date)
	return nil
}

// WeekGrid builds the grid for the week containing today.
func (s *Service) WeekGrid(ctx context.Context) (*WeekGrid, error) {
	return s.WeekGridAt(ctx, s.Now())
}

func (s *Service) WeekGridAt(ctx context.Context, at time.Time) (*WeekGrid, error) {
	days := period.WeekDays(at)
	employees, err := s.ListEmployees(ctx, true)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListRecords(ctx, days[0].Key, days[len(days)-1].Key)
	if err != nil {
		s.logger.Error("failed to load week records", "error", err)
		return nil, internal.NewInternalError("failed to load attendance", err)
	}

	statuses := make(map[string]map[string]string)
	for _, r := range rows {
		if statuses[r.EmployeeID] == nil {
			statuses[r.EmployeeID] = make(map[string]string)
		}
		statuses[r.EmployeeID][r.Date] = r.Status
	}

	grid := &WeekGrid{Today: period.Key(at), Days: days, Rows: make([]GridRow, len(employees))}
	for i, e := range employees {
		row := GridRow{Employee: e, Statuses: make(map[string]string, len(days))}
		for _, d := range days {
			row.Statuses[d.Key] = statuses[e.ID][d.Key]
		}
		grid.Rows[i] = row
	}
	return grid, nil
}

// TodaySummary counts today's statuses over the active employees.
func (s *Service) TodaySummary(ctx context.Context) (*TodaySummary, error) {
	today := s.today()
	employees, err := s.ListEmployees(ctx, true)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListRecords(ctx, today, today)
	if err != nil {
		s.logger.Error("failed to load today's records", "error", err)
		return nil, internal.NewInternalError("failed to load attendance", err)
	}

	byEmployee := make(map[string]string, len(rows))
	for _, r := range rows {
		byEmployee[r.EmployeeID] = r.Status
	}

	summary := &TodaySummary{Date: today, Total: len(employees)}
	for _, e := range employees {
		switch byEmployee[e.ID] {
		case StatusPresent:
			summary.Present++
		case StatusHalfDay:
			summary.HalfDay++
		case StatusAbsent:
			summary.Absent++
		default:
			summary.Unmarked++
		}
	}
	return summary, nil
}

// EmployeeSummary aggregates one employee's attendance over [start, end]; an
// empty range means the current month.
func (s *Service) EmployeeSummary(ctx context.Context, employeeID, start, end string) (*EmployeeSummary, error) {
	e, err := s.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	var from, to time.Time
	if start == "" && end == "" {
		from, to = period.MonthRange(now.Year(), now.Month())
	} else {
		from, to, err = period.ParseRange(start, end)
		if err == nil {
			err = period.CheckSpan(from, to)
		}
		if err != nil {
			return nil, internal.NewValidationFieldError("start_date", err.Error(), internal.ErrCodeInvalidPeriod)
		}
	}
	weekdays, err := s.weekdays(ctx)
	if err != nil {
		return nil, err
	}

	summary := &EmployeeSummary{
		EmployeeID:  e.ID,
		Name:        e.Name,
		Start:       period.Key(from),
		End:         period.Key(to),
		WorkingDays: WorkingDays(e.JoinDate, from, to, now, weekdays),
	}
	if summary.WorkingDays == 0 {
		summary.Percentage = CalculatePercentage(0, 0, 0)
		return summary, nil
	}

	// Only records inside the counted window and on a working day are
	// measured against WorkingDays.
	countFrom, countTo := CountedWindow(e.JoinDate, from, to, now)
	working := weekdaySet(weekdays)
	rows, err := s.repo.ListEmployeeRecords(ctx, employeeID, period.Key(countFrom), period.Key(countTo))
	if err != nil {
		s.logger.Error("failed to load employee records", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("failed to load attendance", err)
	}
	for _, r := range rows {
		d, err := period.ParseDate(r.Date)
		if err != nil || !working[d.Weekday()] {
			continue
		}
		switch r.Status {
		case StatusPresent:
			summary.Present++
		case StatusHalfDay:
			summary.HalfDays++
		case StatusAbsent:
			summary.Absent++
		}
	}
	summary.Percentage = CalculatePercentage(summary.Present, summary.HalfDays, summary.WorkingDays)
	return summary, nil
}

// MonthlyChart sums present-equivalent attendance per day of the month.
func (s *Service) MonthlyChart(ctx context.Context, year, month int) (*ChartResponse, error) {
	if month < 1 || month > 12 || year < 1900 {
		return nil, internal.NewValidationFieldError("month", fmt.Sprintf("invalid month %d-%d", year, month), internal.ErrCodeInvalidPeriod)
	}
	from, to := period.MonthRange(year, time.Month(month))
	w := period.Window{Type: period.TypeMonth, Start: from, End: to, Mode: period.ModeDay}

	rows, err := s.repo.ListRecords(ctx, w.StartKey(), w.EndKey())
	if err != nil {
		s.logger.Error("failed to load month records", "error", err, "year", year, "month", month)
		return nil, internal.NewInternalError("failed to load attendance", err)
	}

	points := make([]period.Point, len(rows))
	for i, r := range rows {
		points[i] = period.Point{Date: r.Date, Value: Weight(r.Status)}
	}
	buckets := period.Bucketize(points, w)

	return &ChartResponse{
		Year:   year,
		Month:  month,
		Labels: period.Labels(w),
		Values: period.Values(buckets),
	}, nil
}

func (s *Service) notify(ctx context.Context, employeeID, date string) {
	if s.publisher == nil {
		return
	}
	summary, err := s.TodaySummary(ctx)
	if err != nil {
		s.logger.Warn("skipping attendance event", "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, events.NewAttendanceUpdatedEvent(employeeID, date, summary)); err != nil {
		s.logger.Warn("failed to publish attendance event", "error", err)
	}
}
