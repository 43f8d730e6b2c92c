// Package attendance tracks daily employee presence: a Monday-based week
// grid, today's counts, per-employee percentages and the midnight roll-over.
package attendance

import (
	"time"

	attendanceDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/attendance"
	"github.com/haingladys/jsdc-accounting/internal/period"
	"github.com/shopspring/decimal"
)

const (
	StatusPresent = "1"
	StatusHalfDay = "0.5"
	StatusAbsent  = "0"
)

var Statuses = []string{StatusPresent, StatusHalfDay, StatusAbsent}

func ValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// Weight is the present-equivalent value of a status.
func Weight(status string) decimal.Decimal {
	switch status {
	case StatusPresent:
		return decimal.NewFromInt(1)
	case StatusHalfDay:
		return decimal.NewFromFloat(0.5)
	}
	return decimal.Zero
}

type Employee struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	JoinDate  string    `json:"join_date"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Record struct {
	EmployeeID string    `json:"employee_id"`
	Date       string    `json:"date"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Percentage is an attendance rate; Defined is false when the period had no
// working days and the rate is reported as 0.
type Percentage struct {
	Value   decimal.Decimal `json:"value"`
	Defined bool            `json:"defined"`
}

// CalculatePercentage returns (present + 0.5*half) / workingDays * 100 rounded to two places.
func CalculatePercentage(present, half, workingDays int) Percentage {
	if workingDays <= 0 {
		return Percentage{Value: decimal.Zero}
	}
	attended := decimal.NewFromInt(int64(present)).Add(decimal.NewFromInt(int64(half)).Mul(decimal.NewFromFloat(0.5)))
	value := attended.Div(decimal.NewFromInt(int64(workingDays))).Mul(decimal.NewFromInt(100)).Round(2)
	return Percentage{Value: value, Defined: true}
}

// DefaultWeekdays is the working week used when none is configured.
var DefaultWeekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday,
}

// CountedWindow is the part of [start, end] an employee can be held to: it
// begins no earlier than joinDate and ends no later than today. An
// unparseable joinDate is ignored. The window is empty when to is before from.
func CountedWindow(joinDate string, start, end, today time.Time) (from, to time.Time) {
	from = period.DateOf(start)
	if joinDate != "" {
		if joined, err := period.ParseDate(joinDate); err == nil && joined.After(from) {
			from = joined
		}
	}
	to = period.DateOf(end)
	if t := period.DateOf(today); t.Before(to) {
		to = t
	}
	return from, to
}

// WorkingDays counts the days of CountedWindow that fall on one of weekdays.
// An empty weekdays means DefaultWeekdays.
func WorkingDays(joinDate string, start, end, today time.Time, weekdays []time.Weekday) int {
	from, to := CountedWindow(joinDate, start, end, today)
	days := period.DaysBetween(from, to)
	if days == 0 {
		return 0
	}
	working := weekdaySet(weekdays)

	perWeek := 0
	for _, on := range working {
		if on {
			perWeek++
		}
	}
	count := days / 7 * perWeek
	for d := from.AddDate(0, 0, days/7*7); !d.After(to); d = d.AddDate(0, 0, 1) {
		if working[d.Weekday()] {
			count++
		}
	}
	return count
}

func weekdaySet(weekdays []time.Weekday) [7]bool {
	if len(weekdays) == 0 {
		weekdays = DefaultWeekdays
	}
	var set [7]bool
	for _, d := range weekdays {
		if d >= time.Sunday && d <= time.Saturday {
			set[d] = true
		}
	}
	return set
}

// Weekdays converts stored weekday numbers, Sunday = 0, skipping anything out of range.
func Weekdays(days []int) []time.Weekday {
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if d >= 0 && d <= 6 {
			out = append(out, time.Weekday(d))
		}
	}
	return out
}

func EmployeeToDataModel(e *Employee) *attendanceDatamodel.Employee {
	return &attendanceDatamodel.Employee{
		ID:        e.ID,
		Name:      e.Name,
		JoinDate:  e.JoinDate,
		Active:    e.Active,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func EmployeeFromDataModel(e *attendanceDatamodel.Employee) *Employee {
	return &Employee{
		ID:        e.ID,
		Name:      e.Name,
		JoinDate:  e.JoinDate,
		Active:    e.Active,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func EmployeesFromDataModel(rows []*attendanceDatamodel.Employee) []*Employee {
	result := make([]*Employee, len(rows))
	for i, e := range rows {
		result[i] = EmployeeFromDataModel(e)
	}
	return result
}

func RecordToDataModel(r *Record) *attendanceDatamodel.Record {
	return &attendanceDatamodel.Record{
		EmployeeID: r.EmployeeID,
		Date:       r.Date,
		Status:     r.Status,
		Notes:      r.Notes,
		UpdatedAt:  r.UpdatedAt,
	}
}

func RecordFromDataModel(r *attendanceDatamodel.Record) *Record {
	return &Record{
		EmployeeID: r.EmployeeID,
		Date:       r.Date,
		Status:     r.Status,
		Notes:      r.Notes,
		UpdatedAt:  r.UpdatedAt,
	}
}

func RecordsFromDataModel(rows []*attendanceDatamodel.Record) []*Record {
	result := make([]*Record, len(rows))
	for i, r := range rows {
		result[i] = RecordFromDataModel(r)
	}
	return result
}
