// Package period turns dated records into chart buckets and resolves the
// week/month/year/custom windows used by the dashboard and reports.
package period

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

const (
	DayLayout   = "2006-01-02"
	MonthLayout = "2006-01"
	YearLayout  = "2006"

	NoDataLabel = "No Data"
)

const (
	TypeWeek   = "week"
	TypeMonth  = "month"
	TypeYear   = "year"
	TypeCustom = "custom"
)

// MaxRangeYears bounds the span of a custom range.
const MaxRangeYears = 10

var ErrInvalidPeriod = errors.New("invalid period")

// Day is one column of the attendance week grid.
type Day struct {
	Key     string    `json:"key"`
	Label   string    `json:"label"`
	Weekday string    `json:"weekday"`
	Date    time.Time `json:"-"`
	IsToday bool      `json:"is_today"`
}

// DateOf drops the clock and zone so dates compare as calendar days.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Key formats t as the YYYY-MM-DD storage key of its calendar day.
func Key(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDate accepts YYYY-MM-DD and RFC3339 values and returns the calendar day.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DayLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return DateOf(t), nil
}

// WeekStart returns the Monday of t's week. Sunday belongs to the week that
// started six days earlier.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	weekday := int(t.Weekday())
	diff := d - weekday
	if weekday == 0 {
		diff -= 6
	} else {
		diff++
	}
	return time.Date(y, m, diff, 0, 0, 0, 0, time.UTC)
}

// WeekDays returns the seven days Monday..Sunday of t's week.
func WeekDays(t time.Time) []Day {
	start := WeekStart(t)
	today := DateOf(t)
	days := make([]Day, 7)
	for i := range days {
		date := start.AddDate(0, 0, i)
		days[i] = Day{
			Key:     Key(date),
			Label:   date.Format("Mon, Jan 2"),
			Weekday: date.Format("Mon"),
			Date:    date,
			IsToday: date.Equal(today),
		}
	}
	return days
}

// WeekOfMonth maps a day of month to buckets 1..4; days 29-31 fold into week 4.
func WeekOfMonth(day int) int {
	week := (day + 6) / 7
	if week < 1 {
		return 1
	}
	if week > 4 {
		return 4
	}
	return week
}

// MonthRange returns the first and last calendar day of the month.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	n := now.With(time.Date(year, month, 15, 12, 0, 0, 0, time.UTC))
	return DateOf(n.BeginningOfMonth()), DateOf(n.EndOfMonth())
}

// YearRange returns Jan 1 and Dec 31 of the year.
func YearRange(year int) (time.Time, time.Time) {
	n := now.With(time.Date(year, time.June, 15, 12, 0, 0, 0, time.UTC))
	return DateOf(n.BeginningOfYear()), DateOf(n.EndOfYear())
}

// ParseRange parses an inclusive custom range; start must not be after end.
func ParseRange(start, end string) (time.Time, time.Time, error) {
	s, err := ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start date: %v", ErrInvalidPeriod, err)
	}
	e, err := ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end date: %v", ErrInvalidPeriod, err)
	}
	if s.After(e) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start date is after end date", ErrInvalidPeriod)
	}
	return s, e, nil
}

// CheckSpan rejects ranges longer than MaxRangeYears.
func CheckSpan(start, end time.Time) error {
	if !DateOf(end).Before(DateOf(start).AddDate(MaxRangeYears, 0, 0)) {
		return fmt.Errorf("%w: range must be shorter than %d years", ErrInvalidPeriod, MaxRangeYears)
	}
	return nil
}

// DaysBetween counts calendar days from a to b inclusive; zero when b is before a.
func DaysBetween(a, b time.Time) int {
	a, b = DateOf(a), DateOf(b)
	if b.Before(a) {
		return 0
	}
	return int(b.Sub(a).Hours()/24) + 1
}

// Window is a resolved inclusive date range plus the bucketing used to chart it.
type Window struct {
	Type  string    `json:"period_type"`
	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
	Mode  Mode      `json:"mode"`
}

func (w Window) StartKey() string { return Key(w.Start) }
func (w Window) EndKey() string   { return Key(w.End) }

// Contains reports whether the calendar day t lies inside the window.
func (w Window) Contains(t time.Time) bool {
	t = DateOf(t)
	return !t.Before(w.Start) && !t.After(w.End)
}

// Resolve turns dashboard/report query parameters into a window. An explicit
// start/end pair always wins over periodType; an empty periodType means the
// current month.
func Resolve(periodType, selected, start, end string, at time.Time) (Window, error) {
	today := DateOf(at)

	if start != "" || end != "" {
		if start == "" || end == "" {
			return Window{}, fmt.Errorf("%w: start_date and end_date must be provided together", ErrInvalidPeriod)
		}
		s, e, err := ParseRange(start, end)
		if err != nil {
			return Window{}, err
		}
		if err := CheckSpan(s, e); err != nil {
			return Window{}, err
		}
		mode := ModeRange
		if DaysBetween(s, e) > 62 {
			mode = ModeMonth
		}
		return Window{Type: TypeCustom, Start: s, End: e, Mode: mode}, nil
	}

	switch strings.ToLower(periodType) {
	case TypeWeek:
		anchor := today
		if selected != "" {
			t, err := ParseDate(selected)
			if err != nil {
				return Window{}, fmt.Errorf("%w: selected week: %v", ErrInvalidPeriod, err)
			}
			anchor = t
		}
		s := WeekStart(anchor)
		return Window{Type: TypeWeek, Start: s, End: s.AddDate(0, 0, 6), Mode: ModeRange}, nil

	case "", TypeMonth:
		year, month := today.Year(), today.Month()
		if selected != "" {
			t, err := time.Parse(MonthLayout, selected)
			if err != nil {
				return Window{}, fmt.Errorf("%w: selected month must be YYYY-MM", ErrInvalidPeriod)
			}
			year, month = t.Year(), t.Month()
		}
		s, e := MonthRange(year, month)
		return Window{Type: TypeMonth, Start: s, End: e, Mode: ModeWeek}, nil

	case TypeYear:
		year := today.Year()
		if selected != "" {
			y, err := strconv.Atoi(selected)
			if err != nil || y < 1900 || y > 9999 {
				return Window{}, fmt.Errorf("%w: selected year must be YYYY", ErrInvalidPeriod)
			}
			year = y
		}
		s, e := YearRange(year)
		return Window{Type: TypeYear, Start: s, End: e, Mode: ModeMonth}, nil

	case TypeCustom:
		return Window{}, fmt.Errorf("%w: custom period requires start_date and end_date", ErrInvalidPeriod)
	}

	return Window{}, fmt.Errorf("%w: unknown period %q", ErrInvalidPeriod, periodType)
}
