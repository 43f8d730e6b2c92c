package attendance

import (
	"strings"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/core/common/validation"
	"github.com/haingladys/jsdc-accounting/internal/period"
	"github.com/shopspring/decimal"
)

type EmployeeDTO struct {
	Name     string `json:"name"`
	JoinDate string `json:"join_date"`
	Active   *bool  `json:"active,omitempty"`
}

func (d EmployeeDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", strings.TrimSpace(d.Name)).Required().MaxLength(120)
	v.Field("join_date", strings.TrimSpace(d.JoinDate)).Date()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type AttendanceDTO struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Status     string `json:"status"`
	Notes      string `json:"notes"`
}

func (d AttendanceDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("employee_id", d.EmployeeID).Required()
	v.Field("date", d.Date).Required().Date()
	v.Field("notes", d.Notes).MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}
	if !ValidStatus(d.Status) {
		return internal.ErrInvalidAttendanceStatus
	}
	return nil
}

type GridRow struct {
	Employee *Employee         `json:"employee"`
	Statuses map[string]string `json:"statuses"`
}

// WeekGrid is the Monday..Sunday table of active employees; a day without a
// record has an empty status.
type WeekGrid struct {
	Today string       `json:"today"`
	Days  []period.Day `json:"days"`
	Rows  []GridRow    `json:"rows"`
}

type TodaySummary struct {
	Date     string `json:"date"`
	Total    int    `json:"total"`
	Present  int    `json:"present"`
	HalfDay  int    `json:"half_day"`
	Absent   int    `json:"absent"`
	Unmarked int    `json:"unmarked"`
}

type EmployeeSummary struct {
	EmployeeID  string     `json:"employee_id"`
	Name        string     `json:"name"`
	Start       string     `json:"start_date"`
	End         string     `json:"end_date"`
	Present     int        `json:"present"`
	HalfDays    int        `json:"half_days"`
	Absent      int        `json:"absent"`
	WorkingDays int        `json:"working_days"`
	Percentage  Percentage `json:"percentage"`
}

type ChartResponse struct {
	Year   int               `json:"year"`
	Month  int               `json:"month"`
	Labels []string          `json:"labels"`
	Values []decimal.Decimal `json:"values"`
}
