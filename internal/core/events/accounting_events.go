package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeAttendanceUpdated   = "attendance.updated"
	EventTypeAttendanceDayRolled = "attendance.day_rolled"
	EventTypeRecordChanged       = "record.changed"
)

// Types lists every event the hub forwards to websocket clients.
var Types = []string{
	EventTypeAttendanceUpdated,
	EventTypeAttendanceDayRolled,
	EventTypeRecordChanged,
}

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

type AttendanceUpdatedEvent struct {
	BaseEvent
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
}

func NewAttendanceUpdatedEvent(employeeID, date string, summary interface{}) *AttendanceUpdatedEvent {
	return &AttendanceUpdatedEvent{
		BaseEvent: newBase(EventTypeAttendanceUpdated, map[string]interface{}{
			"employee_id": employeeID,
			"date":        date,
			"summary":     summary,
		}),
		EmployeeID: employeeID,
		Date:       date,
	}
}

type DayRolledEvent struct {
	BaseEvent
	Today string `json:"today"`
}

func NewDayRolledEvent(today string, grid interface{}) *DayRolledEvent {
	return &DayRolledEvent{
		BaseEvent: newBase(EventTypeAttendanceDayRolled, map[string]interface{}{
			"today": today,
			"week":  grid,
		}),
		Today: today,
	}
}

type RecordChangedEvent struct {
	BaseEvent
	Kind     string `json:"kind"`
	Action   string `json:"action"`
	RecordID string `json:"record_id"`
}

func NewRecordChangedEvent(kind, action, recordID string) *RecordChangedEvent {
	return &RecordChangedEvent{
		BaseEvent: newBase(EventTypeRecordChanged, map[string]interface{}{
			"kind":      kind,
			"action":    action,
			"record_id": recordID,
		}),
		Kind:     kind,
		Action:   action,
		RecordID: recordID,
	}
}
