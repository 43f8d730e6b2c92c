package attendance

import "time"

type Employee struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	Name      string    `gorm:"column:name;not null"`
	JoinDate  string    `gorm:"column:join_date;type:varchar(10)"`
	Active    bool      `gorm:"column:active;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Employee) TableName() string {
	return "attendance_employees"
}

// Record is keyed by (employee_id, date); a second write for the same day replaces the first.
type Record struct {
	EmployeeID string    `gorm:"primaryKey;column:employee_id;type:varchar(36)"`
	Date       string    `gorm:"primaryKey;column:date;type:varchar(10)"`
	Status     string    `gorm:"column:status;type:varchar(4);not null"`
	Notes      string    `gorm:"column:notes"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (Record) TableName() string {
	return "attendance_records"
}
