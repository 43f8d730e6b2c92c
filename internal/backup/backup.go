// Package backup exports every collection as one JSON document keyed by the
// storage key names and restores such a document atomically.
package backup

import (
	"fmt"
	"time"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/attendance"
	attendanceDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/attendance"
	expenseDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/expense"
	incomeDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/income"
	payrollDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/payroll"
	purchaseDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/purchase"
	userDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/user"
	"github.com/haingladys/jsdc-accounting/internal/expense"
	"github.com/haingladys/jsdc-accounting/internal/income"
	"github.com/haingladys/jsdc-accounting/internal/payroll"
	"github.com/haingladys/jsdc-accounting/internal/purchase"
	"github.com/haingladys/jsdc-accounting/internal/setting"
)

const Version = "1"

// Document field names match the storage keys.
type Document struct {
	Version             string                 `json:"version"`
	ExportedAt          time.Time              `json:"exportedAt"`
	Settings            setting.Settings       `json:"appSettings"`
	Users               []UserRecord           `json:"filedgeUsers"`
	Purchases           []*purchase.Purchase   `json:"purchasesData"`
	Expenses            []*expense.Expense     `json:"expensesData"`
	Income              []*income.Income       `json:"incomeData"`
	PayrollEmployees    []*payroll.Employee    `json:"payrollEmployees"`
	AttendanceEmployees []*attendance.Employee `json:"attendanceEmployeesV2"`
	AttendanceRecords   []*attendance.Record   `json:"attendanceRecordsV3"`
	PurchaseCategories  []string               `json:"purchaseCategories"`
	ExpenseCategories   []string               `json:"expenseCategories"`
}

// UserRecord carries the bcrypt hash, which the API user view hides.
type UserRecord struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Department   string    `json:"department"`
	Active       bool      `json:"active"`
	CreatedDate  time.Time `json:"created_date"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Snapshot is the row-level content of a document plus the encoded
// key-value blobs (settings, category lists).
type Snapshot struct {
	Users               []*userDatamodel.User
	Purchases           []*purchaseDatamodel.Purchase
	Expenses            []*expenseDatamodel.Expense
	Income              []*incomeDatamodel.Income
	PayrollEmployees    []*payrollDatamodel.Employee
	AttendanceEmployees []*attendanceDatamodel.Employee
	AttendanceRecords   []*attendanceDatamodel.Record
	Values              map[string]string
}

// Validate checks the document can be restored without locking everyone out
// or breaking references.
func (d *Document) Validate() error {
	if d.Version == "" {
		return invalid("version is missing")
	}
	if d.Version != Version {
		return invalid(fmt.Sprintf("unsupported version %q", d.Version))
	}

	admins := 0
	seen := make(map[string]bool, len(d.Users))
	for _, u := range d.Users {
		if u.ID == "" || u.Username == "" || u.PasswordHash == "" {
			return invalid("every user needs an id, a username and a password hash")
		}
		if seen[u.ID] {
			return invalid(fmt.Sprintf("duplicate user id %s", u.ID))
		}
		seen[u.ID] = true
		if u.Active && u.Role == internal.RoleAdmin {
			admins++
		}
	}
	if admins == 0 {
		return invalid("at least one active admin user is required")
	}

	employees := make(map[string]bool, len(d.AttendanceEmployees))
	for _, e := range d.AttendanceEmployees {
		employees[e.ID] = true
	}
	for _, r := range d.AttendanceRecords {
		if !employees[r.EmployeeID] {
			return invalid(fmt.Sprintf("attendance record for unknown employee %s", r.EmployeeID))
		}
		if !attendance.ValidStatus(r.Status) {
			return invalid(fmt.Sprintf("attendance record %s/%s has status %q", r.EmployeeID, r.Date, r.Status))
		}
	}
	return nil
}

func invalid(message string) error {
	return internal.NewValidationError("invalid backup: "+message, internal.ErrCodeInvalidBackup)
}

func userRecordFromDataModel(u *userDatamodel.User) UserRecord {
	return UserRecord{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Email:        u.Email,
		FullName:     u.FullName,
		Department:   u.Department,
		Active:       u.Active,
		CreatedDate:  u.CreatedDate,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (u UserRecord) toDataModel() *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Email:        u.Email,
		FullName:     u.FullName,
		Department:   u.Department,
		Active:       u.Active,
		CreatedDate:  u.CreatedDate,
		UpdatedAt:    u.UpdatedAt,
	}
}
