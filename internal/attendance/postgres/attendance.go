package postgres

import (
	"context"
	"errors"

	attendanceDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/attendance"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttendanceRepository implements attendance.Repository using GORM
type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) CreateEmployee(ctx context.Context, e *attendanceDatamodel.Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *AttendanceRepository) UpdateEmployee(ctx context.Context, e *attendanceDatamodel.Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *AttendanceRepository) GetEmployee(ctx context.Context, id string) (*attendanceDatamodel.Employee, error) {
	var e attendanceDatamodel.Employee
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *AttendanceRepository) ListEmployees(ctx context.Context, activeOnly bool) ([]*attendanceDatamodel.Employee, error) {
	var employees []*attendanceDatamodel.Employee
	query := r.db.WithContext(ctx).Order("name ASC").Order("id ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Find(&employees).Error
	return employees, err
}

func (r *AttendanceRepository) DeleteEmployee(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", id).Delete(&attendanceDatamodel.Record{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&attendanceDatamodel.Employee{}).Error
	})
}

// UpsertRecord keeps one row per (employee_id, date); the newest write wins.
func (r *AttendanceRepository) UpsertRecord(ctx context.Context, rec *attendanceDatamodel.Record) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "notes", "updated_at"}),
	}).Create(rec).Error
}

func (r *AttendanceRepository) GetRecord(ctx context.Context, employeeID, date string) (*attendanceDatamodel.Record, error) {
	var rec attendanceDatamodel.Record
	err := r.db.WithContext(ctx).Where("employee_id = ? AND date = ?", employeeID, date).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *AttendanceRepository) DeleteRecord(ctx context.Context, employeeID, date string) error {
	return r.db.WithContext(ctx).
		Where("employee_id = ? AND date = ?", employeeID, date).
		Delete(&attendanceDatamodel.Record{}).Error
}

func (r *AttendanceRepository) ListRecords(ctx context.Context, start, end string) ([]*attendanceDatamodel.Record, error) {
	var records []*attendanceDatamodel.Record
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", start, end).
		Order("date ASC").
		Find(&records).Error
	return records, err
}

func (r *AttendanceRepository) ListEmployeeRecords(ctx context.Context, employeeID, start, end string) ([]*attendanceDatamodel.Record, error) {
	var records []*attendanceDatamodel.Record
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND date >= ? AND date <= ?", employeeID, start, end).
		Order("date ASC").
		Find(&records).Error
	return records, err
}
