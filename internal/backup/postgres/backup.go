package postgres

import (
	"context"

	"github.com/haingladys/jsdc-accounting/internal/backup"
	attendanceDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/attendance"
	expenseDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/expense"
	incomeDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/income"
	payrollDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/payroll"
	purchaseDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/purchase"
	userDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/user"
	kvPostgres "github.com/haingladys/jsdc-accounting/internal/kvstore/postgres"
	"gorm.io/gorm"
)

const batchSize = 200

type BackupRepository struct {
	db *gorm.DB
}

func NewBackupRepository(db *gorm.DB) *BackupRepository {
	return &BackupRepository{db: db}
}

func (r *BackupRepository) Load(ctx context.Context) (*backup.Snapshot, error) {
	snapshot := &backup.Snapshot{}
	db := r.db.WithContext(ctx)

	if err := db.Order("created_date ASC, id ASC").Find(&snapshot.Users).Error; err != nil {
		return nil, err
	}
	if err := db.Order("date ASC, created_at ASC, id ASC").Find(&snapshot.Purchases).Error; err != nil {
		return nil, err
	}
	if err := db.Order("date ASC, created_at ASC, id ASC").Find(&snapshot.Expenses).Error; err != nil {
		return nil, err
	}
	if err := db.Order("date ASC, created_at ASC, id ASC").Find(&snapshot.Income).Error; err != nil {
		return nil, err
	}
	if err := db.Order("year ASC, month ASC, name ASC, id ASC").Find(&snapshot.PayrollEmployees).Error; err != nil {
		return nil, err
	}
	if err := db.Order("name ASC, id ASC").Find(&snapshot.AttendanceEmployees).Error; err != nil {
		return nil, err
	}
	if err := db.Order("employee_id ASC, date ASC").Find(&snapshot.AttendanceRecords).Error; err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Replace only touches tx inside the transaction; sqlite in-memory databases
// run on a single connection.
func (r *BackupRepository) Replace(ctx context.Context, snapshot *backup.Snapshot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&attendanceDatamodel.Record{},
			&attendanceDatamodel.Employee{},
			&payrollDatamodel.Employee{},
			&incomeDatamodel.Income{},
			&expenseDatamodel.Expense{},
			&purchaseDatamodel.Purchase{},
			&userDatamodel.User{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}

		if err := insert(tx, snapshot.Users); err != nil {
			return err
		}
		if err := insert(tx, snapshot.Purchases); err != nil {
			return err
		}
		if err := insert(tx, snapshot.Expenses); err != nil {
			return err
		}
		if err := insert(tx, snapshot.Income); err != nil {
			return err
		}
		if err := insert(tx, snapshot.PayrollEmployees); err != nil {
			return err
		}
		if err := insert(tx, snapshot.AttendanceEmployees); err != nil {
			return err
		}
		if err := insert(tx, snapshot.AttendanceRecords); err != nil {
			return err
		}

		for key, value := range snapshot.Values {
			if err := kvPostgres.Upsert(tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func insert[T any](tx *gorm.DB, rows []*T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.CreateInBatches(rows, batchSize).Error
}
