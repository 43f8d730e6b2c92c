// Package kvstore keeps small JSON documents (category lists, app settings)
// under the fixed storage keys shared with the backup document.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
)

const (
	KeyAttendanceEmployees = "attendanceEmployeesV2"
	KeyAttendanceRecords   = "attendanceRecordsV3"
	KeyPayrollEmployees    = "payrollEmployees"
	KeyPurchases           = "purchasesData"
	KeyExpenses            = "expensesData"
	KeyIncome              = "incomeData"
	KeyPurchaseCategories  = "purchaseCategories"
	KeyExpenseCategories   = "expenseCategories"
	KeyUsers               = "filedgeUsers"
	KeyCurrentUser         = "currentUser"
	KeySettings            = "appSettings"
)

// Keys lists every storage key in backup order.
var Keys = []string{
	KeyAttendanceEmployees,
	KeyAttendanceRecords,
	KeyPayrollEmployees,
	KeyPurchases,
	KeyExpenses,
	KeyIncome,
	KeyPurchaseCategories,
	KeyExpenseCategories,
	KeyUsers,
	KeyCurrentUser,
	KeySettings,
}

func IsKnownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

type Repository interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type Store struct {
	repo   Repository
	logger *slog.Logger
}

func NewStore(repo Repository, logger *slog.Logger) *Store {
	return &Store{
		repo:   repo,
		logger: logger,
	}
}

// Load decodes the value under key into dst. A missing, empty or corrupted
// value leaves dst holding a copy of defaults and is not an error; only
// storage failures are returned.
func (s *Store) Load(ctx context.Context, key string, dst interface{}, defaults interface{}) error {
	raw, found, err := s.repo.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}

	if !found || strings.TrimSpace(raw) == "" {
		return assign(dst, defaults)
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.logger.Warn("stored value is corrupted, using defaults", "key", key, "error", err)
		return assign(dst, defaults)
	}

	return nil
}

// Save encodes value and upserts it under key; the last write wins.
func (s *Store) Save(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.repo.Put(ctx, key, string(data)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	s.logger.Debug("stored value saved", "key", key, "bytes", len(data))
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.repo.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func assign(dst interface{}, defaults interface{}) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("kvstore: destination must be a non-nil pointer, got %T", dst)
	}
	rv.Elem().Set(reflect.Zero(rv.Elem().Type()))

	if defaults == nil {
		return nil
	}
	data, err := json.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("kvstore: encode defaults: %w", err)
	}
	return json.Unmarshal(data, dst)
}
