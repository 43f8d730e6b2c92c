package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/attendance"
	"github.com/haingladys/jsdc-accounting/internal/category"
	"github.com/haingladys/jsdc-accounting/internal/expense"
	"github.com/haingladys/jsdc-accounting/internal/income"
	"github.com/haingladys/jsdc-accounting/internal/kvstore"
	"github.com/haingladys/jsdc-accounting/internal/ledger"
	"github.com/haingladys/jsdc-accounting/internal/payroll"
	"github.com/haingladys/jsdc-accounting/internal/purchase"
	"github.com/haingladys/jsdc-accounting/internal/setting"
)

type Repository interface {
	Load(ctx context.Context) (*Snapshot, error)
	// Replace swaps every table and value for the snapshot in one transaction.
	Replace(ctx context.Context, snapshot *Snapshot) error
}

type SettingsReader interface {
	Get(ctx context.Context) (setting.Settings, error)
}

type CategoryLister interface {
	List(ctx context.Context, kind category.Kind) ([]string, error)
}

type Service struct {
	repo       Repository
	settings   SettingsReader
	categories CategoryLister
	publisher  ledger.Publisher
	logger     *slog.Logger
}

func NewService(repo Repository, settings SettingsReader, categories CategoryLister, publisher ledger.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		settings:   settings,
		categories: categories,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *Service) Export(ctx context.Context) (*Document, error) {
	snapshot, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error("failed to load backup snapshot", "error", err)
		return nil, internal.NewInternalError("failed to export backup", err)
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	purchaseCategories, err := s.categories.List(ctx, category.KindPurchase)
	if err != nil {
		return nil, err
	}
	expenseCategories, err := s.categories.List(ctx, category.KindExpense)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Version:             Version,
		ExportedAt:          time.Now().UTC(),
		Settings:            settings,
		Users:               make([]UserRecord, len(snapshot.Users)),
		Purchases:           purchase.FromDataModelSlice(snapshot.Purchases),
		Expenses:            expense.FromDataModelSlice(snapshot.Expenses),
		Income:              income.FromDataModelSlice(snapshot.Income),
		PayrollEmployees:    payroll.FromDataModelSlice(snapshot.PayrollEmployees),
		AttendanceEmployees: attendance.EmployeesFromDataModel(snapshot.AttendanceEmployees),
		AttendanceRecords:   attendance.RecordsFromDataModel(snapshot.AttendanceRecords),
		PurchaseCategories:  purchaseCategories,
		ExpenseCategories:   expenseCategories,
	}
	for i, u := range snapshot.Users {
		doc.Users[i] = userRecordFromDataModel(u)
	}

	s.logger.Info("backup exported",
		"users", len(doc.Users),
		"purchases", len(doc.Purchases),
		"expenses", len(doc.Expenses),
		"income", len(doc.Income),
		"attendance_records", len(doc.AttendanceRecords))
	return doc, nil
}

// Import replaces all data with the document. Nothing is written when the
// document is invalid.
func (s *Service) Import(ctx context.Context, doc *Document) error {
	if doc == nil {
		return invalid("document is empty")
	}
	if err := doc.Validate(); err != nil {
		s.logger.Warn("backup rejected", "error", err)
		return err
	}

	snapshot, err := toSnapshot(doc)
	if err != nil {
		return internal.NewInternalError("failed to encode backup values", err)
	}

	if err := s.repo.Replace(ctx, snapshot); err != nil {
		s.logger.Error("failed to import backup", "error", err)
		return internal.NewInternalError("failed to import backup", err)
	}

	s.logger.Info("backup imported", "version", doc.Version, "exported_at", doc.ExportedAt, "users", len(doc.Users))
	ledger.Notify(ctx, s.publisher, "backup", "imported", doc.Version)
	return nil
}

// Decode reads a document, reporting malformed JSON as a validation error.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, invalid(fmt.Sprintf("malformed JSON: %v", err))
	}
	return &doc, nil
}

func Encode(w io.Writer, doc *Document) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func toSnapshot(doc *Document) (*Snapshot, error) {
	snapshot := &Snapshot{Values: make(map[string]string, 3)}

	for _, u := range doc.Users {
		snapshot.Users = append(snapshot.Users, u.toDataModel())
	}
	for _, p := range doc.Purchases {
		snapshot.Purchases = append(snapshot.Purchases, purchase.ToDataModel(p))
	}
	for _, e := range doc.Expenses {
		snapshot.Expenses = append(snapshot.Expenses, expense.ToDataModel(e))
	}
	for _, i := range doc.Income {
		snapshot.Income = append(snapshot.Income, income.ToDataModel(i))
	}
	for _, e := range doc.PayrollEmployees {
		snapshot.PayrollEmployees = append(snapshot.PayrollEmployees, payroll.ToDataModel(e))
	}
	for _, e := range doc.AttendanceEmployees {
		snapshot.AttendanceEmployees = append(snapshot.AttendanceEmployees, attendance.EmployeeToDataModel(e))
	}
	for _, r := range doc.AttendanceRecords {
		snapshot.AttendanceRecords = append(snapshot.AttendanceRecords, attendance.RecordToDataModel(r))
	}

	values := map[string]interface{}{
		kvstore.KeySettings:           doc.Settings,
		kvstore.KeyPurchaseCategories: nonNil(doc.PurchaseCategories),
		kvstore.KeyExpenseCategories:  nonNil(doc.ExpenseCategories),
	}
	for key, value := range values {
		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		snapshot.Values[key] = string(data)
	}
	return snapshot, nil
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
