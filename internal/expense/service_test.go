package expense_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/category"
	expenseDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/expense"
	"github.com/haingladys/jsdc-accounting/internal/expense"
	"github.com/haingladys/jsdc-accounting/internal/ledger"
)

func TestExpense(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Expense Suite")
}

type MockRepository struct {
	expenses   map[string]*expenseDatamodel.Expense
	shouldFail bool
}

func NewMockRepository() *MockRepository {
	return &MockRepository{expenses: make(map[string]*expenseDatamodel.Expense)}
}

func (m *MockRepository) SetShouldFail(fail bool) {
	m.shouldFail = fail
}

func (m *MockRepository) Create(ctx context.Context, e *expenseDatamodel.Expense) error {
	if m.shouldFail {
		return errors.New("database error")
	}
	m.expenses[e.ID] = e
	return nil
}

func (m *MockRepository) Update(ctx context.Context, e *expenseDatamodel.Expense) error {
	if m.shouldFail {
		return errors.New("database error")
	}
	m.expenses[e.ID] = e
	return nil
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	if m.shouldFail {
		return errors.New("database error")
	}
	delete(m.expenses, id)
	return nil
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*expenseDatamodel.Expense, error) {
	if m.shouldFail {
		return nil, errors.New("database error")
	}
	return m.expenses[id], nil
}

func (m *MockRepository) List(ctx context.Context, filter ledger.Filter) ([]*expenseDatamodel.Expense, error) {
	if m.shouldFail {
		return nil, errors.New("database error")
	}
	var result []*expenseDatamodel.Expense
	for _, e := range m.expenses {
		result = append(result, e)
	}
	return result, nil
}

func (m *MockRepository) Totals(ctx context.Context, start, end string) (ledger.Totals, error) {
	if m.shouldFail {
		return ledger.Totals{}, errors.New("database error")
	}
	return ledger.Totals{Count: int64(len(m.expenses))}, nil
}

type expenseCategories struct{}

func (expenseCategories) IsValidCategory(ctx context.Context, kind category.Kind, name string) bool {
	return kind == category.KindExpense && (name == "Rent" || name == "Utilities")
}

var _ = Describe("Service", func() {
	var (
		repo    *MockRepository
		service *expense.Service
		ctx     context.Context
	)

	validDTO := func() expense.ExpenseDTO {
		return expense.ExpenseDTO{
			Date:        "2024-03-01",
			Category:    "Rent",
			Description: "March office rent",
			Vendor:      "Landlord",
			TotalAmount: decimal.RequireFromString("25000"),
			GSTAmount:   decimal.RequireFromString("4500"),
			PaymentMode: "bank",
		}
	}

	BeforeEach(func() {
		repo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = expense.NewService(repo, expenseCategories{}, nil, logger)
		ctx = context.Background()
	})

	Describe("Create", func() {
		It("stores a valid expense as paid by default", func() {
			e, err := service.Create(ctx, validDTO())

			Expect(err).NotTo(HaveOccurred())
			Expect(e.Status).To(Equal(expense.StatusPaid))
			Expect(e.PaymentMode).To(Equal(ledger.PaymentBank))
			Expect(repo.expenses).To(HaveKey(e.ID))
		})

		It("rejects a purchase category", func() {
			dto := validDTO()
			dto.Category = "Raw Materials"

			_, err := service.Create(ctx, dto)

			Expect(err).To(HaveOccurred())
			Expect(repo.expenses).To(BeEmpty())
		})

		It("rejects GST greater than the total", func() {
			dto := validDTO()
			dto.GSTAmount = decimal.NewFromInt(30000)

			_, err := service.Create(ctx, dto)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("rejects the partial status", func() {
			dto := validDTO()
			dto.Status = "partial"

			_, err := service.Create(ctx, dto)

			Expect(err).To(HaveOccurred())
		})

		It("requires a description", func() {
			dto := validDTO()
			dto.Description = "   "

			_, err := service.Create(ctx, dto)

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Update", func() {
		It("replaces the fields of an existing expense", func() {
			e, err := service.Create(ctx, validDTO())
			Expect(err).NotTo(HaveOccurred())

			dto := validDTO()
			dto.Category = "Utilities"
			dto.Status = expense.StatusPending

			updated, err := service.Update(ctx, e.ID, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Category).To(Equal("Utilities"))
			Expect(updated.Status).To(Equal(expense.StatusPending))
		})
	})

	Describe("Get and Delete", func() {
		It("return not found for a missing expense", func() {
			_, err := service.Get(ctx, "missing")
			Expect(err).To(Equal(internal.ErrExpenseNotFound))
			Expect(service.Delete(ctx, "missing")).To(Equal(internal.ErrExpenseNotFound))
		})

		It("surface repository failures as internal errors", func() {
			repo.SetShouldFail(true)

			_, err := service.List(ctx, ledger.Filter{})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
		})
	})
})
