package postgres_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	expenseDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/expense"
	"github.com/haingladys/jsdc-accounting/internal/database"
	"github.com/haingladys/jsdc-accounting/internal/expense/postgres"
	"github.com/haingladys/jsdc-accounting/internal/ledger"
)

func TestExpenseRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ExpenseRepository Suite")
}

var _ = Describe("ExpenseRepository", func() {
	var (
		db   *gorm.DB
		repo *postgres.ExpenseRepository
		ctx  context.Context
	)

	create := func(id, date, category, status string, total int64) {
		Expect(repo.Create(ctx, &expenseDatamodel.Expense{
			ID:          id,
			Date:        date,
			Category:    category,
			Description: category + " bill",
			TotalAmount: decimal.NewFromInt(total),
			GSTAmount:   decimal.Zero,
			PaymentMode: ledger.PaymentCash,
			Status:      status,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		})).To(Succeed())
	}

	BeforeEach(func() {
		var err error
		db, err = database.OpenInMemory()
		Expect(err).NotTo(HaveOccurred())
		repo = postgres.NewExpenseRepository(db)
		ctx = context.Background()

		create("e1", "2024-02-28", "Rent", "paid", 20000)
		create("e2", "2024-03-01", "Rent", "pending", 25000)
		create("e3", "2024-03-10", "Utilities", "paid", 1800)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	It("filters by status", func() {
		list, err := repo.List(ctx, ledger.Filter{Status: "paid"})
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(2))
	})

	It("searches the description", func() {
		list, err := repo.List(ctx, ledger.Filter{Search: "UTILITIES"})
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(1))
		Expect(list[0].ID).To(Equal("e3"))
	})

	It("pages results", func() {
		list, err := repo.List(ctx, ledger.Filter{Limit: 1, Offset: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(1))
		Expect(list[0].ID).To(Equal("e2"))
	})

	It("totals a month", func() {
		totals, err := repo.Totals(ctx, "2024-03-01", "2024-03-31")
		Expect(err).NotTo(HaveOccurred())
		Expect(totals.Count).To(Equal(int64(2)))
		Expect(totals.Total.Equal(decimal.NewFromInt(26800))).To(BeTrue())
	})

	It("totals an empty window as zero", func() {
		totals, err := repo.Totals(ctx, "2023-01-01", "2023-01-31")
		Expect(err).NotTo(HaveOccurred())
		Expect(totals.Count).To(BeZero())
		Expect(totals.Total.IsZero()).To(BeTrue())
	})
})
