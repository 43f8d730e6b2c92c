package postgres_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	purchaseDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/purchase"
	"github.com/haingladys/jsdc-accounting/internal/database"
	"github.com/haingladys/jsdc-accounting/internal/ledger"
	"github.com/haingladys/jsdc-accounting/internal/purchase/postgres"
)

func TestPurchaseRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "PurchaseRepository Suite")
}

func row(id, date, category, vendor string, total, gst int64) *purchaseDatamodel.Purchase {
	return &purchaseDatamodel.Purchase{
		ID:          id,
		Date:        date,
		Category:    category,
		Vendor:      vendor,
		UnitPrice:   decimal.NewFromInt(total - gst),
		Quantity:    decimal.NewFromInt(1),
		GSTAmount:   decimal.NewFromInt(gst),
		TotalAmount: decimal.NewFromInt(total),
		PaymentMode: ledger.PaymentCash,
		Status:      "pending",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

var _ = Describe("PurchaseRepository", func() {
	var (
		db   *gorm.DB
		repo *postgres.PurchaseRepository
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = database.OpenInMemory()
		Expect(err).NotTo(HaveOccurred())
		repo = postgres.NewPurchaseRepository(db)
		ctx = context.Background()

		Expect(repo.Create(ctx, row("p1", "2024-03-01", "Raw Materials", "Acme", 100, 18))).To(Succeed())
		Expect(repo.Create(ctx, row("p2", "2024-03-15", "Packaging", "Boxco", 50, 0))).To(Succeed())
		Expect(repo.Create(ctx, row("p3", "2024-04-02", "Raw Materials", "Acme", 200, 36))).To(Succeed())
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	It("returns nil for a missing id", func() {
		p, err := repo.GetByID(ctx, "nope")
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(BeNil())
	})

	It("filters by date range newest first", func() {
		list, err := repo.List(ctx, ledger.Filter{Start: "2024-03-01", End: "2024-03-31"})
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(2))
		Expect(list[0].ID).To(Equal("p2"))
		Expect(list[1].ID).To(Equal("p1"))
	})

	It("matches category case-insensitively", func() {
		list, err := repo.List(ctx, ledger.Filter{Category: "raw materials"})
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(2))
	})

	It("searches the vendor", func() {
		list, err := repo.List(ctx, ledger.Filter{Search: "box"})
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(1))
		Expect(list[0].ID).To(Equal("p2"))
	})

	It("sums totals and GST inside the window", func() {
		totals, err := repo.Totals(ctx, "2024-03-01", "2024-03-31")
		Expect(err).NotTo(HaveOccurred())
		Expect(totals.Count).To(Equal(int64(2)))
		Expect(totals.Total.Equal(decimal.NewFromInt(150))).To(BeTrue())
		Expect(totals.GST.Equal(decimal.NewFromInt(18))).To(BeTrue())
	})

	It("updates and deletes", func() {
		p, err := repo.GetByID(ctx, "p1")
		Expect(err).NotTo(HaveOccurred())
		p.Status = "paid"
		Expect(repo.Update(ctx, p)).To(Succeed())

		reloaded, err := repo.GetByID(ctx, "p1")
		Expect(err).NotTo(HaveOccurred())
		Expect(reloaded.Status).To(Equal("paid"))

		Expect(repo.Delete(ctx, "p1")).To(Succeed())
		gone, err := repo.GetByID(ctx, "p1")
		Expect(err).NotTo(HaveOccurred())
		Expect(gone).To(BeNil())
	})
})
