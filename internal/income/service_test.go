package income_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/database"
	"github.com/haingladys/jsdc-accounting/internal/income"
	"github.com/haingladys/jsdc-accounting/internal/income/postgres"
	"github.com/haingladys/jsdc-accounting/internal/ledger"
	"github.com/haingladys/jsdc-accounting/internal/transport"
)

func TestIncome(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Income Suite")
}

var _ = Describe("Income", func() {
	var (
		db      *gorm.DB
		service *income.Service
		router  *chi.Mux
		ctx     context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = database.OpenInMemory()
		Expect(err).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = income.NewService(postgres.NewIncomeRepository(db), nil, logger)
		ctx = context.Background()

		router = chi.NewRouter()
		router.Route("/income", income.NewHandler(transport.NewBaseHandler(logger), service).Routes)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	Describe("Service", func() {
		It("creates income with received status by default", func() {
			i, err := service.Create(ctx, income.IncomeDTO{
				Date:   "2024-03-04",
				Source: "Consulting",
				Amount: decimal.RequireFromString("15000.456"),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(i.Status).To(Equal(income.StatusReceived))
			Expect(i.Amount.String()).To(Equal("15000.46"))
		})

		It("rejects a non-positive amount", func() {
			_, err := service.Create(ctx, income.IncomeDTO{Date: "2024-03-04", Source: "Sales", Amount: decimal.Zero})
			Expect(err).To(HaveOccurred())
		})

		It("totals amounts without GST", func() {
			for _, amount := range []int64{100, 250} {
				_, err := service.Create(ctx, income.IncomeDTO{Date: "2024-03-04", Source: "Sales", Amount: decimal.NewFromInt(amount)})
				Expect(err).NotTo(HaveOccurred())
			}

			totals, err := service.Totals(ctx, "2024-03-01", "2024-03-31")
			Expect(err).NotTo(HaveOccurred())
			Expect(totals.Count).To(Equal(int64(2)))
			Expect(totals.Total.Equal(decimal.NewFromInt(350))).To(BeTrue())
			Expect(totals.GST.IsZero()).To(BeTrue())
		})

		It("filters by source", func() {
			_, err := service.Create(ctx, income.IncomeDTO{Date: "2024-03-04", Source: "Sales", Amount: decimal.NewFromInt(10)})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Create(ctx, income.IncomeDTO{Date: "2024-03-05", Source: "Rent", Amount: decimal.NewFromInt(20)})
			Expect(err).NotTo(HaveOccurred())

			list, err := service.List(ctx, ledger.Filter{Category: "sales"})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
		})

		It("returns not found for a missing entry", func() {
			_, err := service.Get(ctx, "missing")
			Expect(err).To(Equal(internal.ErrIncomeNotFound))
		})
	})

	Describe("Handler", func() {
		It("creates and lists income", func() {
			w := do(http.MethodPost, "/income/", `{"date":"2024-03-04","source":"Sales","amount":"500"}`)
			Expect(w.Code).To(Equal(http.StatusCreated))

			w = do(http.MethodGet, "/income/?start_date=2024-03-01&end_date=2024-03-31", "")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"count":1`))
		})

		It("returns 400 for an invalid body", func() {
			w := do(http.MethodPost, "/income/", `{"date":"March 4","source":"Sales","amount":"500"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 404 for a missing entry", func() {
			w := do(http.MethodGet, "/income/unknown", "")
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("exports CSV as an attachment", func() {
			_, err := service.Create(ctx, income.IncomeDTO{Date: "2024-03-04", Source: "Sales, retail", Amount: decimal.NewFromInt(10)})
			Expect(err).NotTo(HaveOccurred())

			w := do(http.MethodGet, "/income/export.csv", "")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Disposition")).To(ContainSubstring("attachment"))
			Expect(w.Body.String()).To(ContainSubstring(`"Sales, retail"`))
		})
	})
})
