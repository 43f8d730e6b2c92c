package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/attendance"
	attendancePostgres "github.com/haingladys/jsdc-accounting/internal/attendance/postgres"
	"github.com/haingladys/jsdc-accounting/internal/category"
	"github.com/haingladys/jsdc-accounting/internal/database"
	"github.com/haingladys/jsdc-accounting/internal/expense"
	expensePostgres "github.com/haingladys/jsdc-accounting/internal/expense/postgres"
	"github.com/haingladys/jsdc-accounting/internal/income"
	incomePostgres "github.com/haingladys/jsdc-accounting/internal/income/postgres"
	"github.com/haingladys/jsdc-accounting/internal/kvstore"
	kvPostgres "github.com/haingladys/jsdc-accounting/internal/kvstore/postgres"
	"github.com/haingladys/jsdc-accounting/internal/payroll"
	payrollPostgres "github.com/haingladys/jsdc-accounting/internal/payroll/postgres"
	"github.com/haingladys/jsdc-accounting/internal/purchase"
	purchasePostgres "github.com/haingladys/jsdc-accounting/internal/purchase/postgres"
	"github.com/haingladys/jsdc-accounting/internal/report"
	reportPostgres "github.com/haingladys/jsdc-accounting/internal/report/postgres"
	"github.com/haingladys/jsdc-accounting/internal/setting"
	"github.com/haingladys/jsdc-accounting/internal/transport"
)

func TestReport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Suite")
}

var _ = Describe("Report", func() {
	var (
		db      *gorm.DB
		logger  *slog.Logger
		ctx     context.Context
		service *report.Service
	)

	d := decimal.RequireFromString
	march := report.Query{Period: "month", Selected: "2024-03"}

	BeforeEach(func() {
		var err error
		db, err = database.OpenInMemory()
		Expect(err).NotTo(HaveOccurred())

		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		ctx = context.Background()
		clock := func() time.Time { return time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC) }

		store := kvstore.NewStore(kvPostgres.NewRepository(db), logger)
		settings := setting.NewService(store, setting.Defaults(internal.AppConfig{CompanyName: "JSDC Traders", Currency: "INR"}), logger)
		categories := category.NewService(store, logger)
		incomeSvc := income.NewService(incomePostgres.NewIncomeRepository(db), nil, logger)
		expenseSvc := expense.NewService(expensePostgres.NewExpenseRepository(db), categories, nil, logger)
		purchaseSvc := purchase.NewService(purchasePostgres.NewPurchaseRepository(db), categories, nil, logger)
		payrollSvc := payroll.NewService(payrollPostgres.NewPayrollRepository(db), nil, payroll.Company{}, logger)
		staff := attendance.NewService(attendancePostgres.NewAttendanceRepository(db), nil, logger,
			attendance.WithClock(clock), attendance.WithLocation(time.UTC), attendance.WithSettings(settings))

		sqlxDB, err := database.SQLX(db, internal.DriverSQLite)
		Expect(err).NotTo(HaveOccurred())
		service = report.NewService(reportPostgres.NewReportStore(sqlxDB), report.Sources{
			Income:     incomeSvc,
			Expenses:   expenseSvc,
			Purchases:  purchaseSvc,
			Attendance: staff,
			Settings:   settings,
		}, clock, logger)

		for _, dto := range []income.IncomeDTO{
			{Date: "2024-03-04", Source: "Consulting", Amount: d("15000")},
			{Date: "2024-03-20", Source: "Sales", Amount: d("5000")},
			{Date: "2024-04-02", Source: "Sales", Amount: d("999")},
		} {
			_, err := incomeSvc.Create(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
		}
		for _, dto := range []expense.ExpenseDTO{
			{Date: "2024-03-05", Category: "Rent", Description: "March rent", TotalAmount: d("8000")},
			{Date: "2024-03-06", Category: "Utilities", Description: "Power", TotalAmount: d("1200.50"), GSTAmount: d("183.13")},
		} {
			_, err := expenseSvc.Create(ctx, dto)
			Expect(err).NotTo(HaveOccurred())
		}
		_, err = purchaseSvc.Create(ctx, purchase.PurchaseDTO{
			Date: "2024-03-10", Category: "Raw Materials", Vendor: "Mills & Co", UnitPrice: d("100"), Quantity: d("3"), GSTAmount: d("54"),
		})
		Expect(err).NotTo(HaveOccurred())
		_, err = payrollSvc.Create(ctx, payroll.EmployeeDTO{Name: "Asha", BasicSalary: d("10000"), SPRAmount: d("500"), Advances: d("200"), Month: 3, Year: 2024})
		Expect(err).NotTo(HaveOccurred())

		emp, err := staff.CreateEmployee(ctx, attendance.EmployeeDTO{Name: "Ravi", JoinDate: "2024-03-01"})
		Expect(err).NotTo(HaveOccurred())
		_, err = staff.UpdateAttendance(ctx, attendance.AttendanceDTO{EmployeeID: emp.ID, Date: "2024-03-11", Status: attendance.StatusPresent})
		Expect(err).NotTo(HaveOccurred())
		_, err = staff.UpdateAttendance(ctx, attendance.AttendanceDTO{EmployeeID: emp.ID, Date: "2024-03-12", Status: attendance.StatusHalfDay})
		Expect(err).NotTo(HaveOccurred())
		_, err = staff.UpdateAttendance(ctx, attendance.AttendanceDTO{EmployeeID: emp.ID, Date: "2024-03-25", Status: attendance.StatusPresent})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("Generate", func() {
		It("summarises the month with profit and payroll", func() {
			r, err := service.Generate(ctx, march)

			Expect(err).NotTo(HaveOccurred())
			Expect(r.Type).To(Equal(report.TypeSummary))
			Expect(r.StartDate).To(Equal("2024-03-01"))
			Expect(r.EndDate).To(Equal("2024-03-31"))
			Expect(r.Company).To(Equal("JSDC Traders"))
			Expect(r.Data.Income).To(BeNil())

			s := r.Data.Summary
			Expect(s).NotTo(BeNil())
			Expect(s.Income.Total.String()).To(Equal("20000"))
			Expect(s.Expense.Total.String()).To(Equal("9200.5"))
			Expect(s.Expense.GST.String()).To(Equal("183.13"))
			Expect(s.Purchase.Total.String()).To(Equal("354"))
			Expect(s.PayrollNet.String()).To(Equal("10300"))
			Expect(s.Profit.String()).To(Equal("10445.5"))
			Expect(s.IncomeBySource[0].Category).To(Equal("Consulting"))
		})

		It("builds every section for the all type", func() {
			r, err := service.Generate(ctx, report.Query{Type: "ALL", Period: "month", Selected: "2024-03"})

			Expect(err).NotTo(HaveOccurred())
			Expect(r.Data.Income.Rows).To(HaveLen(2))
			Expect(r.Data.Expense.Totals.Count).To(Equal(int64(2)))
			Expect(r.Data.Purchase.Rows[0].TotalAmount.String()).To(Equal("354"))
			Expect(r.Data.Payroll.Summary.Month).To(Equal(3))
			Expect(r.Data.Attendance).To(HaveLen(1))
			Expect(r.Data.Attendance[0].Present).To(Equal(1))
			Expect(r.Data.Attendance[0].HalfDays).To(Equal(1))
			// Mar 1-13 less the Sundays 3 and 10; the record on the 25th is after today.
			Expect(r.Data.Attendance[0].WorkingDays).To(Equal(11))
		})

		It("returns empty rows rather than null for a quiet section", func() {
			r, err := service.Generate(ctx, report.Query{Type: report.TypePurchase, Start: "2025-01-01", End: "2025-01-31"})

			Expect(err).NotTo(HaveOccurred())
			Expect(r.PeriodType).To(Equal("custom"))
			Expect(r.Data.Purchase.Rows).NotTo(BeNil())
			Expect(r.Data.Purchase.Rows).To(BeEmpty())
			Expect(r.Data.Purchase.Totals.Total.IsZero()).To(BeTrue())
		})

		It("rejects an unknown type", func() {
			_, err := service.Generate(ctx, report.Query{Type: "ledger"})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("rejects a malformed period", func() {
			_, err := service.Generate(ctx, report.Query{Period: "month", Selected: "March"})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidPeriod))
		})
	})

	Describe("Export", func() {
		It("renders an excel workbook by default", func() {
			out, err := service.Export(ctx, report.Query{Type: report.TypeAll, Period: "month", Selected: "2024-03"}, "")

			Expect(err).NotTo(HaveOccurred())
			Expect(out.Filename).To(Equal("report-all-2024-03-01_2024-03-31.xlsx"))
			Expect(out.ContentType).To(ContainSubstring("spreadsheetml"))
			Expect(string(out.Data[:2])).To(Equal("PK"))
		})

		It("renders a pdf", func() {
			out, err := service.Export(ctx, march, report.FormatPDF)

			Expect(err).NotTo(HaveOccurred())
			Expect(out.Filename).To(Equal("report-summary-2024-03-01_2024-03-31.pdf"))
			Expect(out.ContentType).To(Equal("application/pdf"))
			Expect(string(out.Data[:4])).To(Equal("%PDF"))
		})

		It("rejects an unknown format", func() {
			_, err := service.Export(ctx, march, "docx")

			_, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
		})
	})

	Describe("Handler", func() {
		var router *chi.Mux

		BeforeEach(func() {
			h := report.NewHandler(transport.NewBaseHandler(logger), service)
			router = chi.NewRouter()
			router.Get("/reports/api/get-report-data/", h.GetReportData)
			router.Get("/reports/api/export/", h.ExportReport)
		})

		It("serves report data as JSON", func() {
			req := httptest.NewRequest(http.MethodGet, "/reports/api/get-report-data/?type=income&period=month&selected_period=2024-03", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			var body struct {
				Success bool `json:"success"`
				Data    struct {
					Income struct {
						Rows []map[string]interface{} `json:"rows"`
					} `json:"income"`
				} `json:"data"`
			}
			Expect(json.NewDecoder(rec.Body).Decode(&body)).To(Succeed())
			Expect(body.Success).To(BeTrue())
			Expect(body.Data.Income.Rows).To(HaveLen(2))
		})

		It("reports failures with success false", func() {
			req := httptest.NewRequest(http.MethodGet, "/reports/api/get-report-data/?type=bogus", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			var body report.DataResponse
			Expect(json.NewDecoder(rec.Body).Decode(&body)).To(Succeed())
			Expect(body.Success).To(BeFalse())
			Expect(body.Error).NotTo(BeEmpty())
		})

		It("downloads the export as an attachment", func() {
			req := httptest.NewRequest(http.MethodGet, "/reports/api/export/?format=pdf&period=month&selected_period=2024-03", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Disposition")).To(ContainSubstring("report-summary-2024-03-01_2024-03-31.pdf"))
			Expect(bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF"))).To(BeTrue())
		})
	})
})
