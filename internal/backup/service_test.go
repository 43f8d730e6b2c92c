package backup_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/attendance"
	attendancePostgres "github.com/haingladys/jsdc-accounting/internal/attendance/postgres"
	"github.com/haingladys/jsdc-accounting/internal/backup"
	backupPostgres "github.com/haingladys/jsdc-accounting/internal/backup/postgres"
	"github.com/haingladys/jsdc-accounting/internal/category"
	"github.com/haingladys/jsdc-accounting/internal/database"
	"github.com/haingladys/jsdc-accounting/internal/expense"
	expensePostgres "github.com/haingladys/jsdc-accounting/internal/expense/postgres"
	"github.com/haingladys/jsdc-accounting/internal/kvstore"
	"github.com/haingladys/jsdc-accounting/internal/ledger"
	kvPostgres "github.com/haingladys/jsdc-accounting/internal/kvstore/postgres"
	"github.com/haingladys/jsdc-accounting/internal/setting"
	"github.com/haingladys/jsdc-accounting/internal/transport"
	"github.com/haingladys/jsdc-accounting/internal/user"
	userPostgres "github.com/haingladys/jsdc-accounting/internal/user/postgres"
)

func TestBackup(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Backup Suite")
}

var _ = Describe("Backup", func() {
	var (
		db         *gorm.DB
		logger     *slog.Logger
		ctx        context.Context
		service    *backup.Service
		settings   *setting.Service
		categories *category.Service
		users      *user.Service
		expenses   *expense.Service
		staff      *attendance.Service
	)

	BeforeEach(func() {
		var err error
		db, err = database.OpenInMemory()
		Expect(err).NotTo(HaveOccurred())

		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		ctx = context.Background()

		store := kvstore.NewStore(kvPostgres.NewRepository(db), logger)
		settings = setting.NewService(store, setting.Defaults(internal.AppConfig{CompanyName: "JSDC", Currency: "INR"}), logger)
		categories = category.NewService(store, logger)
		users = user.NewService(userPostgres.NewUserRepository(db), bcrypt.MinCost, logger)
		expenses = expense.NewService(expensePostgres.NewExpenseRepository(db), categories, nil, logger)
		clock := func() time.Time { return time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC) }
		staff = attendance.NewService(attendancePostgres.NewAttendanceRepository(db), nil, logger, attendance.WithClock(clock), attendance.WithLocation(time.UTC))
		service = backup.NewService(backupPostgres.NewBackupRepository(db), settings, categories, nil, logger)

		_, err = users.Create(ctx, user.CreateUserDTO{Username: "admin", Password: "admin-password", Role: internal.RoleAdmin})
		Expect(err).NotTo(HaveOccurred())
		_, err = users.Create(ctx, user.CreateUserDTO{Username: "clerk", Password: "clerk-password"})
		Expect(err).NotTo(HaveOccurred())

		_, err = settings.Update(ctx, setting.SettingsDTO{
			CompanyName:        "Acme",
			Currency:           "INR",
			FinancialYearStart: 4,
			DateFormat:         "DD/MM/YYYY",
			WorkingDays:        []int{1, 2, 3, 4, 5},
		})
		Expect(err).NotTo(HaveOccurred())
		_, err = categories.Add(ctx, category.KindExpense, category.CategoryDTO{Name: "Courier"})
		Expect(err).NotTo(HaveOccurred())

		_, err = expenses.Create(ctx, expense.ExpenseDTO{
			Date:        "2024-03-05",
			Category:    "Courier",
			Description: "Parcel, \"express\"",
			TotalAmount: decimal.RequireFromString("450.00"),
			GSTAmount:   decimal.RequireFromString("68.64"),
		})
		Expect(err).NotTo(HaveOccurred())

		emp, err := staff.CreateEmployee(ctx, attendance.EmployeeDTO{Name: "Ravi", JoinDate: "2024-01-01"})
		Expect(err).NotTo(HaveOccurred())
		_, err = staff.UpdateAttendance(ctx, attendance.AttendanceDTO{EmployeeID: emp.ID, Date: "2024-03-12", Status: attendance.StatusHalfDay})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	encode := func(v interface{}) string {
		data, err := json.Marshal(v)
		Expect(err).NotTo(HaveOccurred())
		return string(data)
	}

	It("names document fields after the storage keys and keeps hashes", func() {
		doc, err := service.Export(ctx)
		Expect(err).NotTo(HaveOccurred())

		var buf bytes.Buffer
		Expect(backup.Encode(&buf, doc)).To(Succeed())
		raw := buf.String()
		for _, key := range []string{"appSettings", "filedgeUsers", "expensesData", "attendanceEmployeesV2", "attendanceRecordsV3", "expenseCategories"} {
			Expect(raw).To(ContainSubstring(`"` + key + `"`))
		}

		Expect(doc.Users).To(HaveLen(2))
		Expect(doc.Users[0].PasswordHash).To(HavePrefix("$2"))
		Expect(raw).NotTo(ContainSubstring("admin-password"))
	})

	It("round-trips export, import, export", func() {
		first, err := service.Export(ctx)
		Expect(err).NotTo(HaveOccurred())

		var buf bytes.Buffer
		Expect(backup.Encode(&buf, first)).To(Succeed())
		decoded, err := backup.Decode(&buf)
		Expect(err).NotTo(HaveOccurred())

		Expect(service.Import(ctx, decoded)).To(Succeed())

		second, err := service.Export(ctx)
		Expect(err).NotTo(HaveOccurred())

		Expect(encode(second.Settings)).To(Equal(encode(first.Settings)))
		Expect(encode(second.Users)).To(Equal(encode(first.Users)))
		Expect(encode(second.Purchases)).To(Equal(encode(first.Purchases)))
		Expect(encode(second.Expenses)).To(Equal(encode(first.Expenses)))
		Expect(encode(second.AttendanceRecords)).To(Equal(encode(first.AttendanceRecords)))
		Expect(second.ExpenseCategories).To(ContainElement("Courier"))

		_, err = users.GetByUsername(ctx, "admin")
		Expect(err).NotTo(HaveOccurred())
	})

	It("replaces existing data instead of merging", func() {
		doc, err := service.Export(ctx)
		Expect(err).NotTo(HaveOccurred())
		doc.Expenses = nil
		doc.AttendanceRecords = nil

		Expect(service.Import(ctx, doc)).To(Succeed())

		list, err := expenses.List(ctx, ledger.Filter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(BeEmpty())
	})

	It("rejects a document without an active admin and writes nothing", func() {
		doc, err := service.Export(ctx)
		Expect(err).NotTo(HaveOccurred())
		for i := range doc.Users {
			doc.Users[i].Role = internal.RoleUser
		}
		doc.Expenses = nil

		err = service.Import(ctx, doc)
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidBackup))

		list, err := expenses.List(ctx, ledger.Filter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(1))
	})

	It("rejects records pointing at unknown employees", func() {
		doc, err := service.Export(ctx)
		Expect(err).NotTo(HaveOccurred())
		doc.AttendanceEmployees = nil

		Expect(service.Import(ctx, doc)).NotTo(Succeed())
	})

	Describe("Handler", func() {
		var router *chi.Mux

		BeforeEach(func() {
			router = chi.NewRouter()
			allow := func(next http.Handler) http.Handler { return next }
			handler := backup.NewHandler(transport.NewBaseHandler(logger), service)
			router.Route("/backup", func(r chi.Router) { handler.Routes(r, allow) })
		})

		It("downloads and re-imports a backup", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/backup/", nil))
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Disposition")).To(ContainSubstring("jsdc-backup-"))

			post := httptest.NewRecorder()
			router.ServeHTTP(post, httptest.NewRequest(http.MethodPost, "/backup/", bytes.NewReader(w.Body.Bytes())))
			Expect(post.Code).To(Equal(http.StatusOK))
		})

		It("returns 400 for malformed JSON", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/backup/", strings.NewReader("{oops")))
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
