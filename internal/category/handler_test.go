package category_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/haingladys/jsdc-accounting/internal/category"
	"github.com/haingladys/jsdc-accounting/internal/database"
	"github.com/haingladys/jsdc-accounting/internal/kvstore"
	kvPostgres "github.com/haingladys/jsdc-accounting/internal/kvstore/postgres"
	"github.com/haingladys/jsdc-accounting/internal/transport"
)

var _ = Describe("Category Handler Integration", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = database.OpenInMemory()
		Expect(err).NotTo(HaveOccurred())

		store := kvstore.NewStore(kvPostgres.NewRepository(db), slogger)
		handler := category.NewHandler(transport.NewBaseHandler(slogger), category.NewService(store, slogger))

		router = chi.NewRouter()
		router.Get("/categories/{kind}", handler.GetCategories)
		router.Post("/categories/{kind}", handler.AddCategory)
		router.Put("/categories/{kind}/{name}", handler.RenameCategory)
		router.Delete("/categories/{kind}/{name}", handler.DeleteCategory)
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

	It("lists the defaults", func() {
		w := do(http.MethodGet, "/categories/expense", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		var response category.CategoriesResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Kind).To(Equal(category.KindExpense))
		Expect(response.Categories).To(ContainElement("Rent"))
	})

	It("persists a new category", func() {
		w := do(http.MethodPost, "/categories/purchase", `{"name":"Spare Parts"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		w = do(http.MethodGet, "/categories/purchase", "")
		Expect(w.Body.String()).To(ContainSubstring("Spare Parts"))
	})

	It("answers 409 for a duplicate", func() {
		w := do(http.MethodPost, "/categories/expense", `{"name":"RENT"}`)

		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(w.Body.String()).To(ContainSubstring("DUPLICATE_CATEGORY"))
	})

	It("renames through an escaped path segment", func() {
		w := do(http.MethodPut, "/categories/expense/Office%20Expenses", `{"name":"Stationery"}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Stationery"))
	})

	It("answers 404 when deleting an unknown category", func() {
		w := do(http.MethodDelete, "/categories/expense/Unknown", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("answers 400 for an unknown kind", func() {
		w := do(http.MethodGet, "/categories/income", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
