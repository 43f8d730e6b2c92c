package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/haingladys/jsdc-accounting/internal/database"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("HealthHandler", func() {
	It("reports every registered component and fails on any error", func() {
		db, err := database.OpenInMemory()
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(sqlDB.Close)

		h := NewHealthHandler(sqlDB, "sqlite", "v1.2.3")
		h.Register("websocket", func(context.Context) (map[string]any, error) {
			return nil, errors.New("hub stopped")
		})

		rec := httptest.NewRecorder()
		h.healthCheckHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
		var body HealthResponse
		Expect(json.NewDecoder(rec.Body).Decode(&body)).To(Succeed())
		Expect(body.Status).To(Equal(HealthUnhealthy))
		Expect(body.Version).To(Equal("v1.2.3"))
		Expect(body.Components["sqlite"].Status).To(Equal(HealthHealthy))
		Expect(body.Components["websocket"].Message).To(Equal("hub stopped"))
	})

	It("answers ping without checks", func() {
		rec := httptest.NewRecorder()
		(&HealthHandler{}).pingHandler(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"OK"`))
	})
})
