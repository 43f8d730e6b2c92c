package main_test

import (
	"context"
	"strings"
	"testing"

	"github.com/haingladys/jsdc-accounting/internal/transport/middleware"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestJSDCAccounting(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "JSDCAccounting Suite")
}

var _ = Describe("API document", func() {
	It("loads and validates", func() {
		doc, err := middleware.LoadOpenAPI(context.Background(), "api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
		Expect(doc.Components.SecuritySchemes).To(HaveKey("bearerAuth"))
	})

	It("describes every mounted API group", func() {
		doc, err := middleware.LoadOpenAPI(context.Background(), "api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())

		var paths []string
		for path := range doc.Paths.Map() {
			paths = append(paths, path)
		}
		joined := strings.Join(paths, "\n")
		for _, prefix := range []string{
			"/api/v1/auth/login",
			"/api/v1/purchases",
			"/api/v1/expenses",
			"/api/v1/income",
			"/api/v1/payroll",
			"/api/v1/attendance/week",
			"/api/v1/backup",
			"/api/dashboard-charts/",
			"/reports/api/get-report-data/",
			"/reports/api/export/",
		} {
			Expect(joined).To(ContainSubstring(prefix))
		}
	})
})
