package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	chiMiddleware "github.com/go-chi/chi/middleware"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/haingladys/jsdc-accounting/pkg/logger"
)

var _ = Describe("log redaction", func() {
	It("masks sensitive keys at any depth", func() {
		out := redactBody([]byte(`{"username":"asha","password":"pw","settings":{"gst_number":"29ABC"},"users":[{"refresh_token":"t"}]}`))

		Expect(out).To(ContainSubstring(`"username":"asha"`))
		Expect(out).NotTo(ContainSubstring("pw"))
		Expect(out).NotTo(ContainSubstring("29ABC"))
		Expect(out).NotTo(ContainSubstring(`"t"`))
	})

	It("drops non JSON bodies that mention a secret", func() {
		Expect(redactBody([]byte("password=hunter2"))).To(Equal(redacted))
		Expect(redactBody([]byte("plain text"))).To(Equal("plain text"))
	})

	It("masks credential headers", func() {
		h := http.Header{}
		h.Set("Authorization", "Bearer abc")
		h.Set("Accept", "application/json")

		out := redactHeaders(h)
		Expect(out).To(HaveKeyWithValue("Authorization", redacted))
		Expect(out).To(HaveKeyWithValue("Accept", "application/json"))
	})

	It("picks the level from the status", func() {
		Expect(levelFor(http.StatusOK).String()).To(Equal("INFO"))
		Expect(levelFor(http.StatusNotFound).String()).To(Equal("WARN"))
		Expect(levelFor(http.StatusBadGateway).String()).To(Equal("ERROR"))
	})

	Describe("request id on log lines", func() {
		var (
			buf bytes.Buffer
			ok  http.Handler
		)

		BeforeEach(func() {
			buf.Reset()
			ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
		})

		lines := func() []string {
			return strings.Split(strings.TrimSpace(buf.String()), "\n")
		}

		It("writes request_id once when RequestID has scoped the logger", func() {
			sink := slog.New(slog.NewTextHandler(&buf, nil))
			seed := func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					next.ServeHTTP(w, r.WithContext(logger.NewContext(r.Context(), sink)))
				})
			}
			discard := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
			h := chiMiddleware.RequestID(seed(RequestID(LoggingMiddleware(discard)(ok))))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

			Expect(lines()).To(HaveLen(2))
			for _, line := range lines() {
				Expect(strings.Count(line, "request_id=")).To(Equal(1), line)
				Expect(line).To(ContainSubstring("trace_id="))
			}
		})

		It("adds request_id to the base logger when nothing is scoped", func() {
			base := slog.New(slog.NewTextHandler(&buf, nil))
			h := chiMiddleware.RequestID(LoggingMiddleware(base)(ok))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

			Expect(lines()).To(HaveLen(2))
			for _, line := range lines() {
				Expect(strings.Count(line, "request_id=")).To(Equal(1), line)
			}
		})
	})
})
