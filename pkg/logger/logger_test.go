package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/haingladys/jsdc-accounting/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestLogger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Logger Suite")
}

var _ = Describe("Logger", func() {
	DescribeTable("ParseLevel",
		func(in string, want slog.Level) {
			Expect(logger.ParseLevel(in)).To(Equal(want))
		},
		Entry("debug", "debug", slog.LevelDebug),
		Entry("warning alias", " Warning ", slog.LevelWarn),
		Entry("error", "ERROR", slog.LevelError),
		Entry("unknown falls back to info", "verbose", slog.LevelInfo),
	)

	It("writes JSON when asked", func() {
		var buf bytes.Buffer
		logger.New(&buf, "info", "json").Info("payroll saved", "employee_id", "p1")

		Expect(buf.String()).To(HavePrefix("{"))
		Expect(buf.String()).To(ContainSubstring(`"employee_id":"p1"`))
	})

	It("drops records below the configured level", func() {
		var buf bytes.Buffer
		logger.New(&buf, "warn", "text").Info("ignored")

		Expect(buf.Len()).To(BeZero())
	})

	It("carries scoped fields through the context", func() {
		ctx := logger.With(context.Background(), "trace_id", "t-1")
		Expect(logger.From(ctx)).NotTo(BeIdenticalTo(logger.LoggerWrapper()))
		Expect(logger.From(context.Background())).To(BeIdenticalTo(logger.LoggerWrapper()))
	})
})
