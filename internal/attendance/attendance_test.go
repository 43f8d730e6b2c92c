package attendance_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/haingladys/jsdc-accounting/internal/attendance"
)

func TestAttendance(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Attendance Suite")
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	Expect(err).NotTo(HaveOccurred())
	return t
}

var _ = Describe("CalculatePercentage", func() {
	It("weights half days by one half", func() {
		p := attendance.CalculatePercentage(20, 2, 22)
		Expect(p.Defined).To(BeTrue())
		Expect(p.Value.String()).To(Equal("95.45"))
	})

	It("is 100 when every working day is present", func() {
		p := attendance.CalculatePercentage(10, 0, 10)
		Expect(p.Value.String()).To(Equal("100"))
	})

	It("is zero and undefined without working days", func() {
		p := attendance.CalculatePercentage(0, 0, 0)
		Expect(p.Defined).To(BeFalse())
		Expect(p.Value.IsZero()).To(BeTrue())
	})
})

var _ = Describe("WorkingDays", func() {
	It("starts at the join date and skips Sundays by default", func() {
		Expect(attendance.WorkingDays("2024-03-10", day("2024-03-01"), day("2024-03-31"), day("2024-04-05"), nil)).To(Equal(18))
	})

	It("stops at today", func() {
		Expect(attendance.WorkingDays("2023-01-01", day("2024-03-01"), day("2024-03-31"), day("2024-03-13"), nil)).To(Equal(11))
	})

	It("is zero when the employee joined after the window", func() {
		Expect(attendance.WorkingDays("2024-05-01", day("2024-03-01"), day("2024-03-31"), day("2024-06-01"), nil)).To(BeZero())
	})

	It("gives 100 percent for a fully attended Monday to Sunday week", func() {
		days := attendance.WorkingDays("2024-01-01", day("2024-03-04"), day("2024-03-10"), day("2024-04-01"), nil)
		Expect(days).To(Equal(6))
		Expect(attendance.CalculatePercentage(6, 0, days).Value.String()).To(Equal("100"))
	})

	It("follows a configured five day week", func() {
		weekdays := attendance.Weekdays([]int{1, 2, 3, 4, 5})
		Expect(attendance.WorkingDays("", day("2024-03-01"), day("2024-03-31"), day("2024-04-01"), weekdays)).To(Equal(21))
	})

	It("counts long ranges without walking every day", func() {
		Expect(attendance.WorkingDays("", day("2020-01-06"), day("2024-12-29"), day("2025-01-01"), nil)).To(Equal(260 * 6))
	})
})

var _ = Describe("Weekdays", func() {
	It("drops numbers outside Sunday to Saturday", func() {
		Expect(attendance.Weekdays([]int{0, 6, 7, -1})).To(Equal([]time.Weekday{time.Sunday, time.Saturday}))
	})
})

var _ = Describe("NextMidnight", func() {
	It("returns the start of the following day", func() {
		at := time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC)
		Expect(attendance.NextMidnight(at)).To(Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))
	})
})

var _ = Describe("Weight", func() {
	It("maps statuses to present-equivalents", func() {
		Expect(attendance.Weight(attendance.StatusPresent).String()).To(Equal("1"))
		Expect(attendance.Weight(attendance.StatusHalfDay).String()).To(Equal("0.5"))
		Expect(attendance.Weight(attendance.StatusAbsent).IsZero()).To(BeTrue())
		Expect(attendance.Weight("").IsZero()).To(BeTrue())
	})
})
