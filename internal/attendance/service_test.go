package attendance_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/haingladys/jsdc-accounting/internal"
	"github.com/haingladys/jsdc-accounting/internal/attendance"
	"github.com/haingladys/jsdc-accounting/internal/attendance/postgres"
	attendanceDatamodel "github.com/haingladys/jsdc-accounting/internal/core/datamodel/attendance"
	"github.com/haingladys/jsdc-accounting/internal/core/events"
	"github.com/haingladys/jsdc-accounting/internal/database"
	"github.com/haingladys/jsdc-accounting/internal/setting"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.events))
	for i, e := range r.events {
		types[i] = e.EventType()
	}
	return types
}

type fixedWeek []int

func (w fixedWeek) Get(context.Context) (setting.Settings, error) {
	return setting.Settings{WorkingDays: w}, nil
}

var _ = Describe("Service", func() {
	var (
		db        *gorm.DB
		publisher *recordingPublisher
		service   *attendance.Service
		ctx       context.Context
		now       time.Time
	)

	BeforeEach(func() {
		var err error
		db, err = database.OpenInMemory()
		Expect(err).NotTo(HaveOccurred())

		now = time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC)
		publisher = &recordingPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = attendance.NewService(postgres.NewAttendanceRepository(db), publisher, logger,
			attendance.WithClock(func() time.Time { return now }),
			attendance.WithLocation(time.UTC))
		ctx = context.Background()
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	newEmployee := func(name, joinDate string) *attendance.Employee {
		e, err := service.CreateEmployee(ctx, attendance.EmployeeDTO{Name: name, JoinDate: joinDate})
		Expect(err).NotTo(HaveOccurred())
		return e
	}

	mark := func(employeeID, date, status string) {
		_, err := service.UpdateAttendance(ctx, attendance.AttendanceDTO{EmployeeID: employeeID, Date: date, Status: status})
		Expect(err).NotTo(HaveOccurred())
	}

	Describe("CreateEmployee", func() {
		It("defaults the join date to today and marks the employee active", func() {
			e := newEmployee("Asha", "")
			Expect(e.JoinDate).To(Equal("2024-03-13"))
			Expect(e.Active).To(BeTrue())
		})

		It("requires a name", func() {
			_, err := service.CreateEmployee(ctx, attendance.EmployeeDTO{Name: "  "})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("UpdateAttendance", func() {
		It("round-trips status and notes", func() {
			e := newEmployee("Asha", "2024-01-01")

			_, err := service.UpdateAttendance(ctx, attendance.AttendanceDTO{
				EmployeeID: e.ID, Date: "2024-03-12", Status: attendance.StatusHalfDay, Notes: "left early",
			})
			Expect(err).NotTo(HaveOccurred())

			record, err := service.GetAttendance(ctx, e.ID, "2024-03-12")
			Expect(err).NotTo(HaveOccurred())
			Expect(record.Status).To(Equal(attendance.StatusHalfDay))
			Expect(record.Notes).To(Equal("left early"))
		})

		It("keeps only the last write for a day", func() {
			e := newEmployee("Asha", "2024-01-01")
			mark(e.ID, "2024-03-12", attendance.StatusAbsent)
			mark(e.ID, "2024-03-12", attendance.StatusPresent)

			record, err := service.GetAttendance(ctx, e.ID, "2024-03-12")
			Expect(err).NotTo(HaveOccurred())
			Expect(record.Status).To(Equal(attendance.StatusPresent))

			var count int64
			Expect(db.Model(&attendanceDatamodel.Record{}).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(1)))
		})

		It("rejects an unknown status", func() {
			e := newEmployee("Asha", "2024-01-01")

			_, err := service.UpdateAttendance(ctx, attendance.AttendanceDTO{EmployeeID: e.ID, Date: "2024-03-12", Status: "2"})
			Expect(err).To(Equal(internal.ErrInvalidAttendanceStatus))
		})

		It("rejects an unknown employee", func() {
			_, err := service.UpdateAttendance(ctx, attendance.AttendanceDTO{EmployeeID: "ghost", Date: "2024-03-12", Status: "1"})
			Expect(err).To(Equal(internal.ErrEmployeeNotFound))
		})

		It("publishes the refreshed summary", func() {
			e := newEmployee("Asha", "2024-01-01")
			mark(e.ID, "2024-03-13", attendance.StatusPresent)

			Expect(publisher.types()).To(ContainElement(events.EventTypeAttendanceUpdated))
		})
	})

	Describe("ClearAttendance", func() {
		It("removes the record", func() {
			e := newEmployee("Asha", "2024-01-01")
			mark(e.ID, "2024-03-12", attendance.StatusPresent)

			Expect(service.ClearAttendance(ctx, e.ID, "2024-03-12")).To(Succeed())
			_, err := service.GetAttendance(ctx, e.ID, "2024-03-12")
			Expect(err).To(Equal(internal.ErrAttendanceNotFound))
		})
	})

	Describe("DeleteEmployee", func() {
		It("removes every record of the employee", func() {
			asha := newEmployee("Asha", "2024-01-01")
			ravi := newEmployee("Ravi", "2024-01-01")
			mark(asha.ID, "2024-03-11", attendance.StatusPresent)
			mark(asha.ID, "2024-03-12", attendance.StatusAbsent)
			mark(ravi.ID, "2024-03-12", attendance.StatusPresent)

			Expect(service.DeleteEmployee(ctx, asha.ID)).To(Succeed())

			var remaining []attendanceDatamodel.Record
			Expect(db.Find(&remaining).Error).To(Succeed())
			Expect(remaining).To(HaveLen(1))
			Expect(remaining[0].EmployeeID).To(Equal(ravi.ID))

			_, err := service.GetAttendance(ctx, asha.ID, "2024-03-11")
			Expect(err).To(Equal(internal.ErrAttendanceNotFound))
		})
	})

	Describe("WeekGrid", func() {
		It("covers Monday to Sunday with empty cells for missing records", func() {
			e := newEmployee("Asha", "2024-01-01")
			mark(e.ID, "2024-03-11", attendance.StatusPresent)

			grid, err := service.WeekGrid(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(grid.Today).To(Equal("2024-03-13"))
			Expect(grid.Days).To(HaveLen(7))
			Expect(grid.Days[0].Key).To(Equal("2024-03-11"))
			Expect(grid.Days[6].Key).To(Equal("2024-03-17"))
			Expect(grid.Days[2].IsToday).To(BeTrue())

			Expect(grid.Rows).To(HaveLen(1))
			Expect(grid.Rows[0].Statuses["2024-03-11"]).To(Equal(attendance.StatusPresent))
			Expect(grid.Rows[0].Statuses).To(HaveKeyWithValue("2024-03-12", ""))
		})

		It("skips inactive employees", func() {
			inactive := false
			_, err := service.CreateEmployee(ctx, attendance.EmployeeDTO{Name: "Former", Active: &inactive})
			Expect(err).NotTo(HaveOccurred())

			grid, err := service.WeekGrid(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(grid.Rows).To(BeEmpty())
		})
	})

	Describe("TodaySummary", func() {
		It("counts each status and the unmarked employees", func() {
			a := newEmployee("A", "2024-01-01")
			b := newEmployee("B", "2024-01-01")
			c := newEmployee("C", "2024-01-01")
			newEmployee("D", "2024-01-01")
			mark(a.ID, "2024-03-13", attendance.StatusPresent)
			mark(b.ID, "2024-03-13", attendance.StatusHalfDay)
			mark(c.ID, "2024-03-13", attendance.StatusAbsent)

			summary, err := service.TodaySummary(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(*summary).To(Equal(attendance.TodaySummary{
				Date: "2024-03-13", Total: 4, Present: 1, HalfDay: 1, Absent: 1, Unmarked: 1,
			}))
		})
	})

	Describe("EmployeeSummary", func() {
		It("computes the percentage over working days up to today", func() {
			e := newEmployee("Asha", "2024-03-11")
			mark(e.ID, "2024-03-11", attendance.StatusPresent)
			mark(e.ID, "2024-03-12", attendance.StatusHalfDay)
			mark(e.ID, "2024-03-13", attendance.StatusAbsent)

			summary, err := service.EmployeeSummary(ctx, e.ID, "", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Start).To(Equal("2024-03-01"))
			Expect(summary.End).To(Equal("2024-03-31"))
			Expect(summary.WorkingDays).To(Equal(3))
			Expect(summary.Present).To(Equal(1))
			Expect(summary.HalfDays).To(Equal(1))
			Expect(summary.Absent).To(Equal(1))
			Expect(summary.Percentage.Value.String()).To(Equal("50"))
		})

		It("reaches 100 percent for a fully attended working week", func() {
			e := newEmployee("Asha", "2024-03-04")
			for _, date := range []string{"2024-03-04", "2024-03-05", "2024-03-06", "2024-03-07", "2024-03-08", "2024-03-09"} {
				mark(e.ID, date, attendance.StatusPresent)
			}

			summary, err := service.EmployeeSummary(ctx, e.ID, "2024-03-04", "2024-03-10")
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.WorkingDays).To(Equal(6))
			Expect(summary.Present).To(Equal(6))
			Expect(summary.Percentage.Value.String()).To(Equal("100"))
		})

		It("ignores records after today or before joining", func() {
			e := newEmployee("Asha", "2024-03-11")
			mark(e.ID, "2024-03-09", attendance.StatusPresent)
			mark(e.ID, "2024-03-11", attendance.StatusPresent)
			mark(e.ID, "2024-03-12", attendance.StatusPresent)
			mark(e.ID, "2024-03-13", attendance.StatusPresent)
			mark(e.ID, "2024-03-20", attendance.StatusPresent)
			mark(e.ID, "2024-03-21", attendance.StatusPresent)

			summary, err := service.EmployeeSummary(ctx, e.ID, "", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.WorkingDays).To(Equal(3))
			Expect(summary.Present).To(Equal(3))
			Expect(summary.Percentage.Value.String()).To(Equal("100"))
		})

		It("uses the working days from settings", func() {
			logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
			weekdaysOnly := attendance.NewService(postgres.NewAttendanceRepository(db), nil, logger,
				attendance.WithClock(func() time.Time { return now }),
				attendance.WithLocation(time.UTC),
				attendance.WithSettings(fixedWeek{1, 2, 3, 4, 5}))

			e := newEmployee("Asha", "2024-03-04")
			for _, date := range []string{"2024-03-04", "2024-03-05", "2024-03-06", "2024-03-07", "2024-03-08", "2024-03-09", "2024-03-10"} {
				mark(e.ID, date, attendance.StatusPresent)
			}

			summary, err := weekdaysOnly.EmployeeSummary(ctx, e.ID, "2024-03-04", "2024-03-10")
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.WorkingDays).To(Equal(5))
			Expect(summary.Present).To(Equal(5))
			Expect(summary.Percentage.Value.String()).To(Equal("100"))
		})

		It("rejects a range spanning more than ten years", func() {
			e := newEmployee("Asha", "2024-01-01")

			_, err := service.EmployeeSummary(ctx, e.ID, "0001-01-01", "9999-12-31")
			Expect(err).To(HaveOccurred())
		})

		It("reports an undefined percentage for a future window", func() {
			e := newEmployee("Asha", "2024-01-01")

			summary, err := service.EmployeeSummary(ctx, e.ID, "2024-04-01", "2024-04-30")
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.WorkingDays).To(BeZero())
			Expect(summary.Percentage.Defined).To(BeFalse())
		})

		It("rejects an inverted range", func() {
			e := newEmployee("Asha", "2024-01-01")

			_, err := service.EmployeeSummary(ctx, e.ID, "2024-03-31", "2024-03-01")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("MonthlyChart", func() {
		It("sums present-equivalents per day", func() {
			a := newEmployee("A", "2024-01-01")
			b := newEmployee("B", "2024-01-01")
			mark(a.ID, "2024-03-05", attendance.StatusPresent)
			mark(b.ID, "2024-03-05", attendance.StatusHalfDay)
			mark(a.ID, "2024-02-29", attendance.StatusPresent)

			chart, err := service.MonthlyChart(ctx, 2024, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(chart.Labels).To(HaveLen(31))
			Expect(chart.Labels[4]).To(Equal("5"))
			Expect(chart.Values[4].String()).To(Equal("1.5"))
			Expect(chart.Values[0].IsZero()).To(BeTrue())
		})

		It("rejects month 13", func() {
			_, err := service.MonthlyChart(ctx, 2024, 13)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Scheduler", func() {
		It("publishes once when the day advances", func() {
			scheduler := attendance.NewScheduler(service, publisher, slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))

			Expect(scheduler.Check(ctx, now.Add(time.Hour))).To(BeFalse())

			tomorrow := time.Date(2024, time.March, 18, 0, 0, 1, 0, time.UTC)
			Expect(scheduler.Check(ctx, tomorrow)).To(BeTrue())
			Expect(scheduler.Check(ctx, tomorrow.Add(time.Minute))).To(BeFalse())

			Expect(publisher.types()).To(Equal([]string{events.EventTypeAttendanceDayRolled}))
			rolled := publisher.events[0].(*events.DayRolledEvent)
			Expect(rolled.Today).To(Equal("2024-03-18"))
		})

		It("stops when the context is cancelled", func() {
			scheduler := attendance.NewScheduler(service, publisher, slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
			runCtx, cancel := context.WithCancel(ctx)
			cancel()

			Expect(scheduler.Run(runCtx)).To(MatchError(context.Canceled))
		})
	})
})
