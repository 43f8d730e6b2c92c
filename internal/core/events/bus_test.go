package events_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/haingladys/jsdc-accounting/internal/core/events"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = events.NewEventBus(logger)
	})

	It("delivers synchronously published events to every handler", func() {
		var calls int32
		for i := 0; i < 2; i++ {
			bus.Subscribe(events.EventTypeRecordChanged, func(ctx context.Context, e events.Event) error {
				atomic.AddInt32(&calls, 1)
				return nil
			})
		}

		err := bus.PublishSync(context.Background(), events.NewRecordChangedEvent("purchase", "created", "p-1"))

		Expect(err).NotTo(HaveOccurred())
		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(2)))
	})

	It("delivers asynchronously published events", func() {
		received := make(chan events.Event, 1)
		bus.Subscribe(events.EventTypeAttendanceUpdated, func(ctx context.Context, e events.Event) error {
			received <- e
			return nil
		})

		Expect(bus.Publish(context.Background(), events.NewAttendanceUpdatedEvent("e-1", "2024-03-04", nil))).To(Succeed())

		var got events.Event
		Eventually(received).Should(Receive(&got))
		Expect(got.EventType()).To(Equal(events.EventTypeAttendanceUpdated))
		Expect(got.Payload()).To(HaveKeyWithValue("employee_id", "e-1"))
	})

	It("returns the handler error from PublishSync", func() {
		bus.Subscribe(events.EventTypeAttendanceDayRolled, func(ctx context.Context, e events.Event) error {
			return errors.New("boom")
		})

		err := bus.PublishSync(context.Background(), events.NewDayRolledEvent("2024-03-05", nil))
		Expect(err).To(MatchError(ContainSubstring("boom")))
	})

	It("ignores events nobody listens to", func() {
		Expect(bus.PublishSync(context.Background(), events.NewRecordChangedEvent("income", "deleted", "i-1"))).To(Succeed())
	})
})

var _ = Describe("EventBus delivery guarantees", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
	})

	It("keeps running subscribers after the publishing request is cancelled", func() {
		var seen atomic.Bool
		bus.Subscribe(events.EventTypeRecordChanged, func(ctx context.Context, e events.Event) error {
			seen.Store(ctx.Err() == nil)
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(bus.Publish(ctx, events.NewRecordChangedEvent("expense", "created", "x-1"))).To(Succeed())
		bus.Wait()

		Expect(seen.Load()).To(BeTrue())
	})

	It("turns a panicking subscriber into an error and still runs the rest", func() {
		var after int32
		bus.Subscribe(events.EventTypeRecordChanged, func(ctx context.Context, e events.Event) error {
			panic("bad subscriber")
		})
		bus.Subscribe(events.EventTypeRecordChanged, func(ctx context.Context, e events.Event) error {
			atomic.AddInt32(&after, 1)
			return nil
		})

		err := bus.PublishSync(context.Background(), events.NewRecordChangedEvent("income", "updated", "i-2"))

		Expect(err).To(MatchError(ContainSubstring("bad subscriber")))
		Expect(atomic.LoadInt32(&after)).To(Equal(int32(1)))
	})
})
