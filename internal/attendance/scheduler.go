package attendance

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/haingladys/jsdc-accounting/internal/core/events"
	"github.com/haingladys/jsdc-accounting/internal/period"
)

// NextMidnight returns the start of the day after t in t's location.
func NextMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

// Scheduler rebuilds the week grid when the calendar day changes.
type Scheduler struct {
	service   *Service
	publisher Publisher
	logger    *slog.Logger

	mu      sync.Mutex
	lastDay string
}

func NewScheduler(service *Service, publisher Publisher, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		service:   service,
		publisher: publisher,
		logger:    logger,
		lastDay:   period.Key(service.Now()),
	}
}

// Run wakes at every local midnight until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		now := s.service.Now()
		timer := time.NewTimer(NextMidnight(now).Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			s.Check(ctx, s.service.Now())
		}
	}
}

// Check publishes attendance.day_rolled if now falls on a later day than the
// previous check. It reports whether the day advanced.
func (s *Scheduler) Check(ctx context.Context, now time.Time) bool {
	today := period.Key(now)

	s.mu.Lock()
	if today <= s.lastDay {
		s.mu.Unlock()
		return false
	}
	s.lastDay = today
	s.mu.Unlock()

	grid, err := s.service.WeekGridAt(ctx, now)
	if err != nil {
		s.logger.Error("failed to rebuild week grid", "error", err, "today", today)
		return true
	}

	s.logger.Info("attendance day rolled", "today", today, "week_start", grid.Days[0].Key)
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewDayRolledEvent(today, grid)); err != nil {
			s.logger.Warn("failed to publish day rolled event", "error", err)
		}
	}
	return true
}
