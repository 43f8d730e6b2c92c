package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/haingladys/jsdc-accounting/internal/core/events"
	"github.com/haingladys/jsdc-accounting/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run background jobs without the HTTP server",
}

var rolloverWorkerCmd = &cobra.Command{
	Use:   "rollover",
	Short: "Run the attendance day roll-over scheduler",
	Long: `Wakes at every local midnight, rebuilds the attendance week grid and logs the
day_rolled event. With --once it rebuilds the current week grid and exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startRolloverWorker(cmd.Context())
	},
}

var rolloverOnce bool

func startRolloverWorker(parent context.Context) error {
	svc, cleanup, err := cliServices()
	if err != nil {
		return err
	}
	defer cleanup()

	log := logger.LoggerWrapper()
	svc.Bus.Subscribe(events.EventTypeAttendanceDayRolled, func(ctx context.Context, event events.Event) error {
		log.Info("day rolled", "event_id", event.EventID(), "occurred_at", event.OccurredAt().Format(time.RFC3339))
		return nil
	})

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if rolloverOnce {
		grid, err := svc.Attendance.WeekGrid(ctx)
		if err != nil {
			return err
		}
		log.Info("week grid rebuilt", "week_start", grid.Days[0].Key, "employees", len(grid.Rows))
		return nil
	}

	log.Info("roll-over worker running. Press Ctrl+C to stop.")
	if err := svc.Scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("roll-over worker stopped")
	return nil
}

func init() {
	rolloverWorkerCmd.Flags().BoolVar(&rolloverOnce, "once", false, "rebuild the current week once and exit")

	workerCmd.AddCommand(rolloverWorkerCmd)
	rootCmd.AddCommand(workerCmd)
}
