package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/haingladys/jsdc-accounting/internal/core/events"
	"github.com/haingladys/jsdc-accounting/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event bus commands",
	Long:  `Inspect and exercise the in-process event bus`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long: `Publish a test event to a local event bus and print what a subscriber receives.
Known types: ` + strings.Join(events.Types, ", "),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(cmd, args[0])
	},
}

var listEventsCmd = &cobra.Command{
	Use:   "types",
	Short: "List the event types forwarded to websocket clients",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range events.Types {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
	},
}

var (
	eventKind     string
	eventAction   string
	eventRecordID string
)

func testEvent(eventType string) (events.Event, error) {
	switch eventType {
	case events.EventTypeRecordChanged:
		return events.NewRecordChangedEvent(eventKind, eventAction, eventRecordID), nil
	case events.EventTypeAttendanceUpdated:
		return events.NewAttendanceUpdatedEvent(eventRecordID, "", nil), nil
	case events.EventTypeAttendanceDayRolled:
		return events.NewDayRolledEvent("", nil), nil
	}
	return nil, fmt.Errorf("unknown event type %q, expected one of %s", eventType, strings.Join(events.Types, ", "))
}

func publishTestEvent(cmd *cobra.Command, eventType string) error {
	event, err := testEvent(eventType)
	if err != nil {
		return err
	}

	log := logger.LoggerWrapper()
	bus := events.NewEventBus(log)

	bus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
		fmt.Fprintf(cmd.OutOrStdout(), "received %s %s: %v\n", event.EventType(), event.EventID(), event.Payload())
		return nil
	})

	log.Info("publishing test event", "event_type", eventType, "event_id", event.EventID())
	return bus.PublishSync(cmd.Context(), event)
}

func init() {
	publishEventCmd.Flags().StringVar(&eventKind, "kind", "income", "record kind for record.changed")
	publishEventCmd.Flags().StringVar(&eventAction, "action", "created", "action for record.changed")
	publishEventCmd.Flags().StringVar(&eventRecordID, "id", "cli-test", "record or employee id")

	eventCmd.AddCommand(publishEventCmd)
	eventCmd.AddCommand(listEventsCmd)

	rootCmd.AddCommand(eventCmd)
}
