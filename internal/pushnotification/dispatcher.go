package pushnotification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/planweave/planweave/internal/eventbus"
)

// Dispatcher forwards fired reminders from the event bus to Web Push
// subscribers.
type Dispatcher struct {
	eventBus *eventbus.Bus
	sender   *Sender
}

func NewDispatcher(eventBus *eventbus.Bus, sender *Sender) *Dispatcher {
	return &Dispatcher{
		eventBus: eventBus,
		sender:   sender,
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	subID, ch := d.eventBus.Subscribe(256)
	defer d.eventBus.Unsubscribe(subID)

	slog.Info("push notification dispatcher started")
	for {
		select {
		case <-ctx.Done():
			slog.Info("push notification dispatcher stopped")
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if event.Type == eventbus.TypeReminderFired {
				d.handleReminderFired(ctx, event)
			}
		}
	}
}

func (d *Dispatcher) handleReminderFired(ctx context.Context, event *eventbus.Event) {
	taskName := event.Metadata["task_name"]
	if taskName == "" {
		taskName = "a task"
	}
	d.sender.SendToAll(ctx, &NotificationPayload{
		Title: "Task Reminder",
		Body:  fmt.Sprintf("Reminder: Task %q is due soon!", taskName),
		Tag:   event.ID,
	})
}
