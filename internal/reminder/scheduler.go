package reminder

import (
	"context"
	"log/slog"
	"sync"

	"github.com/planweave/planweave/internal/plan"
)

// Event describes a reminder that just came due.
type Event struct {
	TaskID       int       `json:"taskId"`
	TaskName     string    `json:"taskName"`
	ReminderDate plan.Date `json:"reminderDate"`
}

// Notifier is the injected notification sink. Production wiring
// publishes to the event bus (and from there to Web Push); tests attach
// a recording stub.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, ev Event)

func (f NotifierFunc) Notify(ctx context.Context, ev Event) { f(ctx, ev) }

// Scheduler owns reminder state: it computes reminder dates from task
// policies, keeps the persisted collection in sync with task edits, and
// fires each due reminder exactly once per update cycle.
//
// The collection is updated as a whole-blob read-modify-write, so the
// mutex serializes every Load-mutate-Save cycle; concurrent HTTP
// handlers would otherwise overwrite each other's records.
//
// Storage failures are recovered locally with a logged warning and never
// propagated: losing a reminder is preferable to blocking the plan view.
type Scheduler struct {
	mu       sync.Mutex
	repo     Repository
	notifier Notifier
}

func NewScheduler(repo Repository, notifier Notifier) *Scheduler {
	return &Scheduler{
		repo:     repo,
		notifier: notifier,
	}
}

// CalculateReminderDate resolves a task's reminder policy to a concrete
// date. The second return is false when the task has no reminder: policy
// None, a Custom policy without a date, or a relative policy on a task
// with no end date. It never fails on bad input.
func CalculateReminderDate(t *plan.Task) (plan.Date, bool) {
	switch t.Reminder {
	case plan.ReminderCustom:
		if t.CustomReminderDate == nil || t.CustomReminderDate.IsZero() {
			return plan.Date{}, false
		}
		return *t.CustomReminderDate, true
	case plan.ReminderOnDueDate, plan.ReminderOneDayBefore, plan.ReminderThreeDaysBefore:
		if t.EndDate.IsZero() {
			return plan.Date{}, false
		}
		switch t.Reminder {
		case plan.ReminderOneDayBefore:
			return t.EndDate.AddDays(-1), true
		case plan.ReminderThreeDaysBefore:
			return t.EndDate.AddDays(-3), true
		default:
			return t.EndDate, true
		}
	default:
		return plan.Date{}, false
	}
}

// UpdateReminder recomputes the reminder date for the task and brings
// the persisted record in line: a non-null date upserts the record with
// notified reset to false (overwriting any prior fired state); a null
// date removes it. This is the only place the notified flag is reset.
func (s *Scheduler) UpdateReminder(ctx context.Context, t *plan.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reminders, err := s.repo.Load(ctx)
	if err != nil {
		slog.Warn("reminders: failed to load collection, skipping update", "task_id", t.ID, "error", err)
		return
	}

	date, ok := CalculateReminderDate(t)
	idx := -1
	for i, r := range reminders {
		if r.TaskID == t.ID {
			idx = i
			break
		}
	}

	switch {
	case ok && idx >= 0:
		reminders[idx] = &StoredReminder{TaskID: t.ID, TaskName: t.Name, ReminderDate: date}
	case ok:
		reminders = append(reminders, &StoredReminder{TaskID: t.ID, TaskName: t.Name, ReminderDate: date})
	case idx >= 0:
		reminders = append(reminders[:idx], reminders[idx+1:]...)
	default:
		return
	}

	if err := s.repo.Save(ctx, reminders); err != nil {
		slog.Warn("reminders: failed to save collection", "task_id", t.ID, "error", err)
	}
}

// CheckAndNotify fires every pending reminder whose date is on or before
// today and marks it notified. The transition is persisted before
// returning, so repeated calls on the same day fire nothing further.
// Fired events are returned for the caller's response payload.
func (s *Scheduler) CheckAndNotify(ctx context.Context, today plan.Date) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	reminders, err := s.repo.Load(ctx)
	if err != nil {
		slog.Warn("reminders: failed to load collection, skipping due check", "error", err)
		return nil
	}

	var fired []Event
	for _, r := range reminders {
		if r.Notified || r.ReminderDate.IsZero() || r.ReminderDate.After(today) {
			continue
		}
		ev := Event{TaskID: r.TaskID, TaskName: r.TaskName, ReminderDate: r.ReminderDate}
		s.notifier.Notify(ctx, ev)
		r.Notified = true
		fired = append(fired, ev)
	}

	if len(fired) == 0 {
		return nil
	}
	if err := s.repo.Save(ctx, reminders); err != nil {
		slog.Warn("reminders: failed to persist fired state", "error", err)
	}
	return fired
}

// List returns the persisted collection for display.
func (s *Scheduler) List(ctx context.Context) []*StoredReminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	reminders, err := s.repo.Load(ctx)
	if err != nil {
		slog.Warn("reminders: failed to load collection", "error", err)
		return nil
	}
	return reminders
}
