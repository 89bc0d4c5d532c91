package reminder_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/planweave/planweave/internal/plan"
	"github.com/planweave/planweave/internal/reminder"
	"github.com/planweave/planweave/internal/reminder/repositoryimpl"
	"github.com/planweave/planweave/pkg/storage"
)

func date(y int, m time.Month, d int) plan.Date {
	return plan.NewDate(y, m, d)
}

func datePtr(y int, m time.Month, d int) *plan.Date {
	v := plan.NewDate(y, m, d)
	return &v
}

type recordingNotifier struct {
	events []reminder.Event
}

func (n *recordingNotifier) Notify(_ context.Context, ev reminder.Event) {
	n.events = append(n.events, ev)
}

func newTestScheduler(t *testing.T) (*reminder.Scheduler, *recordingNotifier) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create local storage: %v", err)
	}
	notifier := &recordingNotifier{}
	return reminder.NewScheduler(repositoryimpl.NewYAMLRepository(store), notifier), notifier
}

func TestCalculateReminderDate(t *testing.T) {
	tests := []struct {
		name   string
		task   *plan.Task
		want   plan.Date
		wantOK bool
	}{
		{
			name:   "none yields no reminder",
			task:   &plan.Task{Reminder: plan.ReminderNone, EndDate: date(2024, 1, 10)},
			wantOK: false,
		},
		{
			name:   "on due date",
			task:   &plan.Task{Reminder: plan.ReminderOnDueDate, EndDate: date(2024, 1, 10)},
			want:   date(2024, 1, 10),
			wantOK: true,
		},
		{
			name:   "one day before",
			task:   &plan.Task{Reminder: plan.ReminderOneDayBefore, EndDate: date(2024, 1, 10)},
			want:   date(2024, 1, 9),
			wantOK: true,
		},
		{
			name:   "three days before",
			task:   &plan.Task{Reminder: plan.ReminderThreeDaysBefore, EndDate: date(2024, 1, 10)},
			want:   date(2024, 1, 7),
			wantOK: true,
		},
		{
			name:   "relative policy without end date",
			task:   &plan.Task{Reminder: plan.ReminderThreeDaysBefore},
			wantOK: false,
		},
		{
			name:   "custom uses the custom date",
			task:   &plan.Task{Reminder: plan.ReminderCustom, EndDate: date(2024, 1, 10), CustomReminderDate: datePtr(2024, 1, 2)},
			want:   date(2024, 1, 2),
			wantOK: true,
		},
		{
			name:   "custom without a date",
			task:   &plan.Task{Reminder: plan.ReminderCustom, EndDate: date(2024, 1, 10)},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := reminder.CalculateReminderDate(tt.task)
			if ok != tt.wantOK {
				t.Fatalf("CalculateReminderDate() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("CalculateReminderDate() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestUpdateReminderUpsertAndRemove(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestScheduler(t)

	task := &plan.Task{ID: 1, Name: "Ship release", Reminder: plan.ReminderOnDueDate, EndDate: date(2024, 1, 10)}
	s.UpdateReminder(ctx, task)

	reminders := s.List(ctx)
	if len(reminders) != 1 {
		t.Fatalf("len(reminders) = %d, want 1", len(reminders))
	}
	if reminders[0].TaskID != 1 || !reminders[0].ReminderDate.Equal(date(2024, 1, 10)) {
		t.Errorf("stored reminder = %+v", reminders[0])
	}
	if reminders[0].Notified {
		t.Error("fresh reminder should not be notified")
	}

	// Changing the policy moves the date and keeps a single record.
	task.Reminder = plan.ReminderThreeDaysBefore
	s.UpdateReminder(ctx, task)
	reminders = s.List(ctx)
	if len(reminders) != 1 {
		t.Fatalf("after policy change len(reminders) = %d, want 1", len(reminders))
	}
	if !reminders[0].ReminderDate.Equal(date(2024, 1, 7)) {
		t.Errorf("ReminderDate = %s, want 2024-01-07", reminders[0].ReminderDate)
	}

	// Setting the policy to none removes the record.
	task.Reminder = plan.ReminderNone
	s.UpdateReminder(ctx, task)
	if got := s.List(ctx); len(got) != 0 {
		t.Errorf("after removal len(reminders) = %d, want 0", len(got))
	}
}

func TestUpdateReminderResetsNotified(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestScheduler(t)

	task := &plan.Task{ID: 1, Name: "Ship release", Reminder: plan.ReminderOnDueDate, EndDate: date(2024, 1, 10)}
	s.UpdateReminder(ctx, task)
	if fired := s.CheckAndNotify(ctx, date(2024, 1, 10)); len(fired) != 1 {
		t.Fatalf("len(fired) = %d, want 1", len(fired))
	}

	// An edit re-arms the reminder even if the date is unchanged.
	s.UpdateReminder(ctx, task)
	reminders := s.List(ctx)
	if len(reminders) != 1 || reminders[0].Notified {
		t.Errorf("reminder should be re-armed after update: %+v", reminders)
	}
}

func TestCheckAndNotifyFiresDueReminders(t *testing.T) {
	ctx := context.Background()
	s, notifier := newTestScheduler(t)

	overdue := &plan.Task{ID: 1, Name: "Overdue", Reminder: plan.ReminderOnDueDate, EndDate: date(2024, 1, 5)}
	dueToday := &plan.Task{ID: 2, Name: "Due today", Reminder: plan.ReminderOnDueDate, EndDate: date(2024, 1, 10)}
	future := &plan.Task{ID: 3, Name: "Future", Reminder: plan.ReminderOnDueDate, EndDate: date(2024, 2, 1)}
	for _, task := range []*plan.Task{overdue, dueToday, future} {
		s.UpdateReminder(ctx, task)
	}

	fired := s.CheckAndNotify(ctx, date(2024, 1, 10))

	if len(fired) != 2 {
		t.Fatalf("len(fired) = %d, want 2", len(fired))
	}
	if len(notifier.events) != 2 {
		t.Fatalf("len(notifier.events) = %d, want 2", len(notifier.events))
	}
	firedIDs := map[int]bool{}
	for _, ev := range fired {
		firedIDs[ev.TaskID] = true
	}
	if !firedIDs[1] || !firedIDs[2] || firedIDs[3] {
		t.Errorf("fired task ids = %v, want 1 and 2 only", firedIDs)
	}
}

func TestCheckAndNotifyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, notifier := newTestScheduler(t)

	task := &plan.Task{ID: 1, Name: "Ship release", Reminder: plan.ReminderOnDueDate, EndDate: date(2024, 1, 10)}
	s.UpdateReminder(ctx, task)

	if fired := s.CheckAndNotify(ctx, date(2024, 1, 10)); len(fired) != 1 {
		t.Fatalf("first check fired %d, want 1", len(fired))
	}
	if fired := s.CheckAndNotify(ctx, date(2024, 1, 10)); len(fired) != 0 {
		t.Errorf("second check fired %d, want 0", len(fired))
	}
	if fired := s.CheckAndNotify(ctx, date(2024, 1, 11)); len(fired) != 0 {
		t.Errorf("next-day check fired %d, want 0", len(fired))
	}
	if len(notifier.events) != 1 {
		t.Errorf("len(notifier.events) = %d, want 1", len(notifier.events))
	}
}

func TestUpdateReminderConcurrent(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestScheduler(t)

	// Every update must survive: the read-modify-write over the whole
	// collection is serialized, so parallel edits cannot overwrite each
	// other's records.
	const n = 50
	var wg sync.WaitGroup
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			task := &plan.Task{
				ID:       id,
				Name:     fmt.Sprintf("Task %d", id),
				Reminder: plan.ReminderOnDueDate,
				EndDate:  date(2024, 1, 10),
			}
			s.UpdateReminder(ctx, task)
		}(i)
	}
	wg.Wait()

	reminders := s.List(ctx)
	if len(reminders) != n {
		t.Errorf("after %d concurrent updates len(reminders) = %d, want %d", n, len(reminders), n)
	}
}

func TestSchedulerPersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create local storage: %v", err)
	}
	repo := repositoryimpl.NewYAMLRepository(store)

	s1 := reminder.NewScheduler(repo, &recordingNotifier{})
	task := &plan.Task{ID: 1, Name: "Ship release", Reminder: plan.ReminderOnDueDate, EndDate: date(2024, 1, 10)}
	s1.UpdateReminder(ctx, task)
	if fired := s1.CheckAndNotify(ctx, date(2024, 1, 10)); len(fired) != 1 {
		t.Fatalf("len(fired) = %d, want 1", len(fired))
	}

	// A fresh scheduler over the same storage sees the fired state.
	s2 := reminder.NewScheduler(repo, &recordingNotifier{})
	if fired := s2.CheckAndNotify(ctx, date(2024, 1, 10)); len(fired) != 0 {
		t.Errorf("restarted scheduler refired %d reminders", len(fired))
	}
	reminders := s2.List(ctx)
	if len(reminders) != 1 || !reminders[0].Notified {
		t.Errorf("persisted state = %+v, want one notified reminder", reminders)
	}
}
