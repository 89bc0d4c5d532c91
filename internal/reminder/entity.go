package reminder

import "github.com/planweave/planweave/internal/plan"

// StoredReminder is the persisted reminder record for one task. It
// outlives the in-memory plan (TaskName is a snapshot for rendering
// without live task data) and holds at most one entry per task ID.
// Notified flips to true exactly once per computed date; only an
// explicit reminder update resets it.
type StoredReminder struct {
	TaskID       int       `json:"taskId" yaml:"task_id"`
	TaskName     string    `json:"taskName" yaml:"task_name"`
	ReminderDate plan.Date `json:"reminderDate" yaml:"reminder_date"`
	Notified     bool      `json:"notified" yaml:"notified"`
}
