package reminder

import "context"

// Repository persists the reminder collection as one unit. The scheduler
// reads, mutates and writes the whole collection back; callers must not
// interleave concurrent writers.
type Repository interface {
	Load(ctx context.Context) ([]*StoredReminder, error)
	Save(ctx context.Context, reminders []*StoredReminder) error
}
