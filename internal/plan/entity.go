package plan

import "time"

// Status values are the wire strings produced by the plan generator.
type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusOnHold     Status = "On Hold"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusOnHold:
		return true
	}
	return false
}

// ReminderOption is a task's reminder policy.
type ReminderOption string

const (
	ReminderNone            ReminderOption = "None"
	ReminderOnDueDate       ReminderOption = "On Due Date"
	ReminderOneDayBefore    ReminderOption = "1 Day Before"
	ReminderThreeDaysBefore ReminderOption = "3 Days Before"
	ReminderCustom          ReminderOption = "Custom"
)

func (r ReminderOption) Valid() bool {
	switch r {
	case ReminderNone, ReminderOnDueDate, ReminderOneDayBefore, ReminderThreeDaysBefore, ReminderCustom:
		return true
	}
	return false
}

// Task is a unit of work inside a WorkPlan. IDs are assigned by the plan
// generator, are unique within their plan, and are never reassigned.
// Start/end date ordering is not enforced here; downstream consumers
// degrade gracefully when it is violated.
type Task struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Assignee    string         `json:"assignee"`
	StartDate   Date           `json:"startDate"`
	EndDate     Date           `json:"endDate"`
	Status      Status         `json:"status"`
	Reminder    ReminderOption `json:"reminder"`
	// CustomReminderDate is meaningful only when Reminder is Custom.
	CustomReminderDate *Date `json:"customReminderDate,omitempty"`
}

// WorkPlan aggregates a generated project plan. Task order is the
// generator's creation order and carries no semantic weight; orderings
// are re-derived by the view engine. Plans live only for the session and
// are never written to storage.
type WorkPlan struct {
	ID          string    `json:"id"`
	ProjectName string    `json:"projectName"`
	Summary     string    `json:"summary"`
	Tasks       []*Task   `json:"tasks"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Task returns the task with the given ID, or nil.
func (p *WorkPlan) Task(id int) *Task {
	for _, t := range p.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Clone returns a deep copy. Callers may mutate the copy freely without
// affecting the original or anything aliasing it.
func (p *WorkPlan) Clone() *WorkPlan {
	cp := *p
	cp.Tasks = make([]*Task, len(p.Tasks))
	for i, t := range p.Tasks {
		tc := *t
		if t.CustomReminderDate != nil {
			d := *t.CustomReminderDate
			tc.CustomReminderDate = &d
		}
		cp.Tasks[i] = &tc
	}
	return &cp
}
