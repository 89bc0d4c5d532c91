package planner

import (
	"testing"

	"github.com/planweave/planweave/internal/plan"
)

const validPlanJSON = `{
  "projectName": "Website Relaunch",
  "summary": "Relaunch the marketing website.",
  "tasks": [
    {"id": 1, "name": "Audit content", "assignee": "Editor", "startDate": "2024-05-01", "endDate": "2024-05-03", "status": "Not Started", "reminder": "None"},
    {"id": 2, "name": "Redesign pages", "assignee": "Designer", "startDate": "2024-05-04", "endDate": "2024-05-10", "status": "Not Started", "reminder": "None"}
  ]
}`

func TestDecodeWorkPlan(t *testing.T) {
	p, err := decodeWorkPlan(validPlanJSON)
	if err != nil {
		t.Fatalf("decodeWorkPlan() error = %v", err)
	}
	if p.ProjectName != "Website Relaunch" {
		t.Errorf("ProjectName = %q", p.ProjectName)
	}
	if len(p.Tasks) != 2 {
		t.Fatalf("len(Tasks) = %d, want 2", len(p.Tasks))
	}
	if !p.Tasks[0].StartDate.Equal(plan.NewDate(2024, 5, 1)) {
		t.Errorf("Tasks[0].StartDate = %s", p.Tasks[0].StartDate)
	}
}

func TestDecodeWorkPlanStripsMarkdownFence(t *testing.T) {
	p, err := decodeWorkPlan("```json\n" + validPlanJSON + "\n```")
	if err != nil {
		t.Fatalf("decodeWorkPlan() error = %v", err)
	}
	if len(p.Tasks) != 2 {
		t.Errorf("len(Tasks) = %d, want 2", len(p.Tasks))
	}
}

func TestDecodeWorkPlanDefaultsEnums(t *testing.T) {
	raw := `{"projectName": "P", "summary": "S", "tasks": [{"id": 1, "name": "T"}]}`
	p, err := decodeWorkPlan(raw)
	if err != nil {
		t.Fatalf("decodeWorkPlan() error = %v", err)
	}
	if p.Tasks[0].Status != plan.StatusNotStarted {
		t.Errorf("Status = %q, want %q", p.Tasks[0].Status, plan.StatusNotStarted)
	}
	if p.Tasks[0].Reminder != plan.ReminderNone {
		t.Errorf("Reminder = %q, want %q", p.Tasks[0].Reminder, plan.ReminderNone)
	}
}

func TestDecodeWorkPlanRejectsBadOutput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty response", ""},
		{"fence only", "```json\n```"},
		{"not json", "Sure! Here is your plan."},
		{"missing tasks array", `{"projectName": "P", "summary": "S"}`},
		{"duplicate task ids", `{"projectName": "P", "summary": "S", "tasks": [{"id": 1, "name": "A"}, {"id": 1, "name": "B"}]}`},
		{"unknown status", `{"projectName": "P", "summary": "S", "tasks": [{"id": 1, "name": "A", "status": "Blocked"}]}`},
		{"unknown reminder", `{"projectName": "P", "summary": "S", "tasks": [{"id": 1, "name": "A", "reminder": "Hourly"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeWorkPlan(tt.raw); err == nil {
				t.Error("decodeWorkPlan() error = nil, want error")
			}
		})
	}
}
