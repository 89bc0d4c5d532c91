// Package timeline maps task dates onto chart-relative day offsets for
// Gantt-style rendering. Projection is a pure function of the task list.
package timeline

import (
	"log/slog"
	"sort"

	"github.com/planweave/planweave/internal/plan"
)

// Span is one task's bar on the chart. It carries the fields a tooltip
// needs alongside the chart geometry.
type Span struct {
	TaskID       int       `json:"taskId"`
	Name         string    `json:"name"`
	Assignee     string    `json:"assignee"`
	StartDate    plan.Date `json:"startDate"`
	EndDate      plan.Date `json:"endDate"`
	OffsetDays   int       `json:"offsetDays"`
	DurationDays int       `json:"durationDays"`
}

// Projection is the chart-ready view of a plan's schedule. TotalDays is
// the whole-day distance from the earliest start to the latest end.
type Projection struct {
	Spans        []Span    `json:"spans"`
	ProjectStart plan.Date `json:"projectStart"`
	ProjectEnd   plan.Date `json:"projectEnd"`
	TotalDays    int       `json:"totalDays"`
}

// Domain returns the chart's x-axis range [0, TotalDays].
func (p Projection) Domain() [2]int {
	return [2]int{0, p.TotalDays}
}

// Project computes per-task offsets and durations relative to the
// earliest start date. The project end is the latest end date, computed
// independently of the start, so one anomalously early end date cannot
// shrink the window. Duration is clamped to a minimum of one day so every
// task stays visible even with zero or inverted raw duration. Tasks
// missing either date are logged and excluded rather than guessed at.
// An empty input yields an empty projection with domain [0,0].
func Project(tasks []*plan.Task) Projection {
	scheduled := make([]*plan.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.StartDate.IsZero() || t.EndDate.IsZero() {
			slog.Warn("timeline: task missing schedule dates, excluded from projection",
				"task_id", t.ID, "name", t.Name)
			continue
		}
		scheduled = append(scheduled, t)
	}
	if len(scheduled) == 0 {
		return Projection{}
	}

	// Chart rows run in start-date order, earliest first.
	sort.SliceStable(scheduled, func(i, j int) bool {
		return scheduled[i].StartDate.Before(scheduled[j].StartDate)
	})

	projectStart := scheduled[0].StartDate
	projectEnd := scheduled[0].EndDate
	for _, t := range scheduled[1:] {
		if t.EndDate.After(projectEnd) {
			projectEnd = t.EndDate
		}
	}

	spans := make([]Span, 0, len(scheduled))
	for _, t := range scheduled {
		if t.EndDate.Before(t.StartDate) {
			slog.Warn("timeline: task ends before it starts, clamping duration",
				"task_id", t.ID, "start", t.StartDate.String(), "end", t.EndDate.String())
		}
		duration := t.EndDate.DaysSince(t.StartDate)
		if duration < 1 {
			duration = 1
		}
		spans = append(spans, Span{
			TaskID:       t.ID,
			Name:         t.Name,
			Assignee:     t.Assignee,
			StartDate:    t.StartDate,
			EndDate:      t.EndDate,
			OffsetDays:   t.StartDate.DaysSince(projectStart),
			DurationDays: duration,
		})
	}

	totalDays := projectEnd.DaysSince(projectStart)
	if totalDays < 0 {
		totalDays = 0
	}
	return Projection{
		Spans:        spans,
		ProjectStart: projectStart,
		ProjectEnd:   projectEnd,
		TotalDays:    totalDays,
	}
}
