// Package view derives filtered, sorted task sequences from a plan's
// task list. Derivation is pure and total: it never fails, never mutates
// its input, and is recomputed on every call.
package view

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/planweave/planweave/internal/plan"
)

type SortKey string

const (
	SortDefault  SortKey = "default"
	SortEndDate  SortKey = "endDate"
	SortStatus   SortKey = "status"
	SortAssignee SortKey = "assignee"
)

// Selection picks the filter and ordering for a derived view. Zero
// values mean "all tasks, default order".
type Selection struct {
	Sort     SortKey
	Status   plan.Status // empty = all statuses
	Assignee string      // empty = all assignees
}

// Tasks in progress surface first, completed work sinks to the bottom.
// Unknown statuses sort after everything known.
var statusPriority = map[plan.Status]int{
	plan.StatusInProgress: 1,
	plan.StatusOnHold:     2,
	plan.StatusNotStarted: 3,
	plan.StatusCompleted:  4,
}

// Derive filters tasks by the selection (filters compose by conjunction)
// and then orders the filtered set. All sorts are stable: equal keys keep
// their relative filtered order. An empty result is valid, not an error.
func Derive(tasks []*plan.Task, sel Selection) []*plan.Task {
	filtered := make([]*plan.Task, 0, len(tasks))
	for _, t := range tasks {
		if sel.Status != "" && t.Status != sel.Status {
			continue
		}
		if sel.Assignee != "" && t.Assignee != sel.Assignee {
			continue
		}
		filtered = append(filtered, t)
	}

	switch sel.Sort {
	case SortEndDate:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].EndDate.Before(filtered[j].EndDate)
		})
	case SortStatus:
		sort.SliceStable(filtered, func(i, j int) bool {
			return priority(filtered[i].Status) < priority(filtered[j].Status)
		})
	case SortAssignee:
		coll := collate.New(language.Und)
		sort.SliceStable(filtered, func(i, j int) bool {
			return coll.CompareString(filtered[i].Assignee, filtered[j].Assignee) < 0
		})
	default:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].ID < filtered[j].ID
		})
	}
	return filtered
}

func priority(s plan.Status) int {
	if p, ok := statusPriority[s]; ok {
		return p
	}
	return len(statusPriority) + 1
}
