package main

import (
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/planweave/planweave/internal/plan"
	"github.com/planweave/planweave/internal/timeline"
)

var (
	statusColors = map[plan.Status]*color.Color{
		plan.StatusNotStarted: color.New(color.FgWhite),
		plan.StatusInProgress: color.New(color.FgCyan),
		plan.StatusCompleted:  color.New(color.FgGreen),
		plan.StatusOnHold:     color.New(color.FgYellow),
	}
	headerColor = color.New(color.FgHiWhite, color.Bold)
)

func renderStatus(s plan.Status) string {
	if c, ok := statusColors[s]; ok {
		return c.Sprint(string(s))
	}
	return string(s)
}

func handleGenerate(c *client, file string) error {
	var document []byte
	var err error
	contentType := "application/octet-stream"
	if file == "-" {
		document, err = io.ReadAll(os.Stdin)
		contentType = "text/plain"
	} else {
		document, err = os.ReadFile(file)
		if t := mime.TypeByExtension(filepath.Ext(file)); t != "" {
			contentType = t
		}
		switch strings.ToLower(filepath.Ext(file)) {
		case ".txt", ".md":
			contentType = "text/plain"
		}
	}
	if err != nil {
		return err
	}

	fmt.Println("Generating work plan...")
	var p plan.WorkPlan
	if err := c.do("POST", "/api/plans", contentType, document, &p); err != nil {
		return err
	}

	headerColor.Printf("%s\n", p.ProjectName)
	fmt.Printf("Plan ID: %s\n\n%s\n\n", p.ID, p.Summary)
	return printTasks(p.Tasks)
}

func handlePlans(c *client) error {
	var resp struct {
		Plans []*plan.WorkPlan `json:"plans"`
	}
	if err := c.getJSON("/api/plans", &resp); err != nil {
		return err
	}
	if len(resp.Plans) == 0 {
		fmt.Println("No plans in this server session.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROJECT\tTASKS\tCREATED")
	for _, p := range resp.Plans {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", p.ID, p.ProjectName, len(p.Tasks), p.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func handleTasks(c *client, planID, sortKey, status, assignee string) error {
	q := url.Values{}
	if sortKey != "" {
		q.Set("sort", sortKey)
	}
	if status != "" {
		q.Set("status", status)
	}
	if assignee != "" {
		q.Set("assignee", assignee)
	}
	var resp struct {
		Tasks []*plan.Task `json:"tasks"`
	}
	if err := c.getJSON("/api/plans/"+url.PathEscape(planID)+"/view?"+q.Encode(), &resp); err != nil {
		return err
	}
	return printTasks(resp.Tasks)
}

func printTasks(tasks []*plan.Task) error {
	if len(tasks) == 0 {
		fmt.Println("No tasks match.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tASSIGNEE\tSTART\tEND\tSTATUS\tREMINDER")
	for _, t := range tasks {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Name, t.Assignee, t.StartDate, t.EndDate, renderStatus(t.Status), t.Reminder)
	}
	return w.Flush()
}

func handleUpdate(c *client, planID string, taskID int, status, reminder, customDate string) error {
	payload := map[string]any{}
	if status != "" {
		payload["status"] = status
	}
	if reminder != "" {
		payload["reminder"] = reminder
	}
	if customDate != "" {
		payload["customReminderDate"] = customDate
	}
	if len(payload) == 0 {
		return fmt.Errorf("nothing to update: pass --status, --reminder or --custom-date")
	}

	var t plan.Task
	path := fmt.Sprintf("/api/plans/%s/tasks/%d", url.PathEscape(planID), taskID)
	if err := c.patchJSON(path, payload, &t); err != nil {
		return err
	}
	fmt.Printf("Updated task %d: %s [%s, %s]\n", t.ID, t.Name, renderStatus(t.Status), t.Reminder)
	return nil
}

const timelineWidth = 60

func handleTimeline(c *client, planID string) error {
	var proj timeline.Projection
	if err := c.getJSON("/api/plans/"+url.PathEscape(planID)+"/timeline", &proj); err != nil {
		return err
	}
	if len(proj.Spans) == 0 {
		fmt.Println("No tasks with dates to project.")
		return nil
	}

	headerColor.Printf("%s .. %s (%d days)\n\n", proj.ProjectStart, proj.ProjectEnd, proj.TotalDays)

	// Scale day offsets into a fixed-width bar chart.
	scale := 1.0
	if proj.TotalDays > timelineWidth {
		scale = float64(timelineWidth) / float64(proj.TotalDays)
	}
	bar := color.New(color.FgCyan)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, s := range proj.Spans {
		offset := int(float64(s.OffsetDays) * scale)
		width := int(float64(s.DurationDays) * scale)
		if width < 1 {
			width = 1
		}
		fmt.Fprintf(w, "%d\t%s\t%s%s\t%s .. %s\n",
			s.TaskID, s.Name,
			strings.Repeat(" ", offset), bar.Sprint(strings.Repeat("█", width)),
			s.StartDate, s.EndDate)
	}
	return w.Flush()
}

func handleRemindersList(c *client) error {
	var resp struct {
		Reminders []*struct {
			TaskID       int    `json:"taskId"`
			TaskName     string `json:"taskName"`
			ReminderDate string `json:"reminderDate"`
			Notified     bool   `json:"notified"`
		} `json:"reminders"`
	}
	if err := c.getJSON("/api/reminders", &resp); err != nil {
		return err
	}
	if len(resp.Reminders) == 0 {
		fmt.Println("No reminders scheduled.")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TASK\tNAME\tDATE\tNOTIFIED")
	for _, r := range resp.Reminders {
		notified := ""
		if r.Notified {
			notified = color.GreenString("yes")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.TaskID, r.TaskName, r.ReminderDate, notified)
	}
	return w.Flush()
}

func handleRemindersCheck(c *client, today string) error {
	payload := map[string]any{}
	if today != "" {
		payload["today"] = today
	}
	var resp struct {
		Fired []struct {
			TaskID       int    `json:"taskId"`
			TaskName     string `json:"taskName"`
			ReminderDate string `json:"reminderDate"`
		} `json:"fired"`
		Count int `json:"count"`
	}
	if err := c.postJSON("/api/reminders/check", payload, &resp); err != nil {
		return err
	}
	if resp.Count == 0 {
		fmt.Println("No reminders due.")
		return nil
	}
	for _, ev := range resp.Fired {
		color.Yellow("Reminder: Task %q is due soon! (%s)", ev.TaskName, ev.ReminderDate)
	}
	fmt.Printf("%d reminder(s) fired.\n", resp.Count)
	return nil
}
