package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
)

var (
	app       = kingpin.New("planweave", "AI-powered project planner")
	serverURL = app.Flag("server", "Planweave server URL").
			Default("http://localhost:3200").
			Envar("PLANWEAVE_SERVER_URL").
			String()
	apiKey = app.Flag("api-key", "API key for the server").
		Envar("PLANWEAVE_API_KEY").
		String()

	// Plan commands
	generateCmd  = app.Command("generate", "Generate a work plan from a document")
	generateFile = generateCmd.Arg("file", "Document to analyze (use '-' for stdin)").Required().String()

	plansCmd = app.Command("plans", "List generated plans in this server session")

	// Task commands
	tasksCmd      = app.Command("tasks", "Show a plan's tasks")
	tasksPlanID   = tasksCmd.Arg("plan-id", "Plan ID").Required().String()
	tasksSort     = tasksCmd.Flag("sort", "Sort key: default, endDate, status, assignee").Default("default").String()
	tasksStatus   = tasksCmd.Flag("status", "Filter by status").String()
	tasksAssignee = tasksCmd.Flag("assignee", "Filter by assignee").String()

	updateCmd      = app.Command("update", "Update a task's status or reminder")
	updatePlanID   = updateCmd.Arg("plan-id", "Plan ID").Required().String()
	updateTaskID   = updateCmd.Arg("task-id", "Task ID").Required().Int()
	updateStatus   = updateCmd.Flag("status", "New status").String()
	updateReminder = updateCmd.Flag("reminder", "New reminder option").String()
	updateCustom   = updateCmd.Flag("custom-date", "Custom reminder date (YYYY-MM-DD)").String()

	// Timeline commands
	timelineCmd    = app.Command("timeline", "Show a plan's timeline projection")
	timelinePlanID = timelineCmd.Arg("plan-id", "Plan ID").Required().String()

	// Reminder commands
	remindersCmd = app.Command("reminders", "Reminder management commands")

	remindersListCmd = remindersCmd.Command("list", "List persisted reminders")

	remindersCheckCmd   = remindersCmd.Command("check", "Fire due reminders")
	remindersCheckToday = remindersCheckCmd.Flag("today", "Reference day (YYYY-MM-DD, defaults to today)").String()
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	client := newClient(*serverURL, *apiKey)

	var err error
	switch command {
	case generateCmd.FullCommand():
		err = handleGenerate(client, *generateFile)
	case plansCmd.FullCommand():
		err = handlePlans(client)
	case tasksCmd.FullCommand():
		err = handleTasks(client, *tasksPlanID, *tasksSort, *tasksStatus, *tasksAssignee)
	case updateCmd.FullCommand():
		err = handleUpdate(client, *updatePlanID, *updateTaskID, *updateStatus, *updateReminder, *updateCustom)
	case timelineCmd.FullCommand():
		err = handleTimeline(client, *timelinePlanID)
	case remindersListCmd.FullCommand():
		err = handleRemindersList(client)
	case remindersCheckCmd.FullCommand():
		err = handleRemindersCheck(client, *remindersCheckToday)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
