// Package planner wraps the AI collaborator that turns extracted
// document text into a structured WorkPlan. The collaborator is opaque:
// it returns a well-formed plan or fails with a descriptive error.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	claudeagent "github.com/kazz187/claude-agent-sdk-go"

	"github.com/planweave/planweave/internal/plan"
)

// Documents beyond this are truncated before prompting; enough for any
// realistic meeting-notes or requirements document.
const maxDocumentChars = 200_000

const systemPrompt = `You are a project planning assistant. You analyze document text,
identify all pending issues, action items, unresolved topics, and key deliverables,
and produce a comprehensive work plan to address them.
You respond with a single JSON object and nothing else: no prose, no markdown fences.`

// ClaudeGenerator generates work plans through the Claude agent SDK.
type ClaudeGenerator struct {
	timeout time.Duration
}

func NewClaudeGenerator(timeout time.Duration) *ClaudeGenerator {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &ClaudeGenerator{timeout: timeout}
}

func (g *ClaudeGenerator) Generate(ctx context.Context, documentText string) (*plan.WorkPlan, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := claudeagent.RunQuerySync(ctx, buildPrompt(documentText, plan.Today()), &claudeagent.ClaudeAgentOptions{
		SystemPrompt: systemPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("plan generation failed: %w", err)
	}
	if result.Result == nil {
		return nil, errors.New("plan generation failed: the model returned no result")
	}
	if result.Result.IsError {
		return nil, fmt.Errorf("plan generation failed: %s", result.Result.Result)
	}

	generated, err := decodeWorkPlan(result.Result.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to generate a valid work plan: %w", err)
	}
	return generated, nil
}

func buildPrompt(documentText string, today plan.Date) string {
	if len(documentText) > maxDocumentChars {
		documentText = documentText[:maxDocumentChars]
	}
	return fmt.Sprintf(`Analyze the following document text and create a work plan as a JSON object with this shape:

{
  "projectName": "concise project name inferred from the document",
  "summary": "one-paragraph summary of the work plan and its objectives",
  "tasks": [
    {
      "id": 1,
      "name": "short task name",
      "description": "what the task involves",
      "assignee": "responsible person or role; infer one if unspecified (e.g. 'Project Manager')",
      "startDate": "YYYY-MM-DD",
      "endDate": "YYYY-MM-DD",
      "status": "Not Started",
      "reminder": "None"
    }
  ]
}

Key instructions:
1. Task ids are unique integers starting from 1.
2. Break the work into specific, actionable tasks with a logical, sequential timeline.
3. Every task starts with status "Not Started" and reminder "None".
4. Assume today's date is %s. All dates must be YYYY-MM-DD.
5. Output only the JSON object.

Document text:
---
%s
---`, today, documentText)
}

// decodeWorkPlan parses the model output into a WorkPlan, tolerating a
// stray markdown fence, and normalizes omitted enum fields to their
// defaults.
func decodeWorkPlan(raw string) (*plan.WorkPlan, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
		raw = strings.TrimSpace(raw)
	}
	if raw == "" {
		return nil, errors.New("the model returned an empty response")
	}

	var p plan.WorkPlan
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}
	if p.Tasks == nil {
		return nil, errors.New("generated plan is missing a valid tasks array")
	}

	seen := make(map[int]bool, len(p.Tasks))
	for _, t := range p.Tasks {
		if seen[t.ID] {
			return nil, fmt.Errorf("generated plan contains duplicate task id %d", t.ID)
		}
		seen[t.ID] = true
		if t.Status == "" {
			t.Status = plan.StatusNotStarted
		}
		if !t.Status.Valid() {
			return nil, fmt.Errorf("task %d has unknown status %q", t.ID, t.Status)
		}
		if t.Reminder == "" {
			t.Reminder = plan.ReminderNone
		}
		if !t.Reminder.Valid() {
			return nil, fmt.Errorf("task %d has unknown reminder option %q", t.ID, t.Reminder)
		}
	}
	return &p, nil
}
