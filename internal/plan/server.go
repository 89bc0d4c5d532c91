package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/planweave/planweave/internal/eventbus"
	"github.com/planweave/planweave/internal/extraction"
	"github.com/planweave/planweave/pkg/cerr"
)

const maxDocumentBytes = 16 << 20

// Generator produces a work plan from extracted document text.
type Generator interface {
	Generate(ctx context.Context, documentText string) (*WorkPlan, error)
}

// Scheduler is the slice of the reminder scheduler the plan server
// drives on task edits.
type Scheduler interface {
	UpdateReminder(ctx context.Context, t *Task)
}

// Server exposes plan generation, retrieval and task edits.
type Server struct {
	repo      Repository
	extractor extraction.Extractor
	generator Generator
	scheduler Scheduler
	eventBus  *eventbus.Bus
}

func NewServer(repo Repository, extractor extraction.Extractor, generator Generator, scheduler Scheduler, eventBus *eventbus.Bus) *Server {
	return &Server{
		repo:      repo,
		extractor: extractor,
		generator: generator,
		scheduler: scheduler,
		eventBus:  eventBus,
	}
}

func (s *Server) Routes(r chi.Router) {
	r.Post("/plans", s.handleGenerate)
	r.Get("/plans", s.handleList)
	r.Get("/plans/{planID}", s.handleGet)
	r.Patch("/plans/{planID}/tasks/{taskID}", s.handleUpdateTask)
}

// handleGenerate runs the full pipeline: read the document, extract its
// text, generate a plan, store it for the session. Extraction is skipped
// for plain-text uploads. Collaborator failures abort this request only;
// no persisted state is touched.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	document, contentType, err := readDocument(r)
	if err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, err.Error(), err)
		return
	}
	if len(document) == 0 {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "document is empty", nil)
		return
	}
	if len(document) > maxDocumentBytes {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "document exceeds the 16MB limit", nil)
		return
	}

	var text string
	if strings.HasPrefix(contentType, "text/plain") {
		text = string(document)
	} else {
		text, err = s.extractor.Extract(ctx, document, contentType)
		if err != nil {
			cerr.SetNewJSONError(ctx, cerr.Unavailable,
				fmt.Sprintf("document text extraction failed: %v", err), err)
			return
		}
	}
	if strings.TrimSpace(text) == "" {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "document contains no extractable text", nil)
		return
	}

	p, err := s.generator.Generate(ctx, text)
	if err != nil {
		cerr.SetNewJSONError(ctx, cerr.Unavailable, err.Error(), err)
		return
	}
	p.ID = ulid.Make().String()
	p.CreatedAt = time.Now()

	if err := s.repo.Create(ctx, p); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}

	s.eventBus.PublishNew(eventbus.TypePlanGenerated, p.ID, map[string]string{
		"project_name": p.ProjectName,
		"task_count":   strconv.Itoa(len(p.Tasks)),
	})

	cerr.SetJSONStatus(ctx, http.StatusCreated)
	cerr.SetJSONResponse(ctx, p)
}

// readDocument accepts either a raw document body or a multipart form
// with a "document" file part, returning the bytes and their content
// type.
func readDocument(r *http.Request) ([]byte, string, error) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		document, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes+1))
		if err != nil {
			return nil, "", fmt.Errorf("failed to read document: %w", err)
		}
		return document, contentType, nil
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		return nil, "", fmt.Errorf("multipart form is missing a document file: %w", err)
	}
	defer file.Close()
	document, err := io.ReadAll(io.LimitReader(file, maxDocumentBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read document: %w", err)
	}
	partType := header.Header.Get("Content-Type")
	if partType == "" {
		partType = "application/octet-stream"
	}
	return document, partType, nil
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	plans, err := s.repo.List(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, map[string]any{"plans": plans})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := s.repo.Get(ctx, chi.URLParam(r, "planID"))
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, p)
}

type updateTaskRequest struct {
	Status             *Status         `json:"status"`
	Reminder           *ReminderOption `json:"reminder"`
	CustomReminderDate *Date           `json:"customReminderDate"`
}

// handleUpdateTask applies a status and/or reminder edit. The whole
// payload is validated before any field is applied, so a rejected
// request leaves the stored plan untouched. A reminder edit drives the
// scheduler so the persisted reminder state follows the task's policy.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := s.repo.Get(ctx, chi.URLParam(r, "planID"))
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	taskID, err := strconv.Atoi(chi.URLParam(r, "taskID"))
	if err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "task id must be an integer", err)
		return
	}
	t := p.Task(taskID)
	if t == nil {
		cerr.SetNewJSONError(ctx, cerr.NotFound, "task not found", nil)
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid task update payload", err)
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, fmt.Sprintf("unknown status %q", *req.Status), nil)
		return
	}
	if req.Reminder != nil && !req.Reminder.Valid() {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, fmt.Sprintf("unknown reminder option %q", *req.Reminder), nil)
		return
	}

	if req.Status != nil {
		t.Status = *req.Status
	}
	reminderChanged := false
	if req.Reminder != nil {
		t.Reminder = *req.Reminder
		reminderChanged = true
	}
	if req.CustomReminderDate != nil {
		t.CustomReminderDate = req.CustomReminderDate
		reminderChanged = true
	}
	// The custom date means nothing outside the Custom policy.
	if t.Reminder != ReminderCustom {
		t.CustomReminderDate = nil
	}

	if err := s.repo.Update(ctx, p); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if reminderChanged {
		s.scheduler.UpdateReminder(ctx, t)
	}

	s.eventBus.PublishNew(eventbus.TypeTaskUpdated, p.ID, map[string]string{
		"task_id": strconv.Itoa(t.ID),
	})

	cerr.SetJSONResponse(ctx, t)
}
