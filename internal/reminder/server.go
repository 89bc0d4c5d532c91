package reminder

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/planweave/planweave/internal/plan"
	"github.com/planweave/planweave/pkg/cerr"
)

// Server exposes the persisted reminder ledger and the due-check trigger.
type Server struct {
	scheduler *Scheduler
}

func NewServer(scheduler *Scheduler) *Server {
	return &Server{scheduler: scheduler}
}

func (s *Server) Routes(r chi.Router) {
	r.Get("/reminders", s.handleList)
	r.Post("/reminders/check", s.handleCheck)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reminders := s.scheduler.List(ctx)
	cerr.SetJSONResponse(ctx, map[string]any{"reminders": reminders})
}

type checkRequest struct {
	Today plan.Date `json:"today"`
}

// handleCheck fires every due, unnotified reminder. The reference day
// defaults to the current UTC day; tests and backfills may pin it in the
// request body.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid check payload", err)
		return
	}
	today := req.Today
	if today.IsZero() {
		today = plan.Today()
	}

	fired := s.scheduler.CheckAndNotify(ctx, today)
	cerr.SetJSONResponse(ctx, map[string]any{
		"fired": fired,
		"count": len(fired),
	})
}
