package view

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/planweave/planweave/internal/plan"
	"github.com/planweave/planweave/pkg/cerr"
)

// Server exposes derived task views over a plan's task list.
type Server struct {
	repo plan.Repository
}

func NewServer(repo plan.Repository) *Server {
	return &Server{repo: repo}
}

func (s *Server) Routes(r chi.Router) {
	r.Get("/plans/{planID}/view", s.handleView)
}

// handleView derives a filtered, sorted task sequence. The derivation is
// recomputed on every request; nothing is cached.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := s.repo.Get(ctx, chi.URLParam(r, "planID"))
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}

	sel := Selection{Sort: SortDefault}
	if v := r.URL.Query().Get("sort"); v != "" {
		switch key := SortKey(v); key {
		case SortDefault, SortEndDate, SortStatus, SortAssignee:
			sel.Sort = key
		default:
			cerr.SetNewJSONError(ctx, cerr.InvalidArgument, fmt.Sprintf("unknown sort key %q", v), nil)
			return
		}
	}
	if v := r.URL.Query().Get("status"); v != "" && v != "All" {
		status := plan.Status(v)
		if !status.Valid() {
			cerr.SetNewJSONError(ctx, cerr.InvalidArgument, fmt.Sprintf("unknown status %q", v), nil)
			return
		}
		sel.Status = status
	}
	if v := r.URL.Query().Get("assignee"); v != "" && v != "All" {
		sel.Assignee = v
	}

	tasks := Derive(p.Tasks, sel)
	cerr.SetJSONResponse(ctx, map[string]any{"tasks": tasks})
}
