package timeline

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/planweave/planweave/internal/plan"
	"github.com/planweave/planweave/pkg/cerr"
)

// Server exposes the timeline projection of a plan's schedule.
type Server struct {
	repo plan.Repository
}

func NewServer(repo plan.Repository) *Server {
	return &Server{repo: repo}
}

func (s *Server) Routes(r chi.Router) {
	r.Get("/plans/{planID}/timeline", s.handleTimeline)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := s.repo.Get(ctx, chi.URLParam(r, "planID"))
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, Project(p.Tasks))
}
