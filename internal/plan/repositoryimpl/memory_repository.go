package repositoryimpl

import (
	"context"
	"sort"
	"sync"

	"github.com/planweave/planweave/internal/plan"
	"github.com/planweave/planweave/pkg/cerr"
)

// MemoryRepository is the session plan store: a mutex-guarded map keyed
// by plan ID. Plans cross the boundary as deep copies in both
// directions, so concurrent handlers never share task pointers and a
// caller's partial mutations cannot leak into the store.
type MemoryRepository struct {
	mu    sync.RWMutex
	plans map[string]*plan.WorkPlan
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		plans: make(map[string]*plan.WorkPlan),
	}
}

func (r *MemoryRepository) Create(_ context.Context, p *plan.WorkPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[p.ID]; ok {
		return cerr.NewError(cerr.AlreadyExists, "plan already exists", nil)
	}
	r.plans[p.ID] = p.Clone()
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*plan.WorkPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, cerr.NewError(cerr.NotFound, "plan not found", nil)
	}
	return p.Clone(), nil
}

func (r *MemoryRepository) Update(_ context.Context, p *plan.WorkPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[p.ID]; !ok {
		return cerr.NewError(cerr.NotFound, "plan not found", nil)
	}
	r.plans[p.ID] = p.Clone()
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[id]; !ok {
		return cerr.NewError(cerr.NotFound, "plan not found", nil)
	}
	delete(r.plans, id)
	return nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*plan.WorkPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*plan.WorkPlan, 0, len(r.plans))
	for _, p := range r.plans {
		all = append(all, p.Clone())
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}
