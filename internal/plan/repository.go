package plan

import "context"

// Repository holds generated plans for the lifetime of the process.
// Plans are deliberately not persisted; only reminder state survives a
// restart.
type Repository interface {
	Create(ctx context.Context, p *WorkPlan) error
	Get(ctx context.Context, id string) (*WorkPlan, error)
	Update(ctx context.Context, p *WorkPlan) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*WorkPlan, error)
}
