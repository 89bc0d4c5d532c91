package repositoryimpl

import (
	"context"
	"testing"

	"github.com/planweave/planweave/internal/plan"
	"github.com/planweave/planweave/pkg/cerr"
)

func TestMemoryRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	p := &plan.WorkPlan{ID: "p1", ProjectName: "Demo"}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(ctx, p); !cerr.IsCode(err, cerr.AlreadyExists) {
		t.Errorf("duplicate Create error = %v, want AlreadyExists", err)
	}

	got, err := repo.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ProjectName != "Demo" {
		t.Errorf("Get = %+v", got)
	}

	got.ProjectName = "Renamed"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, err = repo.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get after Update failed: %v", err)
	}
	if got.ProjectName != "Renamed" {
		t.Errorf("ProjectName = %q, want Renamed", got.ProjectName)
	}

	if err := repo.Delete(ctx, "p1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.Get(ctx, "p1"); !cerr.IsCode(err, cerr.NotFound) {
		t.Errorf("Get after Delete error = %v, want NotFound", err)
	}
}

func TestMemoryRepositoryListSorted(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	for _, id := range []string{"c", "a", "b"} {
		if err := repo.Create(ctx, &plan.WorkPlan{ID: id}); err != nil {
			t.Fatalf("Create(%s) failed: %v", id, err)
		}
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"a", "b", "c"}
	for i, p := range all {
		if p.ID != want[i] {
			t.Errorf("List[%d].ID = %q, want %q", i, p.ID, want[i])
		}
	}
}

func TestMemoryRepositoryIsolatesStoredPlans(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	p := &plan.WorkPlan{
		ID:    "p1",
		Tasks: []*plan.Task{{ID: 1, Status: plan.StatusNotStarted}},
	}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Mutating the caller's plan after Create must not reach the store.
	p.Tasks[0].Status = plan.StatusOnHold
	got, err := repo.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Tasks[0].Status != plan.StatusNotStarted {
		t.Errorf("Status = %q, caller mutation leaked into the store", got.Tasks[0].Status)
	}

	// Mutating a plan returned by Get must not reach the store either.
	got.Tasks[0].Status = plan.StatusCompleted
	again, err := repo.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if again.Tasks[0].Status != plan.StatusNotStarted {
		t.Errorf("Status = %q, Get result aliases the store", again.Tasks[0].Status)
	}
}

func TestMemoryRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	if _, err := repo.Get(ctx, "nope"); !cerr.IsCode(err, cerr.NotFound) {
		t.Errorf("Get error = %v, want NotFound", err)
	}
	if err := repo.Update(ctx, &plan.WorkPlan{ID: "nope"}); !cerr.IsCode(err, cerr.NotFound) {
		t.Errorf("Update error = %v, want NotFound", err)
	}
	if err := repo.Delete(ctx, "nope"); !cerr.IsCode(err, cerr.NotFound) {
		t.Errorf("Delete error = %v, want NotFound", err)
	}
}
