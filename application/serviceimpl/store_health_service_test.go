package serviceimpl

import (
	"context"
	"errors"
	"testing"

	"todo-api/domain/errs"
	"todo-api/domain/repositories"
	"todo-api/infrastructure/memory"
	"todo-api/pkg/scheduler"
)

type flakyRepo struct {
	repositories.TodoRepository
	down bool
}

func (r *flakyRepo) Ping(ctx context.Context) error {
	if r.down {
		return errs.Storage("ping", errors.New("no reachable servers"))
	}
	return nil
}

func TestStoreHealthTracksPing(t *testing.T) {
	repo := &flakyRepo{TodoRepository: memory.NewTodoRepository()}
	svc := NewStoreHealthService(StoreHealthConfig{Driver: "memory"}, repo, scheduler.NewEventScheduler())

	if st := svc.Status(); st.Checked || st.Driver != "memory" {
		t.Fatalf("initial status = %+v", st)
	}

	if err := svc.CheckNow(context.Background()); err != nil {
		t.Fatalf("CheckNow: %v", err)
	}
	if st := svc.Status(); !st.Up || !st.Checked || st.LastCheck.IsZero() {
		t.Errorf("status after good ping = %+v", st)
	}

	repo.down = true
	if err := svc.CheckNow(context.Background()); !errors.Is(err, errs.ErrStorageUnavailable) {
		t.Errorf("CheckNow error = %v", err)
	}
	if st := svc.Status(); st.Up || st.LastError == "" {
		t.Errorf("status after failed ping = %+v", st)
	}
}

func TestRegisterHealthJob(t *testing.T) {
	sched := scheduler.NewEventScheduler()
	svc := NewStoreHealthService(StoreHealthConfig{}, memory.NewTodoRepository(), sched)

	if err := svc.RegisterHealthJob(); err != nil {
		t.Fatalf("RegisterHealthJob: %v", err)
	}
	if _, ok := sched.GetJob(storeHealthJobID); !ok {
		t.Error("health job not registered")
	}
}
