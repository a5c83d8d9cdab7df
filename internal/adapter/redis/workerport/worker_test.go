package workerport

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"gitlab.com/ticket-raiser/judge/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

func newTestRepo(t *testing.T) (*WorkerRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewWorkerRepository(client, time.Minute, nopLogger{}), mr
}

func TestSaveAndGetWorker(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	id := int64(5)
	worker := &domain.WorkerInfo{
		ID:                  "w-1",
		Hostname:            "judge-0",
		State:               domain.WorkerStateJudging,
		CurrentSubmissionID: &id,
		Processed:           3,
	}
	if err := repo.SaveWorker(ctx, worker); err != nil {
		t.Fatalf("save: %v", err)
	}

	if ttl := mr.TTL("judge:worker:w-1"); ttl != time.Minute {
		t.Fatalf("expected 1m ttl, got %v", ttl)
	}

	got, err := repo.GetWorker(ctx, "w-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.State != domain.WorkerStateJudging || got.Processed != 3 {
		t.Fatalf("unexpected worker: %+v", got)
	}
	if got.CurrentSubmissionID == nil || *got.CurrentSubmissionID != 5 {
		t.Fatalf("expected current submission 5, got %v", got.CurrentSubmissionID)
	}
}

func TestGetWorkerExpired(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveWorker(ctx, &domain.WorkerInfo{ID: "w-2"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	got, err := repo.GetWorker(ctx, "w-2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected expired worker to be gone, got %+v", got)
	}
}

func TestGetAllWorkersAndRemove(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := repo.SaveWorker(ctx, &domain.WorkerInfo{ID: id, State: domain.WorkerStateIdle}); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	if err := repo.RemoveWorker(ctx, "b"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	workers, err := repo.GetAllWorkers(ctx)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(workers) != 2 {
		t.Fatalf("expected 2 workers, got %d", len(workers))
	}
	for _, w := range workers {
		if w.ID == "b" {
			t.Fatal("removed worker still listed")
		}
	}
}
