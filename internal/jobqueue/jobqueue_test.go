package jobqueue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/paiban/shiftsat/internal/specstore"
	"github.com/paiban/shiftsat/pkg/dslmodel"
)

// fakePersister 记录每次状态迁移调用，不落盘，供测试断言持久化钩子
// 确实被触发，而不依赖真实数据库。
type fakePersister struct {
	mu      sync.Mutex
	saved   []string
	running []string
	done    []string
	failed  []string
}

func (f *fakePersister) SaveJob(ctx context.Context, jobID string, spec dslmodel.Spec, params specstore.JobParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, jobID)
	return nil
}

func (f *fakePersister) UpdateJobRunning(ctx context.Context, jobID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = append(f.running, jobID)
	return nil
}

func (f *fakePersister) UpdateJobDone(ctx context.Context, jobID string, result dslmodel.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.done = append(f.done, jobID)
	return nil
}

func (f *fakePersister) UpdateJobFailed(ctx context.Context, jobID string, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = append(f.failed, jobID)
	return nil
}

func (f *fakePersister) calls(jobID string) (saved, running, done, failed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	contains := func(xs []string) bool {
		for _, x := range xs {
			if x == jobID {
				return true
			}
		}
		return false
	}
	return contains(f.saved), contains(f.running), contains(f.done), contains(f.failed)
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func waitForTerminal(t *testing.T, q *Queue, jobID string) Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, ok := q.Get(jobID)
		if !ok {
			t.Fatalf("job %q not found", jobID)
		}
		if job.Status == StatusDone || job.Status == StatusFailed {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %q did not reach a terminal status in time", jobID)
	return Job{}
}

func TestQueue_Submit_ResolvesToDone(t *testing.T) {
	spec := dslmodel.Spec{
		Sets: dslmodel.Sets{
			Employees: []string{"P1"},
			Days:      []string{"D1"},
			Shifts:    []string{"OFF", "M"},
			Sites:     []string{"SITE_DEFAULT"},
		},
		Shifts: map[string]dslmodel.Shift{
			"M": {Start: "08:00", End: "16:00", Minutes: 480, IsWork: boolPtr(true)},
		},
		Employees: map[string]dslmodel.Employee{"P1": {}},
		Demand:    []dslmodel.Demand{{Day: "D1", Shift: "M", Eq: intPtr(1)}},
	}

	q := New()
	jobID := q.Submit(spec, 5, 2)

	job := waitForTerminal(t, q, jobID)
	if job.Status != StatusDone {
		t.Fatalf("expected status=done, got %q (error=%q)", job.Status, job.Error)
	}
	if job.Result.Status != dslmodel.StatusOK {
		t.Fatalf("expected result status=ok, got %q", job.Result.Status)
	}
}

func TestQueue_Submit_InvalidSpecFails(t *testing.T) {
	q := New()
	jobID := q.Submit(dslmodel.Spec{}, 5, 1)

	job := waitForTerminal(t, q, jobID)
	if job.Status != StatusFailed {
		t.Fatalf("expected status=failed for an invalid spec, got %q", job.Status)
	}
	if job.Error == "" {
		t.Fatal("expected a non-empty error message")
	}
}

func TestQueue_Get_UnknownIDNotFound(t *testing.T) {
	q := New()
	if _, ok := q.Get("does-not-exist"); ok {
		t.Fatal("expected ok=false for an unknown job id")
	}
}

func TestQueue_WithPersistence_RecordsTransitions(t *testing.T) {
	spec := dslmodel.Spec{
		Sets: dslmodel.Sets{
			Employees: []string{"P1"},
			Days:      []string{"D1"},
			Shifts:    []string{"OFF", "M"},
			Sites:     []string{"SITE_DEFAULT"},
		},
		Shifts: map[string]dslmodel.Shift{
			"M": {Start: "08:00", End: "16:00", Minutes: 480, IsWork: boolPtr(true)},
		},
		Employees: map[string]dslmodel.Employee{"P1": {}},
		Demand:    []dslmodel.Demand{{Day: "D1", Shift: "M", Eq: intPtr(1)}},
	}

	persist := &fakePersister{}
	q := NewWithPersistence(persist)
	jobID := q.Submit(spec, 5, 2)
	waitForTerminal(t, q, jobID)

	saved, running, done, failed := persist.calls(jobID)
	if !saved || !running || !done || failed {
		t.Fatalf("unexpected persistence calls: saved=%v running=%v done=%v failed=%v", saved, running, done, failed)
	}
}
