package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"testing"
	"time"
)

type countingJob struct {
	BaseJob
	Label string `json:"label"`

	failUntil int // Handle bu sayıya kadar hata döner
	calls     *int
	failed    *error
}

func (j *countingJob) Name() string { return "test.counting" }

func (j *countingJob) Handle(context.Context) error {
	*j.calls++
	if *j.calls <= j.failUntil {
		return errors.New("temporary failure")
	}
	return nil
}

func (j *countingJob) Failed(err error) { *j.failed = err }

// memQueue, Worker testleri için bellek içi kuyruk.
type memQueue struct {
	mu       sync.Mutex
	jobs     []Job
	deleted  []string
	released int
	failed   []Job
	drained  chan struct{}
}

func (q *memQueue) Push(_ context.Context, job Job, _ string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *memQueue) Later(ctx context.Context, _ time.Duration, job Job, queue string) error {
	return q.Push(ctx, job, queue)
}

func (q *memQueue) Pop(ctx context.Context, _ string) (Job, error) {
	q.mu.Lock()
	if len(q.jobs) == 0 {
		q.mu.Unlock()
		select {
		case q.drained <- struct{}{}:
		default:
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Millisecond):
			return nil, nil
		}
	}
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	q.mu.Unlock()
	return job, nil
}

func (q *memQueue) Delete(_ context.Context, _ string, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.deleted = append(q.deleted, job.Meta().ID)
	return nil
}

func (q *memQueue) Release(ctx context.Context, queue string, job Job, delay time.Duration) error {
	q.mu.Lock()
	q.released++
	meta := job.Meta()
	meta.Attempts++
	if meta.Attempts >= meta.Tries() {
		q.failed = append(q.failed, job)
		q.mu.Unlock()
		return nil
	}
	q.mu.Unlock()
	return q.Later(ctx, delay, job, queue)
}

func (q *memQueue) Size(context.Context, string) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.jobs)), nil
}

func quietLogger() *log.Logger { return log.New(&bytes.Buffer{}, "", 0) }

func runUntilDrained(t *testing.T, q *memQueue) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewWorker(q, quietLogger()).SetRetryDelay(0).Run(ctx, "mail")
		close(done)
	}()

	select {
	case <-q.drained:
	case <-time.After(2 * time.Second):
		t.Fatal("queue was not drained")
	}
	cancel()
	<-done
}

func TestWorkerRetriesUntilSuccess(t *testing.T) {
	calls := 0
	var failedErr error
	q := &memQueue{drained: make(chan struct{}, 1)}
	q.jobs = []Job{&countingJob{BaseJob: BaseJob{ID: "j1"}, failUntil: 2, calls: &calls, failed: &failedErr}}

	runUntilDrained(t, q)

	if calls != 3 {
		t.Errorf("Handle calls = %d, want 3", calls)
	}
	if len(q.deleted) != 1 || q.deleted[0] != "j1" {
		t.Errorf("deleted = %v", q.deleted)
	}
	if failedErr != nil {
		t.Errorf("Failed should not be called, got %v", failedErr)
	}
}

func TestWorkerGivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	var failedErr error
	q := &memQueue{drained: make(chan struct{}, 1)}
	q.jobs = []Job{&countingJob{BaseJob: BaseJob{ID: "j2", MaxAttempts: 2}, failUntil: 10, calls: &calls, failed: &failedErr}}

	runUntilDrained(t, q)

	if calls != 2 {
		t.Errorf("Handle calls = %d, want 2", calls)
	}
	if failedErr == nil {
		t.Error("Failed should be called once attempts are exhausted")
	}
	if len(q.failed) != 1 || len(q.deleted) != 0 {
		t.Errorf("failed = %d, deleted = %v", len(q.failed), q.deleted)
	}
}

func TestSyncQueueRunsImmediately(t *testing.T) {
	calls := 0
	var failedErr error
	q := NewSyncQueue(quietLogger())

	job := &countingJob{calls: &calls, failed: &failedErr}
	if err := q.Push(context.Background(), job, "mail"); err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	if calls != 1 || job.ID == "" || job.Queue != "mail" {
		t.Errorf("calls = %d, id = %q, queue = %q", calls, job.ID, job.Queue)
	}

	failing := &countingJob{failUntil: 1, calls: new(int), failed: &failedErr}
	if err := q.Later(context.Background(), time.Hour, failing, "mail"); err == nil {
		t.Error("failing job should return its error")
	}
	if failedErr == nil {
		t.Error("Failed should be called for sync jobs")
	}
}

func TestRedisEnvelopeRoundTrip(t *testing.T) {
	registry := NewRegistry()
	registry.Register("test.counting", func() Job { return &countingJob{} })

	r := NewRedisQueue(nil, registry, quietLogger(), "admission:")
	job := &countingJob{BaseJob: BaseJob{ID: "abc", Queue: "mail", Attempts: 1}, Label: "form-1042"}

	data, err := r.encode(job, 0)
	if err != nil {
		t.Fatalf("encode() error = %v", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatal(err)
	}
	if env.Type != "test.counting" || env.MaxAttempts != 3 {
		t.Errorf("envelope = %+v", env)
	}

	decoded, err := r.decode(&env)
	if err != nil {
		t.Fatalf("decode() error = %v", err)
	}
	got := decoded.(*countingJob)
	if got.Label != "form-1042" || got.ID != "abc" || got.Attempts != 1 || got.Queue != "mail" {
		t.Errorf("decoded = %+v", got)
	}

	env.Type = "unknown"
	if _, err := r.decode(&env); err == nil {
		t.Error("unregistered job type should fail")
	}

	if r.queueKey("mail") != "admission:queues:mail" || r.reservedKey("mail") != "admission:queues:mail:reserved" {
		t.Errorf("keys = %s, %s", r.queueKey("mail"), r.reservedKey("mail"))
	}
}
