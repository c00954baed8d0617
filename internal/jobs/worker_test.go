package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ataredge/tutorhub/internal/model"
	"github.com/ataredge/tutorhub/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// memoryQueue is an in-memory Queue with the same claim semantics as the SQL one.
type memoryQueue struct {
	mu   sync.Mutex
	jobs []*model.NotificationJob
}

func (q *memoryQueue) add(job *model.NotificationJob) {
	q.mu.Lock()
	defer q.mu.Unlock()
	job.Status = model.JobStatusQueued
	job.NextTryAt = time.Now()
	q.jobs = append(q.jobs, job)
}

func (q *memoryQueue) ClaimNext() (*model.NotificationJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, job := range q.jobs {
		due := !job.NextTryAt.After(time.Now())
		if (job.Status == model.JobStatusQueued || job.Status == model.JobStatusRetry) && due {
			job.Status = model.JobStatusRunning
			job.Attempts++
			claimed := *job
			return &claimed, nil
		}
	}
	return nil, repository.ErrNoPendingJob
}

func (q *memoryQueue) set(id string, fn func(*model.NotificationJob)) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, job := range q.jobs {
		if job.ID == id {
			fn(job)
			return nil
		}
	}
	return errors.New("unknown job")
}

func (q *memoryQueue) Complete(id string) error {
	return q.set(id, func(j *model.NotificationJob) { j.Status = model.JobStatusDone })
}

func (q *memoryQueue) Retry(id string, nextTryAt time.Time, lastError string) error {
	return q.set(id, func(j *model.NotificationJob) {
		j.Status = model.JobStatusRetry
		// Tests do not wait out the real backoff.
		j.NextTryAt = time.Now()
		j.LastError = &lastError
	})
}

func (q *memoryQueue) Fail(id string, lastError string) error {
	return q.set(id, func(j *model.NotificationJob) {
		j.Status = model.JobStatusFailed
		j.LastError = &lastError
	})
}

func (q *memoryQueue) ResetRunning() (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var n int64
	for _, job := range q.jobs {
		if job.Status == model.JobStatusRunning {
			job.Status = model.JobStatusRetry
			n++
		}
	}
	return n, nil
}

func (q *memoryQueue) status(id string) string {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, job := range q.jobs {
		if job.ID == id {
			return job.Status
		}
	}
	return ""
}

func TestWorkerPoolProcessesJob(t *testing.T) {
	queue := &memoryQueue{}
	queue.add(&model.NotificationJob{ID: "j1", Kind: model.JobKindEmail, Payload: `{}`, MaxAttempts: 3})

	handled := make(chan string, 1)
	pool := NewWorkerPool(queue, 2, 10*time.Millisecond)
	pool.Register(model.JobKindEmail, func(ctx context.Context, job *model.NotificationJob) error {
		handled <- job.ID
		return nil
	})
	pool.Start(context.Background())
	defer pool.Stop()

	select {
	case id := <-handled:
		assert.Equal(t, "j1", id)
	case <-time.After(3 * time.Second):
		t.Fatal("handler was not called")
	}

	assert.Eventually(t, func() bool {
		return queue.status("j1") == model.JobStatusDone
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWorkerPoolRetriesThenFails(t *testing.T) {
	queue := &memoryQueue{}
	queue.add(&model.NotificationJob{ID: "j1", Kind: model.JobKindEmail, Payload: `{}`, MaxAttempts: 3})

	var mu sync.Mutex
	calls := 0
	pool := NewWorkerPool(queue, 1, 5*time.Millisecond)
	pool.Register(model.JobKindEmail, func(ctx context.Context, job *model.NotificationJob) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return errors.New("provider down")
	})
	pool.Start(context.Background())

	assert.Eventually(t, func() bool {
		return queue.status("j1") == model.JobStatusFailed
	}, 3*time.Second, 10*time.Millisecond)
	pool.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, calls)
}

func TestWorkerPoolFailsUnknownKind(t *testing.T) {
	queue := &memoryQueue{}
	queue.add(&model.NotificationJob{ID: "j1", Kind: "sms", Payload: `{}`, MaxAttempts: 3})

	pool := NewWorkerPool(queue, 1, 5*time.Millisecond)
	pool.Start(context.Background())
	defer pool.Stop()

	assert.Eventually(t, func() bool {
		return queue.status("j1") == model.JobStatusFailed
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWorkerPoolRequeuesInterruptedJobs(t *testing.T) {
	queue := &memoryQueue{}
	queue.add(&model.NotificationJob{ID: "j1", Kind: model.JobKindEmail, Payload: `{}`, MaxAttempts: 3})
	_, err := queue.ClaimNext()
	require.NoError(t, err)
	require.Equal(t, model.JobStatusRunning, queue.status("j1"))

	pool := NewWorkerPool(queue, 1, 5*time.Millisecond)
	pool.Register(model.JobKindEmail, func(ctx context.Context, job *model.NotificationJob) error { return nil })
	pool.Start(context.Background())
	defer pool.Stop()

	assert.Eventually(t, func() bool {
		return queue.status("j1") == model.JobStatusDone
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWorkerPoolStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkerPool(&memoryQueue{}, 3, time.Hour)
	pool.Start(ctx)
	cancel()
	pool.Stop()
	pool.Stop()
}

func TestBackoffDuration(t *testing.T) {
	assert.Equal(t, time.Second, BackoffDuration(0))
	assert.Equal(t, 2*time.Second, BackoffDuration(1))
	assert.Equal(t, 8*time.Second, BackoffDuration(3))
	assert.Equal(t, 5*time.Minute, BackoffDuration(9))
	assert.Equal(t, 5*time.Minute, BackoffDuration(64))
}
