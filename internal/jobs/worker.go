package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ataredge/tutorhub/internal/model"
	"github.com/ataredge/tutorhub/internal/repository"
)

type WorkerPool struct {
	queue        Queue
	handlers     map[string]Handler
	workerCount  int
	pollInterval time.Duration
	stop         chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

func NewWorkerPool(queue Queue, workerCount int, pollInterval time.Duration) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	return &WorkerPool{
		queue:        queue,
		handlers:     map[string]Handler{},
		workerCount:  workerCount,
		pollInterval: pollInterval,
		stop:         make(chan struct{}),
	}
}

// Register binds a handler to a job kind. Call before Start.
func (p *WorkerPool) Register(kind string, h Handler) {
	p.handlers[kind] = h
}

// Start requeues jobs a previous process left running, then launches the workers.
func (p *WorkerPool) Start(ctx context.Context) {
	reset, err := p.queue.ResetRunning()
	if err != nil {
		slog.Error("failed to requeue running jobs", "error", err)
	} else if reset > 0 {
		slog.Info("requeued interrupted jobs", "count", reset)
	}

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	slog.Info("notification workers started", "workers", p.workerCount)
}

// Stop signals workers to stop and waits for the in-flight jobs to finish.
func (p *WorkerPool) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
	p.wg.Wait()
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stop:
			slog.Debug("worker stopping", "worker", id)
			return
		case <-ctx.Done():
			slog.Debug("context canceled, worker exiting", "worker", id)
			return
		default:
		}

		job, err := p.queue.ClaimNext()
		if errors.Is(err, repository.ErrNoPendingJob) {
			p.wait(ctx, p.pollInterval)
			continue
		}
		if err != nil {
			slog.Error("failed to claim job", "error", err, "worker", id)
			p.wait(ctx, time.Second)
			continue
		}

		p.process(ctx, job)
	}
}

func (p *WorkerPool) wait(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-p.stop:
	case <-ctx.Done():
	case <-t.C:
	}
}

// process runs the handler and records the outcome. Attempts were already
// counted when the job was claimed.
func (p *WorkerPool) process(ctx context.Context, job *model.NotificationJob) {
	h, ok := p.handlers[job.Kind]
	if !ok {
		slog.Error("no handler for job", "job_id", job.ID, "kind", job.Kind)
		if err := p.queue.Fail(job.ID, "no handler"); err != nil {
			slog.Error("failed to mark job failed", "error", err, "job_id", job.ID)
		}
		return
	}

	err := h(ctx, job)
	if err == nil {
		if err := p.queue.Complete(job.ID); err != nil {
			slog.Error("failed to complete job", "error", err, "job_id", job.ID)
		}
		return
	}

	if job.Attempts >= job.MaxAttempts {
		slog.Error("job failed permanently", "error", err, "job_id", job.ID, "kind", job.Kind, "attempts", job.Attempts)
		if failErr := p.queue.Fail(job.ID, err.Error()); failErr != nil {
			slog.Error("failed to mark job failed", "error", failErr, "job_id", job.ID)
		}
		return
	}

	backoff := BackoffDuration(job.Attempts)
	slog.Warn("job failed, retrying", "error", err, "job_id", job.ID, "kind", job.Kind, "attempts", job.Attempts, "backoff", backoff)
	if retryErr := p.queue.Retry(job.ID, time.Now().Add(backoff), err.Error()); retryErr != nil {
		slog.Error("failed to schedule retry", "error", retryErr, "job_id", job.ID)
	}
}
