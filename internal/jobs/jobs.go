package jobs

import (
	"context"
	"time"

	"github.com/ataredge/tutorhub/internal/model"
)

// Handler processes one claimed job. A returned error schedules a retry.
type Handler func(ctx context.Context, job *model.NotificationJob) error

// Queue is the persistent job store the pool drains.
type Queue interface {
	ClaimNext() (*model.NotificationJob, error)
	Complete(id string) error
	Retry(id string, nextTryAt time.Time, lastError string) error
	Fail(id string, lastError string) error
	ResetRunning() (int64, error)
}

// BackoffDuration returns the delay before retry number attempt: 2^attempt seconds, capped at 5 minutes.
func BackoffDuration(attempt int) time.Duration {
	if attempt <= 0 {
		return time.Second
	}
	if attempt > 16 {
		return 5 * time.Minute
	}
	d := time.Duration(1<<uint(attempt)) * time.Second
	if d > 5*time.Minute {
		return 5 * time.Minute
	}
	return d
}
