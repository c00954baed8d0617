package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/ataredge/tutorhub/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrNoPendingJob = errors.New("no pending job")

type NotificationRepository interface {
	Enqueue(job *model.NotificationJob) error
	ClaimNext() (*model.NotificationJob, error)
	Complete(id string) error
	Retry(id string, nextTryAt time.Time, lastError string) error
	Fail(id string, lastError string) error
	ResetRunning() (int64, error)
	CountByStatus(status string) (int, error)
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Enqueue(job *model.NotificationJob) error {
	now := time.Now().UTC()
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.NextTryAt.IsZero() {
		job.NextTryAt = now
	}
	job.Status = model.JobStatusQueued
	job.CreatedAt = now
	job.UpdatedAt = now

	query := `
		INSERT INTO notification_jobs (id, kind, payload, status, attempts, max_attempts, next_try_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(query,
		job.ID,
		job.Kind,
		job.Payload,
		job.Status,
		job.MaxAttempts,
		job.NextTryAt.UTC(),
		job.CreatedAt,
		job.UpdatedAt,
	)
	return err
}

// ClaimNext atomically moves the oldest due job to running and counts the attempt.
// Only one concurrent caller can claim a given job.
func (r *notificationRepository) ClaimNext() (*model.NotificationJob, error) {
	var id string
	now := time.Now().UTC()

	query := `
		UPDATE notification_jobs
		SET status = 'running', attempts = attempts + 1, updated_at = $1
		WHERE id = (
			SELECT id FROM notification_jobs
			WHERE status IN ('queued', 'retry') AND next_try_at <= $2
			ORDER BY next_try_at ASC
			LIMIT 1
		)
		AND status IN ('queued', 'retry')
		RETURNING id
	`

	err := r.db.Get(&id, query, now, now)
	if err == sql.ErrNoRows {
		return nil, ErrNoPendingJob
	}
	if err != nil {
		return nil, err
	}

	var job model.NotificationJob
	err = r.db.Get(&job, `SELECT * FROM notification_jobs WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}

	return &job, nil
}

func (r *notificationRepository) Complete(id string) error {
	query := `UPDATE notification_jobs SET status = 'done', last_error = NULL, updated_at = $1 WHERE id = $2`
	_, err := r.db.Exec(query, time.Now().UTC(), id)
	return err
}

func (r *notificationRepository) Retry(id string, nextTryAt time.Time, lastError string) error {
	query := `UPDATE notification_jobs SET status = 'retry', next_try_at = $1, last_error = $2, updated_at = $3 WHERE id = $4`
	_, err := r.db.Exec(query, nextTryAt.UTC(), lastError, time.Now().UTC(), id)
	return err
}

func (r *notificationRepository) Fail(id string, lastError string) error {
	query := `UPDATE notification_jobs SET status = 'failed', last_error = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.Exec(query, lastError, time.Now().UTC(), id)
	return err
}

// ResetRunning returns jobs abandoned by a stopped process to the retry state.
func (r *notificationRepository) ResetRunning() (int64, error) {
	query := `UPDATE notification_jobs SET status = 'retry', updated_at = $1 WHERE status = 'running'`
	result, err := r.db.Exec(query, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *notificationRepository) CountByStatus(status string) (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM notification_jobs WHERE status = $1`, status)
	return count, err
}
