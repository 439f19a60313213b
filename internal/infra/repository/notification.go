package repository

import (
	"context"
	"time"

	"library-api/internal/infra"
	"library-api/internal/infra/db"

	"github.com/google/uuid"
)

// NotificationJob is one row of the durable outbound queue.
type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	RunAt    time.Time
	Attempts int32
	Status   string
}

type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(dbtx db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: dbtx}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	const query = `
		INSERT INTO notification_jobs (id, kind, topic, payload, run_at, status)
		VALUES ($1, $2, $3, $4, $5, 'queued')`

	_, err := r.db.Exec(ctx, query, uuid.New(), kind, topic, payload, runAt)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}

	return nil
}

// staleClaimTimeout is how long a job may sit in processing before it is
// treated as abandoned by a dead worker and claimed again.
const staleClaimTimeout = 5 * time.Minute

// ClaimDue moves up to limit due jobs into processing and returns them.
// SKIP LOCKED lets multiple workers drain the queue without stepping on
// each other's claims. Processing rows whose claim has gone stale are
// picked up again so a worker crash cannot strand a job.
func (r *NotificationRepository) ClaimDue(ctx context.Context, now time.Time, limit int32) ([]NotificationJob, error) {
	const query = `
		UPDATE notification_jobs
		SET status = 'processing', updated_at = now()
		WHERE id IN (
			SELECT id FROM notification_jobs
			WHERE (status = 'queued' AND run_at <= $1)
			   OR (status = 'processing' AND updated_at <= $3)
			ORDER BY run_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, kind, topic, payload, run_at, attempts, status`

	rows, err := r.db.Query(ctx, query, now, limit, now.Add(-staleClaimTimeout))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}
	defer rows.Close()

	var jobs []NotificationJob
	for rows.Next() {
		var job NotificationJob
		if err := rows.Scan(&job.ID, &job.Kind, &job.Topic, &job.Payload,
			&job.RunAt, &job.Attempts, &job.Status); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification job", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read notification jobs", err)
	}

	return jobs, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	const query = `
		UPDATE notification_jobs
		SET status = 'sent', attempts = attempts + 1, updated_at = now()
		WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return infra.WrapRepoErr("failed to mark notification job sent", err)
	}

	return nil
}

// Reschedule requeues a failed delivery for a later attempt.
func (r *NotificationRepository) Reschedule(ctx context.Context, id uuid.UUID, runAt time.Time, lastError string) error {
	const query = `
		UPDATE notification_jobs
		SET status = 'queued', attempts = attempts + 1, run_at = $2,
		    last_error = $3, updated_at = now()
		WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id, runAt, lastError); err != nil {
		return infra.WrapRepoErr("failed to reschedule notification job", err)
	}

	return nil
}

func (r *NotificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error {
	const query = `
		UPDATE notification_jobs
		SET status = 'failed', attempts = attempts + 1, last_error = $2, updated_at = now()
		WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id, lastError); err != nil {
		return infra.WrapRepoErr("failed to mark notification job failed", err)
	}

	return nil
}
