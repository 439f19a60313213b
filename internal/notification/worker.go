package notification

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"library-api/internal/infra/repository"
	"library-api/internal/pkg/clock"
	"library-api/internal/pkg/config"
	"library-api/internal/usecase/queries"

	"github.com/google/uuid"
)

// JobStore is the slice of the notification queue the worker drives.
type JobStore interface {
	ClaimDue(ctx context.Context, now time.Time, limit int32) ([]repository.NotificationJob, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	Reschedule(ctx context.Context, id uuid.UUID, runAt time.Time, lastError string) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string) error
}

type loanEvent struct {
	LoanID    uuid.UUID `json:"loan_id"`
	UserID    uuid.UUID `json:"user_id"`
	BookID    uuid.UUID `json:"book_id"`
	BookTitle string    `json:"book_title"`
	DueAt     time.Time `json:"due_at"`
}

// Worker drains the durable notification queue and delivers emails. Jobs that
// fail are rescheduled with exponential backoff until the attempt cap, then
// parked as failed.
type Worker struct {
	store       JobStore
	userQueries queries.UserQueries
	mailer      Mailer
	clock       clock.Clock
	cfg         config.WorkerConfig
}

func NewWorker(
	store JobStore,
	userQueries queries.UserQueries,
	mailer Mailer,
	clk clock.Clock,
	cfg config.WorkerConfig,
) *Worker {
	return &Worker{
		store:       store,
		userQueries: userQueries,
		mailer:      mailer,
		clock:       clk,
		cfg:         cfg,
	}
}

// Run polls until the context is canceled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	slog.Info("notification worker started", "poll_interval", w.cfg.PollInterval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("notification worker stopped")
			return
		case <-ticker.C:
			w.processBatch(ctx)
		}
	}
}

func (w *Worker) processBatch(ctx context.Context) {
	jobs, err := w.store.ClaimDue(ctx, w.clock.Now(), w.cfg.BatchSize)
	if err != nil {
		slog.Error("failed to claim notification jobs", "error", err.Error())
		return
	}

	for _, job := range jobs {
		w.processJob(ctx, job)
	}
}

func (w *Worker) processJob(ctx context.Context, job repository.NotificationJob) {
	if err := w.deliver(ctx, job); err != nil {
		w.handleFailure(ctx, job, err)
		return
	}

	if err := w.store.MarkSent(ctx, job.ID); err != nil {
		slog.Error("failed to mark notification job sent", "job_id", job.ID, "error", err.Error())
		return
	}

	slog.Info("notification delivered", "job_id", job.ID, "topic", job.Topic)
}

func (w *Worker) deliver(ctx context.Context, job repository.NotificationJob) error {
	var event loanEvent
	if err := json.Unmarshal(job.Payload, &event); err != nil {
		return err
	}

	userView, err := w.userQueries.GetByID(ctx, event.UserID)
	if err != nil {
		return err
	}

	subject, body, err := renderEmail(job.Topic, userView.Name, event.BookTitle, event.DueAt)
	if err != nil {
		return err
	}

	return w.mailer.Send(userView.Email, subject, body)
}

func (w *Worker) handleFailure(ctx context.Context, job repository.NotificationJob, deliveryErr error) {
	// Attempts counts completed tries; this one is recorded by the store call.
	if job.Attempts+1 >= w.cfg.MaxAttempts {
		slog.Error("notification job failed permanently",
			"job_id", job.ID, "topic", job.Topic, "attempts", job.Attempts+1, "error", deliveryErr.Error())
		if err := w.store.MarkFailed(ctx, job.ID, deliveryErr.Error()); err != nil {
			slog.Error("failed to mark notification job failed", "job_id", job.ID, "error", err.Error())
		}
		return
	}

	backoff := w.cfg.BackoffBase * time.Duration(1<<job.Attempts)
	runAt := w.clock.Now().Add(backoff)

	slog.Warn("notification delivery failed, rescheduling",
		"job_id", job.ID, "topic", job.Topic, "attempts", job.Attempts+1, "retry_in", backoff, "error", deliveryErr.Error())
	if err := w.store.Reschedule(ctx, job.ID, runAt, deliveryErr.Error()); err != nil {
		slog.Error("failed to reschedule notification job", "job_id", job.ID, "error", err.Error())
	}
}
