package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"library-api/internal/domain/loan"
	"library-api/internal/infra"
	"library-api/internal/pkg/clock"
	"library-api/internal/pkg/errs"
	"library-api/internal/usecase/queries"

	"github.com/google/uuid"
)

var (
	ErrLoanLimitExceeded       = errs.New("loan limit exceeded")
	ErrBookAlreadyBorrowed     = errs.New("book already borrowed")
	ErrBookUnavailable         = errs.New("book unavailable")
	ErrLoanNotRenewable        = errs.New("loan not renewable")
	ErrActiveLoanNotFound      = errs.New("active loan not found")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type LoanRepository interface {
	CountActive(ctx context.Context, userID uuid.UUID) (int64, error)
	ExistsActive(ctx context.Context, userID, bookID uuid.UUID) (bool, error)
	Create(ctx context.Context, l *loan.Loan) (*loan.Loan, error)
	Renew(ctx context.Context, userID, bookID uuid.UUID, now time.Time) (*loan.Loan, error)
	Return(ctx context.Context, userID, bookID uuid.UUID, now time.Time) (*loan.Loan, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}

type LoanCommands interface {
	Borrow(ctx context.Context, userID, bookID uuid.UUID) (*queries.LoanView, error)
	Renew(ctx context.Context, userID, bookID uuid.UUID) (*queries.LoanView, error)
	Return(ctx context.Context, userID, bookID uuid.UUID) (*queries.LoanView, error)
}

type loanCommandsImpl struct {
	loanRepo         LoanRepository
	bookRepo         BookRepository
	notificationRepo NotificationRepository
	loanQueries      queries.LoanQueries
	clock            clock.Clock
}

func NewLoanCommands(
	loanRepo LoanRepository,
	bookRepo BookRepository,
	notificationRepo NotificationRepository,
	loanQueries queries.LoanQueries,
	clock clock.Clock,
) LoanCommands {
	return &loanCommandsImpl{
		loanRepo:         loanRepo,
		bookRepo:         bookRepo,
		notificationRepo: notificationRepo,
		loanQueries:      loanQueries,
		clock:            clock,
	}
}

// Borrow runs the lifecycle checks in a fixed order: active-loan cap, then
// per-book duplicate, then the conditional stock decrement. Only after all
// three pass is the loan row created.
func (c *loanCommandsImpl) Borrow(ctx context.Context, userID, bookID uuid.UUID) (*queries.LoanView, error) {
	now := c.clock.Now()

	active, err := c.loanRepo.CountActive(ctx, userID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if active >= loan.MaxActiveLoans {
		return nil, ErrLoanLimitExceeded
	}

	exists, err := c.loanRepo.ExistsActive(ctx, userID, bookID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if exists {
		return nil, ErrBookAlreadyBorrowed
	}

	// The decrement carries its own availability guard, so a concurrent
	// borrower cannot take the same last copy.
	if _, err := c.bookRepo.DecrementAvailable(ctx, bookID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookUnavailable
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	created, err := c.loanRepo.Create(ctx, loan.NewLoan(userID, bookID, now))
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrBookAlreadyBorrowed
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	view, err := c.loanQueries.GetByID(ctx, created.ID())
	if err != nil {
		return nil, err
	}
	c.enqueueLoanNotification(ctx, "loan_borrowed", view)

	return view, nil
}

func (c *loanCommandsImpl) Renew(ctx context.Context, userID, bookID uuid.UUID) (*queries.LoanView, error) {
	now := c.clock.Now()

	renewed, err := c.loanRepo.Renew(ctx, userID, bookID, now)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrLoanNotRenewable
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	view, err := c.loanQueries.GetByID(ctx, renewed.ID())
	if err != nil {
		return nil, err
	}
	c.enqueueLoanNotification(ctx, "loan_renewed", view)

	return view, nil
}

// Return closes the loan first and restocks the book second. The two writes
// are separate statements; a restock failure after a closed loan surfaces as
// an error and leaves the copy count one short.
func (c *loanCommandsImpl) Return(ctx context.Context, userID, bookID uuid.UUID) (*queries.LoanView, error) {
	now := c.clock.Now()

	returned, err := c.loanRepo.Return(ctx, userID, bookID, now)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrActiveLoanNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if _, err := c.bookRepo.IncrementAvailable(ctx, bookID); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	view, err := c.loanQueries.GetByID(ctx, returned.ID())
	if err != nil {
		return nil, err
	}
	c.enqueueLoanNotification(ctx, "loan_returned", view)

	return view, nil
}

// enqueueLoanNotification records an outbound email job. Delivery is best
// effort relative to the loan mutation: a failed enqueue is logged and the
// mutation still succeeds.
func (c *loanCommandsImpl) enqueueLoanNotification(ctx context.Context, topic string, view *queries.LoanView) {
	payload, err := json.Marshal(map[string]any{
		"loan_id":    view.ID,
		"user_id":    view.UserID,
		"book_id":    view.BookID,
		"book_title": view.BookTitle,
		"due_at":     view.DueAt,
		"type":       topic,
	})
	if err != nil {
		slog.Warn("failed to encode notification payload", "loan_id", view.ID, "error", err.Error())
		return
	}

	if err := c.notificationRepo.CreateJob(ctx, "email", topic, payload, c.clock.Now()); err != nil {
		slog.Warn("failed to enqueue notification job", "loan_id", view.ID, "topic", topic, "error", err.Error())
	}
}
