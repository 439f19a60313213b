package repository

import (
	"context"
	"errors"
	"time"

	"library-api/internal/domain/loan"
	"library-api/internal/infra"
	"library-api/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const loanColumns = `id, user_id, book_id, borrowed_at, due_at, returned_at, status, renewal_count, created_at, updated_at`

type LoanRepository struct {
	db db.DBTX
}

func NewLoanRepository(dbtx db.DBTX) *LoanRepository {
	return &LoanRepository{db: dbtx}
}

func (r *LoanRepository) CountActive(ctx context.Context, userID uuid.UUID) (int64, error) {
	const query = `SELECT COUNT(*) FROM loans WHERE user_id = $1 AND status = 'borrowed'`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, infra.WrapRepoErr("failed to count active loans", err)
	}

	return count, nil
}

func (r *LoanRepository) ExistsActive(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS(
			SELECT 1 FROM loans
			WHERE user_id = $1 AND book_id = $2 AND status = 'borrowed'
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, bookID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check active loan", err)
	}

	return exists, nil
}

func (r *LoanRepository) Create(ctx context.Context, l *loan.Loan) (*loan.Loan, error) {
	const query = `
		INSERT INTO loans (id, user_id, book_id, borrowed_at, due_at, status, renewal_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + loanColumns

	row := r.db.QueryRow(ctx, query,
		l.ID(), l.UserID(), l.BookID(), l.BorrowedAt(), l.DueAt(),
		l.Status().String(), l.RenewalCount(),
	)
	created, err := scanLoan(row)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return nil, infra.WrapRepoErr("active loan already exists", err, infra.KindDuplicateKey)
		}
		return nil, infra.WrapRepoErr("failed to create loan", err)
	}

	return created, nil
}

// Renew bumps the renewal count and pushes the due date one period out. The
// status and renewal-cap checks live in the statement itself, so a loan that
// is returned, missing, or already renewed simply matches no row.
func (r *LoanRepository) Renew(ctx context.Context, userID, bookID uuid.UUID, now time.Time) (*loan.Loan, error) {
	const query = `
		UPDATE loans
		SET renewal_count = renewal_count + 1,
		    due_at        = $3,
		    updated_at    = now()
		WHERE user_id = $1 AND book_id = $2
		  AND status = 'borrowed'
		  AND renewal_count < $4
		RETURNING ` + loanColumns

	row := r.db.QueryRow(ctx, query, userID, bookID, now.Add(loan.Period), loan.MaxRenewals)
	renewed, err := scanLoan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("loan not renewable", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to renew loan", err)
	}

	return renewed, nil
}

// Return flips a borrowed loan into its terminal state. Calling it twice
// matches no row the second time, which keeps the return idempotent-safe.
func (r *LoanRepository) Return(ctx context.Context, userID, bookID uuid.UUID, now time.Time) (*loan.Loan, error) {
	const query = `
		UPDATE loans
		SET status      = 'returned',
		    returned_at = $3,
		    updated_at  = now()
		WHERE user_id = $1 AND book_id = $2
		  AND status = 'borrowed'
		RETURNING ` + loanColumns

	row := r.db.QueryRow(ctx, query, userID, bookID, now)
	returned, err := scanLoan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("active loan not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to return loan", err)
	}

	return returned, nil
}

func scanLoan(row pgx.Row) (*loan.Loan, error) {
	var (
		id, userID, bookID   uuid.UUID
		borrowedAt, dueAt    time.Time
		returnedAt           *time.Time
		status               string
		renewalCount         int32
		createdAt, updatedAt time.Time
	)

	err := row.Scan(&id, &userID, &bookID, &borrowedAt, &dueAt, &returnedAt,
		&status, &renewalCount, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	return loan.Reconstruct(id, userID, bookID, borrowedAt, dueAt, returnedAt,
		loan.Status(status), renewalCount, createdAt, updatedAt), nil
}
