package readstore

import (
	"context"
	"errors"

	"library-api/internal/infra"
	"library-api/internal/infra/db"
	"library-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const loanViewColumns = `
	l.id, l.user_id, l.book_id, b.title,
	l.borrowed_at, l.due_at, l.returned_at,
	l.status, l.renewal_count, l.created_at, l.updated_at`

type LoanReadStore struct {
	db db.DBTX
}

func NewLoanReadStore(dbtx db.DBTX) *LoanReadStore {
	return &LoanReadStore{db: dbtx}
}

func (r *LoanReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.LoanView, error) {
	query := `
		SELECT ` + loanViewColumns + `
		FROM loans l
		JOIN books b ON b.id = l.book_id
		WHERE l.id = $1`

	view, err := scanLoanView(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("loan not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find loan by ID", err)
	}

	return view, nil
}

func (r *LoanReadStore) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*queries.LoanView, error) {
	query := `
		SELECT ` + loanViewColumns + `
		FROM loans l
		JOIN books b ON b.id = l.book_id
		WHERE l.user_id = $1
		ORDER BY l.borrowed_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find loans by user ID", err)
	}
	defer rows.Close()

	var views []*queries.LoanView
	for rows.Next() {
		view, err := scanLoanView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan loan row", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read loan rows", err)
	}

	return views, nil
}

func scanLoanView(row pgx.Row) (*queries.LoanView, error) {
	var view queries.LoanView
	err := row.Scan(&view.ID, &view.UserID, &view.BookID, &view.BookTitle,
		&view.BorrowedAt, &view.DueAt, &view.ReturnedAt,
		&view.Status, &view.RenewalCount, &view.CreatedAt, &view.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &view, nil
}
