package repository

import (
	"context"
	"errors"

	"library-api/internal/domain/book"
	"library-api/internal/infra"
	"library-api/internal/infra/db"
	"library-api/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookRepository struct {
	db db.DBTX
}

func NewBookRepository(dbtx db.DBTX) *BookRepository {
	return &BookRepository{db: dbtx}
}

func (r *BookRepository) Create(ctx context.Context, b *book.Book) (uuid.UUID, error) {
	const query = `
		INSERT INTO books (id, title, author, category, issue_year, total_copies, available_copies)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id uuid.UUID
	err := r.db.QueryRow(ctx, query,
		b.ID(), b.Title(), b.Author(), b.Category(), b.IssueYear(),
		b.TotalCopies(), b.AvailableCopies(),
	).Scan(&id)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return uuid.Nil, infra.WrapRepoErr("book already exists", err, infra.KindDuplicateKey)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to create book", err)
	}

	return id, nil
}

func (r *BookRepository) Update(ctx context.Context, id uuid.UUID, patch commands.BookPatch) error {
	const query = `
		UPDATE books
		SET title            = COALESCE($2, title),
		    author           = COALESCE($3, author),
		    category         = COALESCE($4, category),
		    issue_year       = COALESCE($5, issue_year),
		    available_copies = COALESCE($6, available_copies),
		    updated_at       = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		id, patch.Title, patch.Author, patch.Category, patch.IssueYear, patch.AvailableCopies)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return infra.WrapRepoErr("book already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to update book", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("book not found", nil, infra.KindNotFound)
	}

	return nil
}

func (r *BookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete book", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("book not found", nil, infra.KindNotFound)
	}

	return nil
}

// DecrementAvailable takes one copy off the shelf. The availability guard and
// the decrement are a single conditional statement, so two borrowers racing
// for the last copy cannot both succeed.
func (r *BookRepository) DecrementAvailable(ctx context.Context, id uuid.UUID) (*commands.BookSnapshot, error) {
	const query = `
		UPDATE books
		SET available_copies = available_copies - 1,
		    updated_at       = now()
		WHERE id = $1 AND available_copies >= 1
		RETURNING id, title, available_copies`

	var snap commands.BookSnapshot
	err := r.db.QueryRow(ctx, query, id).Scan(&snap.ID, &snap.Title, &snap.AvailableCopies)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("no available copy", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to decrement available copies", err)
	}

	return &snap, nil
}

// IncrementAvailable puts a copy back. No upper clamp against total_copies is
// applied; the return path relies on the one-active-loan-per-book guard.
func (r *BookRepository) IncrementAvailable(ctx context.Context, id uuid.UUID) (*commands.BookSnapshot, error) {
	const query = `
		UPDATE books
		SET available_copies = available_copies + 1,
		    updated_at       = now()
		WHERE id = $1
		RETURNING id, title, available_copies`

	var snap commands.BookSnapshot
	err := r.db.QueryRow(ctx, query, id).Scan(&snap.ID, &snap.Title, &snap.AvailableCopies)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("book not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to increment available copies", err)
	}

	return &snap, nil
}
