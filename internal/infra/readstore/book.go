package readstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"library-api/internal/infra"
	"library-api/internal/infra/db"
	"library-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const bookColumns = `id, title, author, category, issue_year, total_copies, available_copies, created_at, updated_at`

type BookReadStore struct {
	db db.DBTX
}

func NewBookReadStore(dbtx db.DBTX) *BookReadStore {
	return &BookReadStore{db: dbtx}
}

func (r *BookReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookView, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	view, err := scanBookView(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("book not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find book by ID", err)
	}

	return view, nil
}

func (r *BookReadStore) FindByFilter(ctx context.Context, filter queries.BookFilter) ([]*queries.BookView, error) {
	query, args := buildFilterQuery(filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to search books", err)
	}
	defer rows.Close()

	var views []*queries.BookView
	for rows.Next() {
		view, err := scanBookView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan book row", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read book rows", err)
	}

	return views, nil
}

func buildFilterQuery(filter queries.BookFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.Title != nil {
		addCondition("title ILIKE '%%' || $%d || '%%'", *filter.Title)
	}
	if filter.Author != nil {
		addCondition("author ILIKE '%%' || $%d || '%%'", *filter.Author)
	}
	if filter.Category != nil {
		addCondition("category = $%d", *filter.Category)
	}
	if filter.IssueYear != nil {
		addCondition("issue_year = $%d", *filter.IssueYear)
	}
	if filter.MinCopies != nil {
		addCondition("available_copies >= $%d", *filter.MinCopies)
	}
	if filter.MaxCopies != nil {
		addCondition("available_copies <= $%d", *filter.MaxCopies)
	}

	query := `SELECT ` + bookColumns + ` FROM books`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY title, author"

	return query, args
}

func scanBookView(row pgx.Row) (*queries.BookView, error) {
	var view queries.BookView
	err := row.Scan(&view.ID, &view.Title, &view.Author, &view.Category,
		&view.IssueYear, &view.TotalCopies, &view.AvailableCopies,
		&view.CreatedAt, &view.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &view, nil
}
