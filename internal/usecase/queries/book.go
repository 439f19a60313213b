package queries

import (
	"context"

	"library-api/internal/infra"
	"library-api/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrBookNotFound    = errs.New("book not found")
	ErrNoBooksMatching = errs.New("books with such filters not found")
)

type BookQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookView, error)
	Search(ctx context.Context, filter BookFilter) ([]*BookView, error)
}

type BookReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookView, error)
	FindByFilter(ctx context.Context, filter BookFilter) ([]*BookView, error)
}

type bookQueriesImpl struct {
	readStore BookReadStore
}

func NewBookQueries(readStore BookReadStore) BookQueries {
	return &bookQueriesImpl{readStore: readStore}
}

func (q *bookQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *bookQueriesImpl) Search(ctx context.Context, filter BookFilter) ([]*BookView, error) {
	views, err := q.readStore.FindByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}
	// An empty catalog answers an unfiltered search; a filtered search with
	// no match is reported as a lookup failure.
	if len(views) == 0 && !filter.IsEmpty() {
		return nil, ErrNoBooksMatching
	}
	return views, nil
}
