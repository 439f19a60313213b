package queries

import (
	"context"

	"library-api/internal/infra"
	"library-api/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrLoanNotFound = errs.New("loan not found")
	ErrNoLoans      = errs.New("no books borrowed")
)

type LoanQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*LoanView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*LoanView, error)
}

type LoanReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*LoanView, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*LoanView, error)
}

type loanQueriesImpl struct {
	readStore LoanReadStore
}

func NewLoanQueries(readStore LoanReadStore) LoanQueries {
	return &loanQueriesImpl{readStore: readStore}
}

func (q *loanQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*LoanView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return view, nil
}

// ListByUser reports an empty history as a lookup failure, keeping the
// behavior clients of the original API depend on.
func (q *loanQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*LoanView, error) {
	views, err := q.readStore.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, ErrNoLoans
	}
	return views, nil
}
