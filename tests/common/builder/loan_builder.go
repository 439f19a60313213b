//go:build unit || e2e

package builder

import (
	"time"

	"library-api/internal/domain/loan"
	"library-api/internal/usecase/queries"

	"github.com/google/uuid"
)

type LoanBuilder struct {
	UserID       uuid.UUID
	BookID       uuid.UUID
	BookTitle    string
	BorrowedAt   time.Time
	ReturnedAt   *time.Time
	Status       string
	RenewalCount int32
}

func NewLoanBuilder() *LoanBuilder {
	now := time.Now().Truncate(time.Second)
	return &LoanBuilder{
		UserID:     uuid.New(),
		BookID:     uuid.New(),
		BookTitle:  "The Go Programming Language",
		BorrowedAt: now,
		Status:     string(loan.StatusBorrowed),
	}
}

func (l *LoanBuilder) With(mutate func(*LoanBuilder)) *LoanBuilder {
	mutate(l)
	return l
}

func (l *LoanBuilder) BuildDomain() *loan.Loan {
	return loan.Reconstruct(
		uuid.New(),
		l.UserID,
		l.BookID,
		l.BorrowedAt,
		l.BorrowedAt.Add(loan.Period),
		l.ReturnedAt,
		loan.Status(l.Status),
		l.RenewalCount,
		l.BorrowedAt,
		l.BorrowedAt,
	)
}

func (l *LoanBuilder) BuildReadModel() *queries.LoanView {
	return &queries.LoanView{
		ID:           uuid.New(),
		UserID:       l.UserID,
		BookID:       l.BookID,
		BookTitle:    l.BookTitle,
		BorrowedAt:   l.BorrowedAt,
		DueAt:        l.BorrowedAt.Add(loan.Period),
		ReturnedAt:   l.ReturnedAt,
		Status:       l.Status,
		RenewalCount: l.RenewalCount,
		CreatedAt:    l.BorrowedAt,
		UpdatedAt:    l.BorrowedAt,
	}
}

// Fluent builder methods
func (l *LoanBuilder) WithBookTitle(title string) *LoanBuilder {
	l.BookTitle = title
	return l
}

func (l *LoanBuilder) ForUser(userID uuid.UUID) *LoanBuilder {
	l.UserID = userID
	return l
}

func (l *LoanBuilder) ForBook(bookID uuid.UUID) *LoanBuilder {
	l.BookID = bookID
	return l
}

func (l *LoanBuilder) AsReturned(at time.Time) *LoanBuilder {
	l.Status = string(loan.StatusReturned)
	l.ReturnedAt = &at
	return l
}

func (l *LoanBuilder) Renewed() *LoanBuilder {
	l.RenewalCount = loan.MaxRenewals
	return l
}
