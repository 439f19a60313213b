package loan

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotBorrowed         = errors.New("loan is not in borrowed state")
	ErrRenewalLimitReached = errors.New("renewal limit reached")
	ErrAlreadyReturned     = errors.New("loan already returned")
)

// Loan records a single borrow event. Created only by a successful borrow,
// mutated by renew and return, never deleted. Returned is terminal.
type Loan struct {
	id           uuid.UUID
	userID       uuid.UUID
	bookID       uuid.UUID
	borrowedAt   time.Time
	dueAt        time.Time
	returnedAt   *time.Time
	status       Status
	renewalCount int32
	createdAt    time.Time
	updatedAt    time.Time
}

func NewLoan(userID, bookID uuid.UUID, now time.Time) *Loan {
	return &Loan{
		id:         uuid.New(),
		userID:     userID,
		bookID:     bookID,
		borrowedAt: now,
		dueAt:      now.Add(Period),
		status:     StatusBorrowed,
	}
}

func Reconstruct(
	id, userID, bookID uuid.UUID,
	borrowedAt, dueAt time.Time,
	returnedAt *time.Time,
	status Status,
	renewalCount int32,
	createdAt, updatedAt time.Time,
) *Loan {
	return &Loan{
		id:           id,
		userID:       userID,
		bookID:       bookID,
		borrowedAt:   borrowedAt,
		dueAt:        dueAt,
		returnedAt:   returnedAt,
		status:       status,
		renewalCount: renewalCount,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// Renew extends the due date by one period from now. At most one renewal is
// permitted over the life of a loan.
func (l *Loan) Renew(now time.Time) error {
	if l.status != StatusBorrowed {
		return ErrNotBorrowed
	}
	if l.renewalCount >= MaxRenewals {
		return ErrRenewalLimitReached
	}
	l.renewalCount++
	l.dueAt = now.Add(Period)
	return nil
}

// Return flips the loan into its terminal state. returnedAt is set exactly once.
func (l *Loan) Return(now time.Time) error {
	if l.status == StatusReturned {
		return ErrAlreadyReturned
	}
	if l.status != StatusBorrowed {
		return ErrNotBorrowed
	}
	l.status = StatusReturned
	l.returnedAt = &now
	return nil
}

func (l *Loan) IsActive() bool {
	return l.status == StatusBorrowed
}

func (l *Loan) IsOverdue(now time.Time) bool {
	return l.status == StatusBorrowed && now.After(l.dueAt)
}

func (l *Loan) ID() uuid.UUID          { return l.id }
func (l *Loan) UserID() uuid.UUID      { return l.userID }
func (l *Loan) BookID() uuid.UUID      { return l.bookID }
func (l *Loan) BorrowedAt() time.Time  { return l.borrowedAt }
func (l *Loan) DueAt() time.Time       { return l.dueAt }
func (l *Loan) ReturnedAt() *time.Time { return l.returnedAt }
func (l *Loan) Status() Status         { return l.status }
func (l *Loan) RenewalCount() int32    { return l.renewalCount }
func (l *Loan) CreatedAt() time.Time   { return l.createdAt }
func (l *Loan) UpdatedAt() time.Time   { return l.updatedAt }
