package loan

import "time"

type Status string

const (
	StatusBorrowed Status = "borrowed"
	StatusReturned Status = "returned"
	// StatusOverdue is part of the stored enumeration but no automated
	// transition assigns it; a future sweep may flip loans past due_at.
	StatusOverdue Status = "overdue"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusBorrowed, StatusReturned, StatusOverdue:
		return true
	default:
		return false
	}
}

const (
	// Period a borrowed copy may be held before it is due, applied at
	// borrow time and again on each renewal.
	Period = 7 * 24 * time.Hour

	// MaxActiveLoans caps concurrently borrowed titles per user.
	MaxActiveLoans = 5

	// MaxRenewals allows a single renewal per loan.
	MaxRenewals = 1
)
