package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type AuthorizedUserView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

type UserView struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department *string   `json:"department,omitempty"`
	StudentID  *string   `json:"student_id,omitempty"`
	EmployeeID *string   `json:"employee_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type BookView struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Category        string    `json:"category"`
	IssueYear       int32     `json:"issue_year"`
	TotalCopies     int32     `json:"total_copies"`
	AvailableCopies int32     `json:"available_copies"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type LoanView struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	BookID       uuid.UUID  `json:"book_id"`
	BookTitle    string     `json:"book_title"`
	BorrowedAt   time.Time  `json:"borrowed_at"`
	DueAt        time.Time  `json:"due_at"`
	ReturnedAt   *time.Time `json:"returned_at,omitempty"`
	Status       string     `json:"status"`
	RenewalCount int32      `json:"renewal_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BookFilter narrows catalog searches; nil fields are ignored.
type BookFilter struct {
	Title     *string
	Author    *string
	Category  *string
	IssueYear *int32
	MinCopies *int32
	MaxCopies *int32
}

func (f BookFilter) IsEmpty() bool {
	return f.Title == nil && f.Author == nil && f.Category == nil &&
		f.IssueYear == nil && f.MinCopies == nil && f.MaxCopies == nil
}
