package response

import (
	"time"

	"library-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type LoanResponse struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	BookID       uuid.UUID  `json:"book_id"`
	BookTitle    string     `json:"book_title"`
	BorrowedAt   time.Time  `json:"borrowed_at"`
	DueAt        time.Time  `json:"due_at"`
	ReturnedAt   *time.Time `json:"returned_at,omitempty"`
	Status       string     `json:"status"`
	RenewalCount int32      `json:"renewal_count"`
}

func FromLoanView(view *queries.LoanView) *LoanResponse {
	var resp LoanResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromLoanViews(views []*queries.LoanView) []*LoanResponse {
	resp := make([]*LoanResponse, len(views))
	for i, view := range views {
		resp[i] = FromLoanView(view)
	}
	return resp
}
