package response

import (
	"time"

	"library-api/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookResponse struct {
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

func FromBookView(view *queries.BookView) *BookResponse {
	var resp BookResponse
	_ = copier.Copy(&resp, view)
	return &resp
}

func FromBookViews(views []*queries.BookView) []*BookResponse {
	resp := make([]*BookResponse, len(views))
	for i, view := range views {
		resp[i] = FromBookView(view)
	}
	return resp
}
