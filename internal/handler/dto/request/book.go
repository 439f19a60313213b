package request

import (
	"library-api/internal/domain/book"
	"library-api/internal/pkg/patch"
	"library-api/internal/usecase/queries"
)

type CreateBookRequest struct {
	Title       string `json:"title" binding:"required"`
	Author      string `json:"author" binding:"required"`
	Category    string `json:"category" binding:"required"`
	IssueYear   int32  `json:"issue_year" binding:"required,min=1000"`
	TotalCopies int32  `json:"total_copies" binding:"required,min=1,max=40"`
}

func (r *CreateBookRequest) ToDomain() (*book.Book, error) {
	return book.NewBook(r.Title, r.Author, r.Category, r.IssueYear, r.TotalCopies)
}

type UpdateBookRequest struct {
	Title           *string `json:"title" binding:"omitempty,min=1"`
	Author          *string `json:"author" binding:"omitempty,min=1"`
	Category        *string `json:"category" binding:"omitempty,min=1"`
	IssueYear       *int32  `json:"issue_year" binding:"omitempty,min=1000"`
	AvailableCopies *int32  `json:"available_copies" binding:"omitempty,min=0"`
}

func (r *UpdateBookRequest) ToPatch() patch.BookPatch {
	return patch.BookPatch{
		Title:           r.Title,
		Author:          r.Author,
		Category:        r.Category,
		IssueYear:       r.IssueYear,
		AvailableCopies: r.AvailableCopies,
	}
}

// SearchBooksRequest binds the catalog search query string.
type SearchBooksRequest struct {
	Title     *string `form:"title"`
	Author    *string `form:"author"`
	Category  *string `form:"category"`
	IssueYear *int32  `form:"issue_year" binding:"omitempty,min=1000"`
	MinCopies *int32  `form:"min_copies" binding:"omitempty,min=0"`
	MaxCopies *int32  `form:"max_copies" binding:"omitempty,min=0"`
}

func (r *SearchBooksRequest) ToFilter() queries.BookFilter {
	return queries.BookFilter{
		Title:     r.Title,
		Author:    r.Author,
		Category:  r.Category,
		IssueYear: r.IssueYear,
		MinCopies: r.MinCopies,
		MaxCopies: r.MaxCopies,
	}
}
