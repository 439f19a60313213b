//go:build unit || e2e

package builder

import (
	"time"

	"library-api/internal/domain/book"
	"library-api/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookBuilder struct {
	Title           string
	Author          string
	Category        string
	IssueYear       int32
	TotalCopies     int32
	AvailableCopies int32
}

func NewBookBuilder() *BookBuilder {
	return &BookBuilder{
		Title:           "The Go Programming Language",
		Author:          "Alan Donovan",
		Category:        "programming",
		IssueYear:       2015,
		TotalCopies:     3,
		AvailableCopies: 3,
	}
}

func (b *BookBuilder) With(mutate func(*BookBuilder)) *BookBuilder {
	mutate(b)
	return b
}

func (b *BookBuilder) BuildDomain() (*book.Book, error) {
	return book.NewBook(b.Title, b.Author, b.Category, b.IssueYear, b.TotalCopies)
}

func (b *BookBuilder) BuildReadModel() *queries.BookView {
	now := time.Now()
	return &queries.BookView{
		ID:              uuid.New(),
		Title:           b.Title,
		Author:          b.Author,
		Category:        b.Category,
		IssueYear:       b.IssueYear,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Fluent builder methods
func (b *BookBuilder) WithTitle(title string) *BookBuilder {
	b.Title = title
	return b
}

func (b *BookBuilder) WithAuthor(author string) *BookBuilder {
	b.Author = author
	return b
}

func (b *BookBuilder) WithCopies(total, available int32) *BookBuilder {
	b.TotalCopies = total
	b.AvailableCopies = available
	return b
}

func (b *BookBuilder) AsUnavailable() *BookBuilder {
	b.AvailableCopies = 0
	return b
}
