package book

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyTitle        = errors.New("title is required")
	ErrEmptyAuthor       = errors.New("author is required")
	ErrEmptyCategory     = errors.New("category is required")
	ErrInvalidIssueYear  = errors.New("issue year must be a full year in YYYY form")
	ErrInvalidCopyCount  = errors.New("total copies must be between 1 and 40")
	ErrCopyCountOverflow = errors.New("available copies cannot exceed total copies")
)

// Maximum copies a single title may carry, mirroring the catalog intake rule.
const MaxTotalCopies = 40

type Book struct {
	id              uuid.UUID
	title           string
	author          string
	category        string
	issueYear       int32
	totalCopies     int32
	availableCopies int32
	createdAt       time.Time
	updatedAt       time.Time
}

// NewBook creates a catalog entry; available copies default to total copies.
func NewBook(title, author, category string, issueYear, totalCopies int32) (*Book, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if author == "" {
		return nil, ErrEmptyAuthor
	}
	if category == "" {
		return nil, ErrEmptyCategory
	}
	if issueYear < 1000 {
		return nil, ErrInvalidIssueYear
	}
	if totalCopies < 1 || totalCopies > MaxTotalCopies {
		return nil, ErrInvalidCopyCount
	}
	return &Book{
		id:              uuid.New(),
		title:           title,
		author:          author,
		category:        category,
		issueYear:       issueYear,
		totalCopies:     totalCopies,
		availableCopies: totalCopies,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	title, author, category string,
	issueYear, totalCopies, availableCopies int32,
	createdAt, updatedAt time.Time,
) *Book {
	return &Book{
		id:              id,
		title:           title,
		author:          author,
		category:        category,
		issueYear:       issueYear,
		totalCopies:     totalCopies,
		availableCopies: availableCopies,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (b *Book) IsAvailable() bool {
	return b.availableCopies > 0
}

func (b *Book) ID() uuid.UUID          { return b.id }
func (b *Book) Title() string          { return b.title }
func (b *Book) Author() string         { return b.author }
func (b *Book) Category() string       { return b.category }
func (b *Book) IssueYear() int32       { return b.issueYear }
func (b *Book) TotalCopies() int32     { return b.totalCopies }
func (b *Book) AvailableCopies() int32 { return b.availableCopies }
func (b *Book) CreatedAt() time.Time   { return b.createdAt }
func (b *Book) UpdatedAt() time.Time   { return b.updatedAt }
