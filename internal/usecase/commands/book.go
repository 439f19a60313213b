package commands

import (
	"context"

	"library-api/internal/domain/book"
	reqdto "library-api/internal/handler/dto/request"
	"library-api/internal/infra"
	"library-api/internal/pkg/errs"
	"library-api/internal/usecase/queries"

	"github.com/google/uuid"
)

var (
	ErrBookAlreadyExists = errs.New("book already exists")
	ErrBookNotFound      = errs.New("book not found")
	ErrInvalidBookData   = errs.New("invalid book data")
	ErrEmptyBookPatch    = errs.New("no fields to update")
)

type BookRepository interface {
	Create(ctx context.Context, b *book.Book) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, patch BookPatch) error
	Delete(ctx context.Context, id uuid.UUID) error
	DecrementAvailable(ctx context.Context, id uuid.UUID) (*BookSnapshot, error)
	IncrementAvailable(ctx context.Context, id uuid.UUID) (*BookSnapshot, error)
}

type BookCommands interface {
	Add(ctx context.Context, req reqdto.CreateBookRequest) (*queries.BookView, error)
	Update(ctx context.Context, id uuid.UUID, req reqdto.UpdateBookRequest) (*queries.BookView, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type bookCommandsImpl struct {
	bookRepo    BookRepository
	bookQueries queries.BookQueries
}

func NewBookCommands(bookRepo BookRepository, bookQueries queries.BookQueries) BookCommands {
	return &bookCommandsImpl{
		bookRepo:    bookRepo,
		bookQueries: bookQueries,
	}
}

func (c *bookCommandsImpl) Add(ctx context.Context, req reqdto.CreateBookRequest) (*queries.BookView, error) {
	entity, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidBookData)
	}

	id, err := c.bookRepo.Create(ctx, entity)
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrBookAlreadyExists
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return c.bookQueries.GetByID(ctx, id)
}

func (c *bookCommandsImpl) Update(ctx context.Context, id uuid.UUID, req reqdto.UpdateBookRequest) (*queries.BookView, error) {
	patch := req.ToPatch()
	if patch.IsEmpty() {
		return nil, ErrEmptyBookPatch
	}

	if err := c.bookRepo.Update(ctx, id, patch); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookNotFound
		}
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrBookAlreadyExists
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return c.bookQueries.GetByID(ctx, id)
}

func (c *bookCommandsImpl) Remove(ctx context.Context, id uuid.UUID) error {
	if err := c.bookRepo.Delete(ctx, id); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrBookNotFound
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return nil
}
