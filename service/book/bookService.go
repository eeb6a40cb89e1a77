// service/book/bookService.go
package booksvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	bookrepo "github.com/widy4aa/P3-ApiLibrary/repository/book"

	"github.com/widy4aa/P3-ApiLibrary/model"
	"github.com/widy4aa/P3-ApiLibrary/observer"
	"github.com/widy4aa/P3-ApiLibrary/util/response"
	"github.com/widy4aa/P3-ApiLibrary/validators"
)

type Filter = bookrepo.Filter

type Repo interface {
	Create(ctx context.Context, b *model.Book) error
	FindByID(ctx context.Context, id int64) (*model.Book, error)
	FindByISBN(ctx context.Context, isbn string) (*model.Book, error)
	FindAll(ctx context.Context, f Filter) ([]model.Book, error)
	Count(ctx context.Context, f Filter) (int, error)
	Update(ctx context.Context, b *model.Book) error
	SoftDelete(ctx context.Context, id int64) (bool, error)
	HardDelete(ctx context.Context, id int64) (bool, error)
	Search(ctx context.Context, keyword string) ([]model.Book, error)
	Categories(ctx context.Context) ([]string, error)
}

// Publisher is the slice of the event bus the facade needs.
type Publisher interface {
	Publish(kind observer.EventType, payload observer.Payload)
}

// Service is the book facade. Every operation returns the uniform result
// shape; expected failures (validation, not found, conflicts) come back as
// data, and only unexpected errors publish system_error.
type Service interface {
	List(ctx context.Context, f Filter) *response.Result
	Detail(ctx context.Context, id int64) *response.Result
	ByISBN(ctx context.Context, isbn string) *response.Result
	Create(ctx context.Context, in validators.BookInput) *response.Result
	Update(ctx context.Context, id int64, in validators.BookInput) *response.Result
	Delete(ctx context.Context, id int64) *response.Result
	HardDelete(ctx context.Context, id int64) *response.Result
	Search(ctx context.Context, keyword string) *response.Result
	Categories(ctx context.Context) *response.Result
	CheckAvailability(ctx context.Context, id int64) *response.Result
}

type service struct {
	r     Repo
	rules *validators.BookRules
	bus   Publisher
}

func New(r Repo, rules *validators.BookRules, bus Publisher) Service {
	return &service{r: r, rules: rules, bus: bus}
}

func (s *service) List(ctx context.Context, f Filter) *response.Result {
	books, err := s.r.FindAll(ctx, f)
	if err != nil {
		return s.fail("failed to fetch books", err)
	}
	total, err := s.r.Count(ctx, f)
	if err != nil {
		return s.fail("failed to fetch books", err)
	}
	return response.OKList(books, total, "books fetched")
}

func (s *service) Detail(ctx context.Context, id int64) *response.Result {
	book, err := s.r.FindByID(ctx, id)
	if err != nil {
		return s.fail("failed to fetch book", err)
	}
	if book == nil {
		return response.NotFound(fmt.Sprintf("book with id %d not found", id))
	}
	return response.OK(book, "book fetched")
}

func (s *service) ByISBN(ctx context.Context, isbn string) *response.Result {
	book, err := s.r.FindByISBN(ctx, isbn)
	if err != nil {
		return s.fail("failed to fetch book", err)
	}
	if book == nil {
		return response.NotFound(fmt.Sprintf("book with isbn %s not found", isbn))
	}
	return response.OK(book, "book fetched")
}

func (s *service) Create(ctx context.Context, in validators.BookInput) *response.Result {
	errs, err := s.rules.Validate(ctx, in, false)
	if err != nil {
		return s.fail("failed to create book", err)
	}
	if len(errs) > 0 {
		return response.ValidationFailed(errs)
	}

	book := model.NewBook(
		strings.TrimSpace(*in.Title),
		strings.TrimSpace(*in.Author),
		strings.TrimSpace(*in.ISBN),
		*in.Year,
		strings.TrimSpace(*in.Category),
		*in.Stock,
	)

	if err := s.r.Create(ctx, book); err != nil {
		if errors.Is(err, bookrepo.ErrDuplicateISBN) {
			// two creates raced past the uniqueness check
			return response.Conflict("isbn already registered", map[string]string{"isbn": "isbn is already registered"})
		}
		return s.fail("failed to create book", err)
	}

	s.bus.Publish(observer.BookCreated, observer.Payload{
		"book_id": book.ID,
		"title":   book.Title,
		"isbn":    book.ISBN,
	})
	return response.OK(book, "book created")
}

func (s *service) Update(ctx context.Context, id int64, in validators.BookInput) *response.Result {
	book, err := s.r.FindByID(ctx, id)
	if err != nil {
		return s.fail("failed to update book", err)
	}
	if book == nil {
		return response.NotFound(fmt.Sprintf("book with id %d not found", id))
	}

	in.ID = &id
	errs, err := s.rules.Validate(ctx, in, true)
	if err != nil {
		return s.fail("failed to update book", err)
	}
	if len(errs) > 0 {
		return response.ValidationFailed(errs)
	}

	applyPatch(book, in)

	if err := s.r.Update(ctx, book); err != nil {
		switch {
		case errors.Is(err, bookrepo.ErrDuplicateISBN):
			return response.Conflict("isbn already registered", map[string]string{"isbn": "isbn is already registered"})
		case errors.Is(err, sql.ErrNoRows):
			return response.NotFound(fmt.Sprintf("book with id %d not found", id))
		default:
			return s.fail("failed to update book", err)
		}
	}

	s.bus.Publish(observer.BookUpdated, observer.Payload{
		"book_id": book.ID,
		"title":   book.Title,
	})
	return response.OK(book, "book updated")
}

func (s *service) Delete(ctx context.Context, id int64) *response.Result {
	book, err := s.r.FindByID(ctx, id)
	if err != nil {
		return s.fail("failed to delete book", err)
	}
	if book == nil {
		return response.NotFound(fmt.Sprintf("book with id %d not found", id))
	}

	ok, err := s.r.SoftDelete(ctx, id)
	if err != nil {
		return s.fail("failed to delete book", err)
	}
	if !ok {
		return response.NotFound(fmt.Sprintf("book with id %d not found", id))
	}

	// existing loans keep referencing the book; only new queries hide it
	s.bus.Publish(observer.BookDeleted, observer.Payload{
		"book_id": id,
		"title":   book.Title,
	})
	return response.OK(nil, fmt.Sprintf("book %q deleted", book.Title))
}

// HardDelete removes the row permanently. Administrative cleanup; not part
// of the normal delete flow and not announced on the bus.
func (s *service) HardDelete(ctx context.Context, id int64) *response.Result {
	ok, err := s.r.HardDelete(ctx, id)
	if err != nil {
		return s.fail("failed to delete book", err)
	}
	if !ok {
		return response.NotFound(fmt.Sprintf("book with id %d not found", id))
	}
	return response.OK(nil, "book permanently deleted")
}

func (s *service) Search(ctx context.Context, keyword string) *response.Result {
	keyword = strings.TrimSpace(keyword)
	if len(keyword) < 2 {
		return response.ValidationFailed(map[string]string{"q": "search keyword must be at least 2 characters"})
	}
	books, err := s.r.Search(ctx, keyword)
	if err != nil {
		return s.fail("failed to search books", err)
	}
	return response.OKList(books, len(books), fmt.Sprintf("found %d books", len(books)))
}

func (s *service) Categories(ctx context.Context) *response.Result {
	categories, err := s.r.Categories(ctx)
	if err != nil {
		return s.fail("failed to fetch categories", err)
	}
	return response.OKList(categories, len(categories), "categories fetched")
}

func (s *service) CheckAvailability(ctx context.Context, id int64) *response.Result {
	book, err := s.r.FindByID(ctx, id)
	if err != nil {
		return s.fail("failed to check availability", err)
	}
	if book == nil {
		return response.NotFound(fmt.Sprintf("book with id %d not found", id))
	}
	return response.OK(map[string]any{
		"book_id":      book.ID,
		"title":        book.Title,
		"total_stock":  book.Stock,
		"available":    book.Available,
		"borrowed":     book.Stock - book.Available,
		"is_available": book.IsAvailable(),
	}, "availability fetched")
}

func (s *service) fail(msg string, err error) *response.Result {
	s.bus.Publish(observer.SystemError, observer.Payload{"message": err.Error()})
	return response.Internal(msg)
}

func applyPatch(book *model.Book, in validators.BookInput) {
	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		book.Title = strings.TrimSpace(*in.Title)
	}
	if in.Author != nil && strings.TrimSpace(*in.Author) != "" {
		book.Author = strings.TrimSpace(*in.Author)
	}
	if in.ISBN != nil && strings.TrimSpace(*in.ISBN) != "" {
		book.ISBN = strings.TrimSpace(*in.ISBN)
	}
	if in.Category != nil && strings.TrimSpace(*in.Category) != "" {
		book.Category = strings.TrimSpace(*in.Category)
	}
	if in.Year != nil {
		book.Year = *in.Year
	}
	if in.Stock != nil {
		*book = book.Resize(*in.Stock)
	}
}
