// validators/bookValidator.go
package validators

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/widy4aa/P3-ApiLibrary/model"
)

// Bounds for book fields.
const (
	MaxTitleLen    = 200
	MaxAuthorLen   = 100
	MaxISBNLen     = 20
	MaxCategoryLen = 50
	MinYear        = 1000
	MaxStock       = 10000
)

// BookInput is the field set a create or update request may carry. Pointer
// fields distinguish "absent" from "zero" so partial updates validate only
// what they touch.
type BookInput struct {
	ID       *int64
	Title    *string
	Author   *string
	ISBN     *string
	Year     *int
	Category *string
	Stock    *int
}

// BookLookup is the read-only access the rules need for the ISBN
// uniqueness check.
type BookLookup interface {
	FindByISBN(ctx context.Context, isbn string) (*model.Book, error)
}

// BookRules validates book payloads. All violated rules are accumulated;
// validation never short-circuits on the first failure.
type BookRules struct {
	books BookLookup
	now   func() time.Time
}

func NewBookRules(books BookLookup) *BookRules {
	return &BookRules{books: books, now: time.Now}
}

// Validate checks the input and returns one message per violated field.
// An empty map means the payload passed. The error return is for lookup
// failures only, never for rule violations.
func (v *BookRules) Validate(ctx context.Context, in BookInput, isUpdate bool) (map[string]string, error) {
	errs := map[string]string{}

	if !isUpdate {
		requireString(errs, "title", in.Title)
		requireString(errs, "author", in.Author)
		requireString(errs, "isbn", in.ISBN)
		requireString(errs, "category", in.Category)
		if in.Year == nil {
			errs["year"] = "year is required"
		}
		if in.Stock == nil {
			errs["stock"] = "stock is required"
		}
	}

	checkLength(errs, "title", in.Title, 1, MaxTitleLen)
	checkLength(errs, "author", in.Author, 1, MaxAuthorLen)
	checkLength(errs, "category", in.Category, 1, MaxCategoryLen)

	if in.ISBN != nil && strings.TrimSpace(*in.ISBN) != "" {
		msg, err := v.checkISBN(ctx, strings.TrimSpace(*in.ISBN), in.ID)
		if err != nil {
			return nil, err
		}
		if msg != "" {
			errs["isbn"] = msg
		}
	}

	if in.Year != nil {
		if msg := v.checkYear(*in.Year); msg != "" {
			errs["year"] = msg
		}
	}

	if in.Stock != nil {
		switch {
		case *in.Stock < 0:
			errs["stock"] = "stock cannot be negative"
		case *in.Stock > MaxStock:
			errs["stock"] = fmt.Sprintf("stock cannot exceed %d", MaxStock)
		}
	}

	return errs, nil
}

func (v *BookRules) checkISBN(ctx context.Context, isbn string, ownID *int64) (string, error) {
	if len(isbn) > MaxISBNLen {
		return fmt.Sprintf("isbn cannot exceed %d characters", MaxISBNLen), nil
	}
	existing, err := v.books.FindByISBN(ctx, isbn)
	if err != nil {
		return "", err
	}
	if existing != nil {
		if ownID == nil || existing.ID != *ownID {
			return "isbn is already registered", nil
		}
	}
	return "", nil
}

func (v *BookRules) checkYear(year int) string {
	maxYear := v.now().Year() + 1
	if year < MinYear {
		return fmt.Sprintf("year must be at least %d", MinYear)
	}
	if year > maxYear {
		return fmt.Sprintf("year cannot be later than %d", maxYear)
	}
	return ""
}

func requireString(errs map[string]string, field string, v *string) {
	if v == nil || strings.TrimSpace(*v) == "" {
		errs[field] = field + " is required"
	}
}

func checkLength(errs map[string]string, field string, v *string, min, max int) {
	if v == nil {
		return
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return // required check reports the empty case
	}
	if len(s) < min {
		errs[field] = fmt.Sprintf("%s must be at least %d characters", field, min)
	} else if len(s) > max {
		errs[field] = fmt.Sprintf("%s cannot exceed %d characters", field, max)
	}
}
