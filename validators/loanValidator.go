// validators/loanValidator.go
package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/widy4aa/P3-ApiLibrary/model"
)

const (
	MinBorrowerNameLen = 2
	MaxBorrowerNameLen = 100
	MaxLoanDays        = 30
)

// LoanInput carries a loan-creation payload. Dates arrive as strings so the
// rules can report format problems as field errors.
type LoanInput struct {
	BookID       *int64
	BorrowerName *string
	LoanDate     *string
	DueDate      *string
}

// BookGetter resolves the referenced book; soft-deleted books must come back
// as nil.
type BookGetter interface {
	FindByID(ctx context.Context, id int64) (*model.Book, error)
}

// LoanGetter resolves a loan for the return pre-condition check.
type LoanGetter interface {
	FindByID(ctx context.Context, id int64) (*model.Loan, error)
}

// LoanRules validates loan payloads and return pre-conditions. Checks
// accumulate; lookups are read-only.
type LoanRules struct {
	books BookGetter
	loans LoanGetter
}

func NewLoanRules(books BookGetter, loans LoanGetter) *LoanRules {
	return &LoanRules{books: books, loans: loans}
}

// Validate checks a loan-creation payload and returns one message per
// violated field.
func (v *LoanRules) Validate(ctx context.Context, in LoanInput) (map[string]string, error) {
	errs := map[string]string{}

	if in.BookID == nil || *in.BookID == 0 {
		errs["book_id"] = "book_id is required"
	}
	requireString(errs, "borrower_name", in.BorrowerName)
	if in.LoanDate == nil || strings.TrimSpace(*in.LoanDate) == "" {
		errs["loan_date"] = "loan_date is required"
	}

	if in.BookID != nil && *in.BookID != 0 {
		msg, err := v.checkBook(ctx, *in.BookID)
		if err != nil {
			return nil, err
		}
		if msg != "" {
			errs["book_id"] = msg
		}
	}

	checkLength(errs, "borrower_name", in.BorrowerName, MinBorrowerNameLen, MaxBorrowerNameLen)

	var loanDate, dueDate model.Date
	var loanOK, dueOK bool
	if in.LoanDate != nil && strings.TrimSpace(*in.LoanDate) != "" {
		if d, err := model.ParseDate(*in.LoanDate); err != nil {
			errs["loan_date"] = "loan_date is not a valid date (use YYYY-MM-DD)"
		} else {
			loanDate, loanOK = d, true
		}
	}
	if in.DueDate != nil && strings.TrimSpace(*in.DueDate) != "" {
		if d, err := model.ParseDate(*in.DueDate); err != nil {
			errs["due_date"] = "due_date is not a valid date (use YYYY-MM-DD)"
		} else {
			dueDate, dueOK = d, true
		}
	}

	if loanOK && dueOK {
		if dueDate.Before(loanDate) {
			errs["due_date"] = "due_date must be on or after loan_date"
		} else if loanDate.DaysUntil(dueDate) > MaxLoanDays {
			errs["due_date"] = fmt.Sprintf("loan period cannot exceed %d days", MaxLoanDays)
		}
	}

	return errs, nil
}

// ValidateReturn checks the return pre-condition: the loan exists and has
// not been returned already.
func (v *LoanRules) ValidateReturn(ctx context.Context, loanID int64) (map[string]string, error) {
	errs := map[string]string{}

	loan, err := v.loans.FindByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	switch {
	case loan == nil:
		errs["loan_id"] = "loan not found"
	case loan.Status == model.LoanReturned:
		errs["loan_id"] = "loan has already been returned"
	}
	return errs, nil
}

func (v *LoanRules) checkBook(ctx context.Context, bookID int64) (string, error) {
	book, err := v.books.FindByID(ctx, bookID)
	if err != nil {
		return "", err
	}
	if book == nil {
		return "book not found", nil
	}
	if !book.IsAvailable() {
		return "book is not available (all copies on loan)", nil
	}
	return "", nil
}
