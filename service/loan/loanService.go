// service/loan/loanService.go
package loansvc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	loanrepo "github.com/widy4aa/P3-ApiLibrary/repository/loan"

	"github.com/widy4aa/P3-ApiLibrary/model"
	"github.com/widy4aa/P3-ApiLibrary/observer"
	"github.com/widy4aa/P3-ApiLibrary/util/response"
	"github.com/widy4aa/P3-ApiLibrary/validators"
)

type Filter = loanrepo.Filter

type Repo interface {
	Insert(ctx context.Context, l *model.Loan) error
	FindByID(ctx context.Context, id int64) (*model.Loan, error)
	FindAll(ctx context.Context, f Filter) ([]model.Loan, error)
	Count(ctx context.Context, f Filter) (int, error)
	MarkReturned(ctx context.Context, id int64, returnDate model.Date) (bool, error)
	UndoReturn(ctx context.Context, id int64) error
	Update(ctx context.Context, l *model.Loan) error
	Delete(ctx context.Context, id int64) (bool, error)
	FindOverdue(ctx context.Context, today model.Date) ([]model.Loan, error)
	FindByBorrower(ctx context.Context, borrowerName string) ([]model.Loan, error)
}

// BookRepo is the slice of the book store the loan facade needs. ReserveCopy
// is the authoritative availability check: it decrements and fails closed in
// one statement, so the validator's earlier read can never oversell a copy.
type BookRepo interface {
	FindByID(ctx context.Context, id int64) (*model.Book, error)
	ReserveCopy(ctx context.Context, id int64) error
	ReleaseCopy(ctx context.Context, id int64) error
}

type Publisher interface {
	Publish(kind observer.EventType, payload observer.Payload)
}

// UpdateInput carries the editable fields of a borrowed loan.
type UpdateInput struct {
	DueDate *string
	Notes   *string
}

type Service interface {
	List(ctx context.Context, f Filter) *response.Result
	Detail(ctx context.Context, id int64) *response.Result
	Create(ctx context.Context, in validators.LoanInput) *response.Result
	Return(ctx context.Context, id int64, returnDate *string) *response.Result
	Update(ctx context.Context, id int64, in UpdateInput) *response.Result
	Delete(ctx context.Context, id int64) *response.Result
	Overdue(ctx context.Context) *response.Result
	ByBorrower(ctx context.Context, borrowerName string) *response.Result
}

type service struct {
	lr    Repo
	br    BookRepo
	rules *validators.LoanRules
	bus   Publisher
	now   func() time.Time
}

func New(lr Repo, br BookRepo, rules *validators.LoanRules, bus Publisher) Service {
	return &service{lr: lr, br: br, rules: rules, bus: bus, now: time.Now}
}

func (s *service) today() model.Date { return model.DateOf(s.now()) }

func (s *service) List(ctx context.Context, f Filter) *response.Result {
	loans, err := s.lr.FindAll(ctx, f)
	if err != nil {
		return s.fail("failed to fetch loans", err)
	}
	total, err := s.lr.Count(ctx, f)
	if err != nil {
		return s.fail("failed to fetch loans", err)
	}
	s.markOverdue(loans)
	return response.OKList(loans, total, "loans fetched")
}

func (s *service) Detail(ctx context.Context, id int64) *response.Result {
	loan, err := s.lr.FindByID(ctx, id)
	if err != nil {
		return s.fail("failed to fetch loan", err)
	}
	if loan == nil {
		return response.NotFound(fmt.Sprintf("loan with id %d not found", id))
	}
	loan.Overdue = loan.IsOverdue(s.today())
	return response.OK(loan, "loan fetched")
}

// Create validates, reserves a copy and persists the loan. The reservation
// is the commit point: when the insert fails afterwards the copy is released
// again so no stock can leak.
func (s *service) Create(ctx context.Context, in validators.LoanInput) *response.Result {
	errs, err := s.rules.Validate(ctx, in)
	if err != nil {
		return s.fail("failed to create loan", err)
	}
	if len(errs) > 0 {
		return response.ValidationFailed(errs)
	}

	bookID := *in.BookID
	book, err := s.br.FindByID(ctx, bookID)
	if err != nil {
		return s.fail("failed to create loan", err)
	}
	if book == nil {
		return response.NotFound("book not found")
	}
	if !book.IsAvailable() {
		return response.Conflict("book is not available", map[string]string{"book_id": "all copies are on loan"})
	}

	loanDate, _ := model.ParseDate(*in.LoanDate) // validated above
	var dueDate model.Date
	if in.DueDate != nil && strings.TrimSpace(*in.DueDate) != "" {
		dueDate, _ = model.ParseDate(*in.DueDate)
	}
	loan := model.NewLoan(bookID, strings.TrimSpace(*in.BorrowerName), loanDate, dueDate, nil)

	if err := s.br.ReserveCopy(ctx, bookID); err != nil {
		if errors.Is(err, model.ErrNoAvailableCopy) {
			// availability changed since validation; the reservation decides
			return response.Conflict("book is not available", map[string]string{"book_id": "all copies are on loan"})
		}
		return s.fail("failed to create loan", err)
	}

	if err := s.lr.Insert(ctx, loan); err != nil {
		if relErr := s.br.ReleaseCopy(ctx, bookID); relErr != nil {
			s.bus.Publish(observer.SystemWarning, observer.Payload{
				"message": fmt.Sprintf("failed to roll back reservation for book %d: %v", bookID, relErr),
			})
		}
		return s.fail("failed to create loan", err)
	}

	loan.BookTitle = book.Title
	loan.Overdue = loan.IsOverdue(s.today())

	s.bus.Publish(observer.LoanCreated, observer.Payload{
		"loan_id":       loan.ID,
		"book_id":       bookID,
		"book_title":    book.Title,
		"borrower_name": loan.BorrowerName,
		"due_date":      loan.DueDate.String(),
	})
	return response.OK(loan, "loan created")
}

// Return transitions the loan to returned and releases the reserved copy.
// The guarded status flip makes a second return a conflict, never a double
// increment.
func (s *service) Return(ctx context.Context, id int64, returnDate *string) *response.Result {
	loan, err := s.lr.FindByID(ctx, id)
	if err != nil {
		return s.fail("failed to return loan", err)
	}
	if loan == nil {
		return response.NotFound(fmt.Sprintf("loan with id %d not found", id))
	}

	errs, err := s.rules.ValidateReturn(ctx, id)
	if err != nil {
		return s.fail("failed to return loan", err)
	}
	if len(errs) > 0 {
		return response.Conflict("loan has already been returned", errs)
	}

	ret := s.today()
	if returnDate != nil && strings.TrimSpace(*returnDate) != "" {
		parsed, err := model.ParseDate(*returnDate)
		if err != nil {
			return response.ValidationFailed(map[string]string{"return_date": "return_date is not a valid date (use YYYY-MM-DD)"})
		}
		ret = parsed
	}

	ok, err := s.lr.MarkReturned(ctx, id, ret)
	if err != nil {
		return s.fail("failed to return loan", err)
	}
	if !ok {
		return response.Conflict("loan has already been returned", map[string]string{"loan_id": "loan has already been returned"})
	}

	if err := s.br.ReleaseCopy(ctx, loan.BookID); err != nil {
		if undoErr := s.lr.UndoReturn(ctx, id); undoErr != nil {
			s.bus.Publish(observer.SystemWarning, observer.Payload{
				"message": fmt.Sprintf("failed to undo return of loan %d: %v", id, undoErr),
			})
		}
		return s.fail("failed to return loan", err)
	}

	_ = loan.MarkReturned(ret, s.today())
	loan.Overdue = false

	s.bus.Publish(observer.LoanReturned, observer.Payload{
		"loan_id":       loan.ID,
		"book_id":       loan.BookID,
		"book_title":    loan.BookTitle,
		"borrower_name": loan.BorrowerName,
		"return_date":   ret.String(),
	})
	return response.OK(loan, "loan returned")
}

// Update edits due date and notes on a borrowed loan. The 30-day cap is not
// re-checked on extension; returned loans are immutable.
func (s *service) Update(ctx context.Context, id int64, in UpdateInput) *response.Result {
	loan, err := s.lr.FindByID(ctx, id)
	if err != nil {
		return s.fail("failed to update loan", err)
	}
	if loan == nil {
		return response.NotFound(fmt.Sprintf("loan with id %d not found", id))
	}
	if loan.Status == model.LoanReturned {
		return response.Conflict("returned loans cannot be edited", nil)
	}

	if in.DueDate != nil {
		due, err := model.ParseDate(*in.DueDate)
		if err != nil {
			return response.ValidationFailed(map[string]string{"due_date": "due_date is not a valid date (use YYYY-MM-DD)"})
		}
		loan.DueDate = due
	}
	if in.Notes != nil {
		loan.Notes = in.Notes
	}

	if err := s.lr.Update(ctx, loan); err != nil {
		return s.fail("failed to update loan", err)
	}
	loan.Overdue = loan.IsOverdue(s.today())
	return response.OK(loan, "loan updated")
}

// Delete removes the loan record. Deleting a borrowed loan releases its
// reserved copy in the same store operation, so deletion can never leak
// stock.
func (s *service) Delete(ctx context.Context, id int64) *response.Result {
	ok, err := s.lr.Delete(ctx, id)
	if err != nil {
		return s.fail("failed to delete loan", err)
	}
	if !ok {
		return response.NotFound(fmt.Sprintf("loan with id %d not found", id))
	}
	return response.OK(nil, "loan deleted")
}

func (s *service) Overdue(ctx context.Context) *response.Result {
	loans, err := s.lr.FindOverdue(ctx, s.today())
	if err != nil {
		return s.fail("failed to fetch overdue loans", err)
	}
	s.markOverdue(loans)
	return response.OKList(loans, len(loans), fmt.Sprintf("found %d overdue loans", len(loans)))
}

func (s *service) ByBorrower(ctx context.Context, borrowerName string) *response.Result {
	loans, err := s.lr.FindByBorrower(ctx, borrowerName)
	if err != nil {
		return s.fail("failed to fetch loans", err)
	}
	s.markOverdue(loans)
	return response.OKList(loans, len(loans), fmt.Sprintf("found %d loans", len(loans)))
}

func (s *service) markOverdue(loans []model.Loan) {
	today := s.today()
	for i := range loans {
		loans[i].Overdue = loans[i].IsOverdue(today)
	}
}

func (s *service) fail(msg string, err error) *response.Result {
	s.bus.Publish(observer.SystemError, observer.Payload{"message": err.Error()})
	return response.Internal(msg)
}
