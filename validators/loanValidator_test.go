// validators/loanValidator_test.go
package validators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/widy4aa/P3-ApiLibrary/model"
)

type bookGetterMock struct {
	findByIDFn func(ctx context.Context, id int64) (*model.Book, error)
}

func (m *bookGetterMock) FindByID(ctx context.Context, id int64) (*model.Book, error) {
	if m.findByIDFn == nil {
		return nil, nil
	}
	return m.findByIDFn(ctx, id)
}

type loanGetterMock struct {
	findByIDFn func(ctx context.Context, id int64) (*model.Loan, error)
}

func (m *loanGetterMock) FindByID(ctx context.Context, id int64) (*model.Loan, error) {
	if m.findByIDFn == nil {
		return nil, nil
	}
	return m.findByIDFn(ctx, id)
}

func availableBook() *bookGetterMock {
	return &bookGetterMock{
		findByIDFn: func(ctx context.Context, id int64) (*model.Book, error) {
			return &model.Book{ID: id, Stock: 3, Available: 1}, nil
		},
	}
}

func validLoanInput() LoanInput {
	return LoanInput{
		BookID:       i64Ptr(7),
		BorrowerName: strPtr("Andi Pratama"),
		LoanDate:     strPtr("2024-01-01"),
	}
}

func TestLoanValidate_OK(t *testing.T) {
	v := NewLoanRules(availableBook(), &loanGetterMock{})
	errs, err := v.Validate(context.Background(), validLoanInput())
	require.NoError(t, err)
	require.Empty(t, errs)
}

func TestLoanValidate_RequiredFields(t *testing.T) {
	v := NewLoanRules(availableBook(), &loanGetterMock{})
	errs, err := v.Validate(context.Background(), LoanInput{})
	require.NoError(t, err)
	require.Contains(t, errs, "book_id")
	require.Contains(t, errs, "borrower_name")
	require.Contains(t, errs, "loan_date")
}

func TestLoanValidate_BookMissing(t *testing.T) {
	books := &bookGetterMock{
		findByIDFn: func(ctx context.Context, id int64) (*model.Book, error) { return nil, nil },
	}
	v := NewLoanRules(books, &loanGetterMock{})

	errs, err := v.Validate(context.Background(), validLoanInput())
	require.NoError(t, err)
	require.Equal(t, "book not found", errs["book_id"])
}

func TestLoanValidate_BookNotAvailable(t *testing.T) {
	books := &bookGetterMock{
		findByIDFn: func(ctx context.Context, id int64) (*model.Book, error) {
			return &model.Book{ID: id, Stock: 2, Available: 0}, nil
		},
	}
	v := NewLoanRules(books, &loanGetterMock{})

	errs, err := v.Validate(context.Background(), validLoanInput())
	require.NoError(t, err)
	require.Contains(t, errs, "book_id")
}

func TestLoanValidate_BorrowerNameBounds(t *testing.T) {
	v := NewLoanRules(availableBook(), &loanGetterMock{})
	in := validLoanInput()
	in.BorrowerName = strPtr("A")
	errs, err := v.Validate(context.Background(), in)
	require.NoError(t, err)
	require.Contains(t, errs, "borrower_name")
}

func TestLoanValidate_BadDateFormat(t *testing.T) {
	v := NewLoanRules(availableBook(), &loanGetterMock{})
	in := validLoanInput()
	in.LoanDate = strPtr("01/01/2024")
	in.DueDate = strPtr("not-a-date")

	errs, err := v.Validate(context.Background(), in)
	require.NoError(t, err)
	require.Contains(t, errs, "loan_date")
	require.Contains(t, errs, "due_date")
}

func TestLoanValidate_DueBeforeLoan(t *testing.T) {
	v := NewLoanRules(availableBook(), &loanGetterMock{})
	in := validLoanInput()
	in.DueDate = strPtr("2023-12-31")

	errs, err := v.Validate(context.Background(), in)
	require.NoError(t, err)
	require.Contains(t, errs, "due_date")
}

func TestLoanValidate_SpanCap(t *testing.T) {
	v := NewLoanRules(availableBook(), &loanGetterMock{})

	in := validLoanInput()
	in.DueDate = strPtr("2024-01-31") // exactly 30 days, allowed
	errs, err := v.Validate(context.Background(), in)
	require.NoError(t, err)
	require.Empty(t, errs)

	in.DueDate = strPtr("2024-03-01") // 59 days
	errs, _ = v.Validate(context.Background(), in)
	require.Equal(t, "loan period cannot exceed 30 days", errs["due_date"])
}

func TestValidateReturn(t *testing.T) {
	returned := model.LoanReturned
	loans := &loanGetterMock{
		findByIDFn: func(ctx context.Context, id int64) (*model.Loan, error) {
			switch id {
			case 1:
				return &model.Loan{ID: 1, Status: model.LoanBorrowed}, nil
			case 2:
				return &model.Loan{ID: 2, Status: returned}, nil
			default:
				return nil, nil
			}
		},
	}
	v := NewLoanRules(availableBook(), loans)

	errs, err := v.ValidateReturn(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, errs)

	errs, _ = v.ValidateReturn(context.Background(), 2)
	require.Contains(t, errs, "loan_id")

	errs, _ = v.ValidateReturn(context.Background(), 99)
	require.Equal(t, "loan not found", errs["loan_id"])
}
