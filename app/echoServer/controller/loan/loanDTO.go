package loan

import (
	loansvc "github.com/widy4aa/P3-ApiLibrary/service/loan"
	"github.com/widy4aa/P3-ApiLibrary/validators"
)

type CreateLoanReq struct {
	BookID       *int64  `json:"book_id"`
	BorrowerName *string `json:"borrower_name"`
	LoanDate     *string `json:"loan_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate      *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r CreateLoanReq) toInput() validators.LoanInput {
	return validators.LoanInput{
		BookID:       r.BookID,
		BorrowerName: r.BorrowerName,
		LoanDate:     r.LoanDate,
		DueDate:      r.DueDate,
	}
}

type ReturnLoanReq struct {
	ReturnDate *string `json:"return_date" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateLoanReq struct {
	DueDate *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Notes   *string `json:"notes" validate:"omitempty,max=500"`
}

func (r UpdateLoanReq) toInput() loansvc.UpdateInput {
	return loansvc.UpdateInput{DueDate: r.DueDate, Notes: r.Notes}
}
