// model/loanModel.go
package model

import (
	"errors"
	"time"
)

type LoanStatus string

const (
	LoanBorrowed LoanStatus = "borrowed"
	LoanReturned LoanStatus = "returned"
)

// DefaultLoanDays is the loan period applied when no due date is supplied.
const DefaultLoanDays = 14

// ErrAlreadyReturned is returned by MarkReturned on a second return attempt.
var ErrAlreadyReturned = errors.New("loan already returned")

// Loan records one borrowing of one copy of a book. Overdue is derived at
// read time, never stored.
type Loan struct {
	ID           int64      `json:"id"`
	BookID       int64      `json:"book_id"`
	BookTitle    string     `json:"book_title,omitempty"`
	BorrowerName string     `json:"borrower_name"`
	LoanDate     Date       `json:"loan_date"`
	DueDate      Date       `json:"due_date"`
	ReturnDate   *Date      `json:"return_date"`
	Status       LoanStatus `json:"status"`
	Overdue      bool       `json:"is_overdue"`
	Notes        *string    `json:"notes"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewLoan builds a borrowed loan. A zero dueDate defaults to loanDate plus
// DefaultLoanDays.
func NewLoan(bookID int64, borrowerName string, loanDate, dueDate Date, notes *string) *Loan {
	if dueDate.IsZero() {
		dueDate = loanDate.AddDays(DefaultLoanDays)
	}
	return &Loan{
		BookID:       bookID,
		BorrowerName: borrowerName,
		LoanDate:     loanDate,
		DueDate:      dueDate,
		Status:       LoanBorrowed,
		Notes:        notes,
	}
}

// MarkReturned transitions borrowed -> returned exactly once. A zero
// returnDate defaults to today.
func (l *Loan) MarkReturned(returnDate Date, today Date) error {
	if l.Status == LoanReturned {
		return ErrAlreadyReturned
	}
	if returnDate.IsZero() {
		returnDate = today
	}
	l.ReturnDate = &returnDate
	l.Status = LoanReturned
	return nil
}

// IsOverdue reports whether the loan is past due as of today. Returned loans
// are never overdue.
func (l *Loan) IsOverdue(today Date) bool {
	if l.Status == LoanReturned {
		return false
	}
	return today.After(l.DueDate)
}
