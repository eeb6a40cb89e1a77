// repository/loan/loanRepository.go
package loanrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/widy4aa/P3-ApiLibrary/model"
)

// Filter narrows FindAll/Count. Zero values mean "no filter".
type Filter struct {
	Status   model.LoanStatus
	BookID   int64
	Borrower string
	Limit    int
	Offset   int
}

// Stats aggregates loan counts by status. Overdue is derived from due dates,
// never stored.
type Stats struct {
	Total    int `json:"total_loans"`
	Borrowed int `json:"borrowed_loans"`
	Returned int `json:"returned_loans"`
	Overdue  int `json:"overdue_loans"`
}

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
	StatsByStatus(ctx context.Context, today model.Date) (Stats, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const loanCols = `l.id, l.book_id, COALESCE(b.title,''), l.borrower_name,
       l.loan_date, l.due_date, l.return_date, l.status, l.notes, l.created_at`

const loanFrom = ` FROM loans l LEFT JOIN books b ON b.id = l.book_id`

func (r *repo) Insert(ctx context.Context, l *model.Loan) error {
	const q = `
INSERT INTO loans (book_id, borrower_name, loan_date, due_date, status, notes)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q,
		l.BookID, l.BorrowerName, l.LoanDate, l.DueDate, l.Status, l.Notes,
	).Scan(&l.ID, &l.CreatedAt)
}

func (r *repo) FindByID(ctx context.Context, id int64) (*model.Loan, error) {
	q := `SELECT ` + loanCols + loanFrom + ` WHERE l.id=$1`
	l, err := scanLoan(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *repo) FindAll(ctx context.Context, f Filter) ([]model.Loan, error) {
	q := `SELECT ` + loanCols + loanFrom + ` WHERE TRUE`
	var args []any

	if f.Status != "" {
		args = append(args, f.Status)
		q += fmt.Sprintf(" AND l.status=$%d", len(args))
	}
	if f.BookID != 0 {
		args = append(args, f.BookID)
		q += fmt.Sprintf(" AND l.book_id=$%d", len(args))
	}
	if f.Borrower != "" {
		args = append(args, "%"+f.Borrower+"%")
		q += fmt.Sprintf(" AND l.borrower_name ILIKE $%d", len(args))
	}

	q += " ORDER BY l.created_at DESC, l.id DESC"

	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return r.queryLoans(ctx, q, args...)
}

func (r *repo) Count(ctx context.Context, f Filter) (int, error) {
	q := `SELECT COUNT(*) FROM loans l WHERE TRUE`
	var args []any
	if f.Status != "" {
		args = append(args, f.Status)
		q += fmt.Sprintf(" AND l.status=$%d", len(args))
	}
	if f.BookID != 0 {
		args = append(args, f.BookID)
		q += fmt.Sprintf(" AND l.book_id=$%d", len(args))
	}
	if f.Borrower != "" {
		args = append(args, "%"+f.Borrower+"%")
		q += fmt.Sprintf(" AND l.borrower_name ILIKE $%d", len(args))
	}
	var n int
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&n)
	return n, err
}

// MarkReturned flips borrowed -> returned exactly once. The status guard in
// the WHERE clause is what makes a concurrent double return impossible.
func (r *repo) MarkReturned(ctx context.Context, id int64, returnDate model.Date) (bool, error) {
	const q = `
UPDATE loans
SET status=$3, return_date=$2
WHERE id=$1 AND status=$4`
	res, err := r.db.ExecContext(ctx, q, id, returnDate, model.LoanReturned, model.LoanBorrowed)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

// UndoReturn compensates a return whose copy release failed.
func (r *repo) UndoReturn(ctx context.Context, id int64) error {
	const q = `
UPDATE loans
SET status=$2, return_date=NULL
WHERE id=$1 AND status=$3`
	_, err := r.db.ExecContext(ctx, q, id, model.LoanBorrowed, model.LoanReturned)
	return err
}

// Update persists due-date and notes edits.
func (r *repo) Update(ctx context.Context, l *model.Loan) error {
	const q = `UPDATE loans SET due_date=$2, notes=$3 WHERE id=$1`
	_, err := r.db.ExecContext(ctx, q, l.ID, l.DueDate, l.Notes)
	return err
}

// Delete removes the loan and, when it was still borrowed, releases its copy
// back to the book in the same statement so the two can never diverge.
func (r *repo) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `
WITH del AS (
	DELETE FROM loans WHERE id=$1
	RETURNING book_id, status
), rel AS (
	UPDATE books bk
	SET available = LEAST(bk.stock, bk.available + 1), updated_at = now()
	FROM del
	WHERE bk.id = del.book_id AND del.status = $2
)
SELECT COUNT(*) FROM del`
	var n int
	if err := r.db.QueryRowContext(ctx, q, id, model.LoanBorrowed).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *repo) FindOverdue(ctx context.Context, today model.Date) ([]model.Loan, error) {
	q := `SELECT ` + loanCols + loanFrom + ` WHERE l.status=$1 AND l.due_date < $2 ORDER BY l.due_date`
	return r.queryLoans(ctx, q, model.LoanBorrowed, today)
}

func (r *repo) FindByBorrower(ctx context.Context, borrowerName string) ([]model.Loan, error) {
	q := `SELECT ` + loanCols + loanFrom + ` WHERE l.borrower_name ILIKE $1 ORDER BY l.created_at DESC`
	return r.queryLoans(ctx, q, "%"+borrowerName+"%")
}

func (r *repo) StatsByStatus(ctx context.Context, today model.Date) (Stats, error) {
	const q = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE status=$1),
       COUNT(*) FILTER (WHERE status=$2),
       COUNT(*) FILTER (WHERE status=$1 AND due_date < $3)
FROM loans`
	var s Stats
	err := r.db.QueryRowContext(ctx, q, model.LoanBorrowed, model.LoanReturned, today).
		Scan(&s.Total, &s.Borrowed, &s.Returned, &s.Overdue)
	return s, err
}

func (r *repo) queryLoans(ctx context.Context, q string, args ...any) ([]model.Loan, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func scanLoan(row rowScanner) (*model.Loan, error) {
	var l model.Loan
	var ret model.Date
	var hasReturn sql.NullTime
	err := row.Scan(&l.ID, &l.BookID, &l.BookTitle, &l.BorrowerName,
		&l.LoanDate, &l.DueDate, &hasReturn, &l.Status, &l.Notes, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	if hasReturn.Valid {
		ret = model.DateOf(hasReturn.Time)
		l.ReturnDate = &ret
	}
	return &l, nil
}
