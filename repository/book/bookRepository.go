// repository/book/bookRepository.go
package bookrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/widy4aa/P3-ApiLibrary/model"
)

// ErrDuplicateISBN maps the unique index on isbn. The validator checks
// uniqueness first, but two concurrent creates can both pass it.
var ErrDuplicateISBN = errors.New("isbn already registered")

// Filter narrows FindAll/Count. Zero values mean "no filter".
type Filter struct {
	Category      string
	AvailableOnly bool
	OrderBy       string // title | year | created_at
	Limit         int
	Offset        int
}

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
	ReserveCopy(ctx context.Context, id int64) error
	ReleaseCopy(ctx context.Context, id int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const bookCols = `id, title, author, isbn, year, category, stock, available, created_at, updated_at, is_deleted`

func (r *repo) Create(ctx context.Context, b *model.Book) error {
	const q = `
INSERT INTO books (title, author, isbn, year, category, stock, available)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, q,
		b.Title, b.Author, b.ISBN, b.Year, b.Category, b.Stock, b.Available,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateISBN
	}
	return err
}

func (r *repo) FindByID(ctx context.Context, id int64) (*model.Book, error) {
	const q = `SELECT ` + bookCols + ` FROM books WHERE id=$1 AND NOT is_deleted`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

func (r *repo) FindByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	const q = `SELECT ` + bookCols + ` FROM books WHERE isbn=$1 AND NOT is_deleted`
	return r.scanOne(r.db.QueryRowContext(ctx, q, isbn))
}

func (r *repo) FindAll(ctx context.Context, f Filter) ([]model.Book, error) {
	q := `SELECT ` + bookCols + ` FROM books WHERE NOT is_deleted`
	var args []any

	if f.Category != "" {
		args = append(args, "%"+f.Category+"%")
		q += fmt.Sprintf(" AND category ILIKE $%d", len(args))
	}
	if f.AvailableOnly {
		q += " AND available > 0"
	}

	switch f.OrderBy {
	case "title":
		q += " ORDER BY title"
	case "year":
		q += " ORDER BY year DESC"
	default:
		q += " ORDER BY created_at DESC"
	}

	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return r.queryBooks(ctx, q, args...)
}

func (r *repo) Count(ctx context.Context, f Filter) (int, error) {
	q := `SELECT COUNT(*) FROM books WHERE NOT is_deleted`
	var args []any
	if f.Category != "" {
		args = append(args, "%"+f.Category+"%")
		q += fmt.Sprintf(" AND category ILIKE $%d", len(args))
	}
	if f.AvailableOnly {
		q += " AND available > 0"
	}
	var n int
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&n)
	return n, err
}

// Update writes the scalar fields and resizes stock in one statement. The
// available adjustment is computed against the stored row, not the caller's
// snapshot, so a reserve committed in between is never overwritten.
func (r *repo) Update(ctx context.Context, b *model.Book) error {
	const q = `
UPDATE books
SET title=$2, author=$3, isbn=$4, year=$5, category=$6,
    available = LEAST($7, GREATEST(0, available + ($7 - stock))),
    stock = $7,
    updated_at = now()
WHERE id=$1 AND NOT is_deleted
RETURNING stock, available, updated_at`
	err := r.db.QueryRowContext(ctx, q,
		b.ID, b.Title, b.Author, b.ISBN, b.Year, b.Category, b.Stock,
	).Scan(&b.Stock, &b.Available, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return sql.ErrNoRows
	}
	if isUniqueViolation(err) {
		return ErrDuplicateISBN
	}
	return err
}

func (r *repo) SoftDelete(ctx context.Context, id int64) (bool, error) {
	const q = `UPDATE books SET is_deleted=TRUE, updated_at=now() WHERE id=$1 AND NOT is_deleted`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

// HardDelete removes the row permanently. Administrative cleanup only.
func (r *repo) HardDelete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) Search(ctx context.Context, keyword string) ([]model.Book, error) {
	const q = `
SELECT ` + bookCols + `
FROM books
WHERE NOT is_deleted
  AND (title ILIKE $1 OR author ILIKE $1 OR isbn ILIKE $1 OR category ILIKE $1)
ORDER BY title`
	return r.queryBooks(ctx, q, "%"+keyword+"%")
}

func (r *repo) Categories(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT category FROM books WHERE NOT is_deleted ORDER BY category`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ReserveCopy is the authoritative reservation: a single guarded decrement
// that fails closed when no copy is left, whatever the caller read earlier.
func (r *repo) ReserveCopy(ctx context.Context, id int64) error {
	const q = `
UPDATE books
SET available = available - 1, updated_at = now()
WHERE id=$1 AND NOT is_deleted AND available > 0`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return model.ErrNoAvailableCopy
	}
	return nil
}

// ReleaseCopy puts a copy back, clamped at stock. Deleted books still
// release so returns against them keep the counters honest.
func (r *repo) ReleaseCopy(ctx context.Context, id int64) error {
	const q = `
UPDATE books
SET available = LEAST(stock, available + 1), updated_at = now()
WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *repo) queryBooks(ctx context.Context, q string, args ...any) ([]model.Book, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Year, &b.Category,
			&b.Stock, &b.Available, &b.CreatedAt, &b.UpdatedAt, &b.IsDeleted); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) scanOne(row *sql.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Year, &b.Category,
		&b.Stock, &b.Available, &b.CreatedAt, &b.UpdatedAt, &b.IsDeleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
