// model/bookModel.go
package model

import (
	"errors"
	"time"
)

// Book is a catalog entry. Stock counts total copies owned; Available counts
// copies not currently out on a borrowed loan. The invariant
// 0 <= Available <= Stock must hold after every committed mutation.
type Book struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	ISBN      string    `json:"isbn"`
	Year      int       `json:"year"`
	Category  string    `json:"category"`
	Stock     int       `json:"stock"`
	Available int       `json:"available"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	IsDeleted bool      `json:"is_deleted"`
}

// ErrNoAvailableCopy is returned by Reserve when every copy is out on loan.
var ErrNoAvailableCopy = errors.New("no available copy")

// NewBook builds a catalog entry with every copy available.
func NewBook(title, author, isbn string, year int, category string, stock int) *Book {
	return &Book{
		Title:     title,
		Author:    author,
		ISBN:      isbn,
		Year:      year,
		Category:  category,
		Stock:     stock,
		Available: stock,
	}
}

// Reserve takes one copy for a new loan. Fails closed instead of going
// negative; the caller's availability pre-check is not authoritative.
func (b Book) Reserve() (Book, error) {
	if b.Available <= 0 {
		return b, ErrNoAvailableCopy
	}
	b.Available--
	return b, nil
}

// Release puts one copy back, clamped so a release without a matching
// reserve (data repair, double release) can never exceed Stock.
func (b Book) Release() Book {
	if b.Available < b.Stock {
		b.Available++
	}
	return b
}

// Resize sets a new total stock and shifts Available by the same delta,
// clamped to [0, newStock].
func (b Book) Resize(newStock int) Book {
	delta := newStock - b.Stock
	b.Stock = newStock
	b.Available += delta
	if b.Available < 0 {
		b.Available = 0
	}
	if b.Available > newStock {
		b.Available = newStock
	}
	return b
}

// IsAvailable reports whether at least one copy can be loaned out.
func (b Book) IsAvailable() bool { return b.Available > 0 }
