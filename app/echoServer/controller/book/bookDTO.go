package book

import "github.com/widy4aa/P3-ApiLibrary/validators"

// BookReq covers both create and update payloads. Pointer fields tell an
// absent key apart from a zero value so partial updates work.
type BookReq struct {
	Title    *string `json:"title"`
	Author   *string `json:"author"`
	ISBN     *string `json:"isbn"`
	Year     *int    `json:"year" validate:"omitempty,gte=0,lte=9999"`
	Category *string `json:"category"`
	Stock    *int    `json:"stock" validate:"omitempty,gte=0"`
}

func (r BookReq) toInput() validators.BookInput {
	return validators.BookInput{
		Title:    r.Title,
		Author:   r.Author,
		ISBN:     r.ISBN,
		Year:     r.Year,
		Category: r.Category,
		Stock:    r.Stock,
	}
}
