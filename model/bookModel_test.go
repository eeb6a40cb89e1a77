// model/bookModel_test.go
package model

import (
	"errors"
	"testing"
)

func TestNewBook_AllCopiesAvailable(t *testing.T) {
	b := NewBook("Clean Code", "Robert Martin", "978-0132350884", 2008, "Programming", 3)
	if b.Stock != 3 || b.Available != 3 {
		t.Fatalf("got stock=%d available=%d; want 3 3", b.Stock, b.Available)
	}
	if !b.IsAvailable() {
		t.Fatal("expected IsAvailable true")
	}
}

func TestReserve(t *testing.T) {
	b := Book{Stock: 2, Available: 1}

	got, err := b.Reserve()
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if got.Available != 0 {
		t.Fatalf("available = %d; want 0", got.Available)
	}

	// fails closed once everything is out
	_, err = got.Reserve()
	if !errors.Is(err, ErrNoAvailableCopy) {
		t.Fatalf("err = %v; want ErrNoAvailableCopy", err)
	}
}

func TestRelease_ClampedAtStock(t *testing.T) {
	b := Book{Stock: 2, Available: 1}
	b = b.Release()
	if b.Available != 2 {
		t.Fatalf("available = %d; want 2", b.Available)
	}
	// release with no matching reserve must not exceed stock
	b = b.Release()
	if b.Available != 2 {
		t.Fatalf("available = %d after extra release; want 2", b.Available)
	}
}

func TestResize(t *testing.T) {
	cases := []struct {
		name          string
		stock, avail  int
		newStock      int
		wantAvailable int
	}{
		{"grow shifts available", 3, 1, 5, 3},
		{"shrink shifts available", 5, 4, 2, 1},
		{"clamped at zero", 5, 1, 2, 0},
		{"clamped at new stock", 3, 3, 1, 1},
		{"to zero", 4, 2, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := Book{Stock: tc.stock, Available: tc.avail}
			got := b.Resize(tc.newStock)
			if got.Stock != tc.newStock || got.Available != tc.wantAvailable {
				t.Fatalf("got stock=%d available=%d; want %d %d",
					got.Stock, got.Available, tc.newStock, tc.wantAvailable)
			}
			if got.Available < 0 || got.Available > got.Stock {
				t.Fatalf("invariant broken: 0 <= %d <= %d", got.Available, got.Stock)
			}
		})
	}
}
