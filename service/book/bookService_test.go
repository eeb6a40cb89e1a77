// service/book/bookService_test.go
package booksvc_test

import (
	"context"
	"errors"
	"testing"

	booksvc "github.com/widy4aa/P3-ApiLibrary/service/book"

	"github.com/widy4aa/P3-ApiLibrary/model"
	"github.com/widy4aa/P3-ApiLibrary/observer"
	bookrepo "github.com/widy4aa/P3-ApiLibrary/repository/book"
	"github.com/widy4aa/P3-ApiLibrary/util/response"
	"github.com/widy4aa/P3-ApiLibrary/validators"
)

type repoMock struct {
	createFn     func(ctx context.Context, b *model.Book) error
	findByIDFn   func(ctx context.Context, id int64) (*model.Book, error)
	findByISBNFn func(ctx context.Context, isbn string) (*model.Book, error)
	findAllFn    func(ctx context.Context, f booksvc.Filter) ([]model.Book, error)
	countFn      func(ctx context.Context, f booksvc.Filter) (int, error)
	updateFn     func(ctx context.Context, b *model.Book) error
	softDeleteFn func(ctx context.Context, id int64) (bool, error)
	hardDeleteFn func(ctx context.Context, id int64) (bool, error)
	searchFn     func(ctx context.Context, keyword string) ([]model.Book, error)
	categoriesFn func(ctx context.Context) ([]string, error)
}

func (m *repoMock) Create(ctx context.Context, b *model.Book) error {
	if m.createFn == nil {
		b.ID = 1
		return nil
	}
	return m.createFn(ctx, b)
}
func (m *repoMock) FindByID(ctx context.Context, id int64) (*model.Book, error) {
	if m.findByIDFn == nil {
		return nil, nil
	}
	return m.findByIDFn(ctx, id)
}
func (m *repoMock) FindByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	if m.findByISBNFn == nil {
		return nil, nil
	}
	return m.findByISBNFn(ctx, isbn)
}
func (m *repoMock) FindAll(ctx context.Context, f booksvc.Filter) ([]model.Book, error) {
	if m.findAllFn == nil {
		return nil, nil
	}
	return m.findAllFn(ctx, f)
}
func (m *repoMock) Count(ctx context.Context, f booksvc.Filter) (int, error) {
	if m.countFn == nil {
		return 0, nil
	}
	return m.countFn(ctx, f)
}
func (m *repoMock) Update(ctx context.Context, b *model.Book) error {
	if m.updateFn == nil {
		return nil
	}
	return m.updateFn(ctx, b)
}
func (m *repoMock) SoftDelete(ctx context.Context, id int64) (bool, error) {
	if m.softDeleteFn == nil {
		return true, nil
	}
	return m.softDeleteFn(ctx, id)
}
func (m *repoMock) HardDelete(ctx context.Context, id int64) (bool, error) {
	if m.hardDeleteFn == nil {
		return false, nil
	}
	return m.hardDeleteFn(ctx, id)
}
func (m *repoMock) Search(ctx context.Context, keyword string) ([]model.Book, error) {
	if m.searchFn == nil {
		return nil, nil
	}
	return m.searchFn(ctx, keyword)
}
func (m *repoMock) Categories(ctx context.Context) ([]string, error) {
	if m.categoriesFn == nil {
		return nil, nil
	}
	return m.categoriesFn(ctx)
}

type publishedEvent struct {
	kind    observer.EventType
	payload observer.Payload
}

type busMock struct{ events []publishedEvent }

func (m *busMock) Publish(kind observer.EventType, payload observer.Payload) {
	m.events = append(m.events, publishedEvent{kind, payload})
}

func (m *busMock) kinds() []observer.EventType {
	var out []observer.EventType
	for _, e := range m.events {
		out = append(out, e.kind)
	}
	return out
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func newService(m *repoMock, bus *busMock) booksvc.Service {
	return booksvc.New(m, validators.NewBookRules(m), bus)
}

func createInput() validators.BookInput {
	return validators.BookInput{
		Title:    strPtr("Clean Code"),
		Author:   strPtr("Robert Martin"),
		ISBN:     strPtr("978-0132350884"),
		Year:     intPtr(2008),
		Category: strPtr("Programming"),
		Stock:    intPtr(3),
	}
}

func TestCreate_ValidationFailure(t *testing.T) {
	bus := &busMock{}
	s := newService(&repoMock{}, bus)

	res := s.Create(context.Background(), validators.BookInput{})
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Kind != response.KindValidation {
		t.Fatalf("kind = %q; want validation", res.Kind)
	}
	if len(res.Errors) == 0 {
		t.Fatal("expected field errors")
	}
	if len(bus.events) != 0 {
		t.Fatalf("nothing may be published on validation failure, got %v", bus.kinds())
	}
}

func TestCreate_Success(t *testing.T) {
	bus := &busMock{}
	m := &repoMock{
		createFn: func(ctx context.Context, b *model.Book) error {
			if b.Available != b.Stock {
				t.Fatalf("available = %d; want stock %d", b.Available, b.Stock)
			}
			b.ID = 42
			return nil
		},
	}
	s := newService(m, bus)

	res := s.Create(context.Background(), createInput())
	if !res.Success {
		t.Fatalf("Create failed: %s %v", res.Message, res.Errors)
	}
	book := res.Data.(*model.Book)
	if book.ID != 42 {
		t.Fatalf("id = %d; want 42", book.ID)
	}
	if len(bus.events) != 1 || bus.events[0].kind != observer.BookCreated {
		t.Fatalf("events = %v; want [book_created]", bus.kinds())
	}
}

func TestCreate_DuplicateISBNPassesValidationButConflicts(t *testing.T) {
	// lookup sees nothing (e.g. a concurrent create), insert hits the index
	bus := &busMock{}
	m := &repoMock{
		createFn: func(ctx context.Context, b *model.Book) error {
			return bookrepo.ErrDuplicateISBN
		},
	}
	s := newService(m, bus)

	res := s.Create(context.Background(), createInput())
	if res.Kind != response.KindConflict {
		t.Fatalf("kind = %q; want conflict", res.Kind)
	}
	if _, ok := res.Errors["isbn"]; !ok {
		t.Fatal("expected isbn field error")
	}
}

func TestCreate_ReusesISBNOfSoftDeletedBook(t *testing.T) {
	bus := &busMock{}
	holder := &model.Book{ID: 9, Title: "Clean Code", ISBN: "978-0132350884"}
	m := &repoMock{
		findByIDFn: func(ctx context.Context, id int64) (*model.Book, error) {
			if holder.IsDeleted {
				return nil, nil
			}
			cp := *holder
			return &cp, nil
		},
		findByISBNFn: func(ctx context.Context, isbn string) (*model.Book, error) {
			if holder.IsDeleted {
				return nil, nil
			}
			cp := *holder
			return &cp, nil
		},
		softDeleteFn: func(ctx context.Context, id int64) (bool, error) {
			holder.IsDeleted = true
			return true, nil
		},
		createFn: func(ctx context.Context, b *model.Book) error {
			b.ID = 10
			return nil
		},
	}
	s := newService(m, bus)

	// while the holder is live the isbn is taken
	blocked := s.Create(context.Background(), createInput())
	if blocked.Kind != response.KindValidation {
		t.Fatalf("kind = %q; want validation", blocked.Kind)
	}

	// soft-deleting the holder frees it
	if res := s.Delete(context.Background(), 9); !res.Success {
		t.Fatalf("Delete failed: %s", res.Message)
	}
	res := s.Create(context.Background(), createInput())
	if !res.Success {
		t.Fatalf("Create failed: %s %v", res.Message, res.Errors)
	}
	if res.Data.(*model.Book).ID != 10 {
		t.Fatalf("id = %d; want 10", res.Data.(*model.Book).ID)
	}
}

func TestCreate_RepoErrorPublishesSystemError(t *testing.T) {
	bus := &busMock{}
	m := &repoMock{
		createFn: func(ctx context.Context, b *model.Book) error { return errors.New("db down") },
	}
	s := newService(m, bus)

	res := s.Create(context.Background(), createInput())
	if res.Kind != response.KindInternal {
		t.Fatalf("kind = %q; want internal", res.Kind)
	}
	if len(bus.events) != 1 || bus.events[0].kind != observer.SystemError {
		t.Fatalf("events = %v; want [system_error]", bus.kinds())
	}
}

func TestUpdate_NotFound(t *testing.T) {
	bus := &busMock{}
	s := newService(&repoMock{}, bus)

	res := s.Update(context.Background(), 99, validators.BookInput{Title: strPtr("x")})
	if res.Kind != response.KindNotFound {
		t.Fatalf("kind = %q; want not_found", res.Kind)
	}
}

func TestUpdate_StockResizeShiftsAvailable(t *testing.T) {
	bus := &busMock{}
	stored := &model.Book{ID: 7, Title: "Clean Code", Author: "Robert Martin",
		ISBN: "978-0132350884", Year: 2008, Category: "Programming", Stock: 3, Available: 1}
	var updated *model.Book
	m := &repoMock{
		findByIDFn: func(ctx context.Context, id int64) (*model.Book, error) {
			cp := *stored
			return &cp, nil
		},
		updateFn: func(ctx context.Context, b *model.Book) error {
			updated = b
			return nil
		},
	}
	s := newService(m, bus)

	res := s.Update(context.Background(), 7, validators.BookInput{Stock: intPtr(5)})
	if !res.Success {
		t.Fatalf("Update failed: %s %v", res.Message, res.Errors)
	}
	if updated.Stock != 5 || updated.Available != 3 {
		t.Fatalf("got stock=%d available=%d; want 5 3", updated.Stock, updated.Available)
	}
	if len(bus.events) != 1 || bus.events[0].kind != observer.BookUpdated {
		t.Fatalf("events = %v; want [book_updated]", bus.kinds())
	}
}

func TestDelete_PublishesPriorTitle(t *testing.T) {
	bus := &busMock{}
	m := &repoMock{
		findByIDFn: func(ctx context.Context, id int64) (*model.Book, error) {
			return &model.Book{ID: id, Title: "Clean Code"}, nil
		},
	}
	s := newService(m, bus)

	res := s.Delete(context.Background(), 7)
	if !res.Success {
		t.Fatalf("Delete failed: %s", res.Message)
	}
	if len(bus.events) != 1 || bus.events[0].kind != observer.BookDeleted {
		t.Fatalf("events = %v; want [book_deleted]", bus.kinds())
	}
	if bus.events[0].payload["title"] != "Clean Code" {
		t.Fatalf("payload title = %v; want Clean Code", bus.events[0].payload["title"])
	}
}

func TestSearch_KeywordTooShort(t *testing.T) {
	s := newService(&repoMock{}, &busMock{})
	res := s.Search(context.Background(), " a ")
	if res.Kind != response.KindValidation {
		t.Fatalf("kind = %q; want validation", res.Kind)
	}
}

func TestCheckAvailability(t *testing.T) {
	m := &repoMock{
		findByIDFn: func(ctx context.Context, id int64) (*model.Book, error) {
			return &model.Book{ID: id, Title: "Clean Code", Stock: 3, Available: 1}, nil
		},
	}
	s := newService(m, &busMock{})

	res := s.CheckAvailability(context.Background(), 7)
	if !res.Success {
		t.Fatalf("CheckAvailability failed: %s", res.Message)
	}
	data := res.Data.(map[string]any)
	if data["borrowed"] != 2 || data["is_available"] != true {
		t.Fatalf("unexpected availability payload: %v", data)
	}
}
