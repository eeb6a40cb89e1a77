// service/stats/statisticsService.go
package statssvc

import (
	"context"
	"time"

	bookrepo "github.com/widy4aa/P3-ApiLibrary/repository/book"
	loanrepo "github.com/widy4aa/P3-ApiLibrary/repository/loan"

	"github.com/widy4aa/P3-ApiLibrary/model"
	"github.com/widy4aa/P3-ApiLibrary/observer"
	"github.com/widy4aa/P3-ApiLibrary/util/response"
)

type BookRepo interface {
	Count(ctx context.Context, f bookrepo.Filter) (int, error)
	Categories(ctx context.Context) ([]string, error)
}

type LoanRepo interface {
	StatsByStatus(ctx context.Context, today model.Date) (loanrepo.Stats, error)
}

type Publisher interface {
	Publish(kind observer.EventType, payload observer.Payload)
}

type Service interface {
	Library(ctx context.Context) *response.Result
	ByCategory(ctx context.Context) *response.Result
}

type service struct {
	br  BookRepo
	lr  LoanRepo
	bus Publisher
	now func() time.Time
}

func New(br BookRepo, lr LoanRepo, bus Publisher) Service {
	return &service{br: br, lr: lr, bus: bus, now: time.Now}
}

// Library reports totals across the catalog and the loan ledger.
func (s *service) Library(ctx context.Context) *response.Result {
	total, err := s.br.Count(ctx, bookrepo.Filter{})
	if err != nil {
		return s.fail("failed to fetch statistics", err)
	}
	available, err := s.br.Count(ctx, bookrepo.Filter{AvailableOnly: true})
	if err != nil {
		return s.fail("failed to fetch statistics", err)
	}
	categories, err := s.br.Categories(ctx)
	if err != nil {
		return s.fail("failed to fetch statistics", err)
	}
	loanStats, err := s.lr.StatsByStatus(ctx, model.DateOf(s.now()))
	if err != nil {
		return s.fail("failed to fetch statistics", err)
	}

	return response.OK(map[string]any{
		"books": map[string]any{
			"total":            total,
			"available":        available,
			"borrowed":         total - available,
			"categories_count": len(categories),
			"categories":       categories,
		},
		"loans": loanStats,
	}, "statistics fetched")
}

// ByCategory breaks book availability down per category.
func (s *service) ByCategory(ctx context.Context) *response.Result {
	categories, err := s.br.Categories(ctx)
	if err != nil {
		return s.fail("failed to fetch statistics", err)
	}

	stats := make([]map[string]any, 0, len(categories))
	for _, category := range categories {
		total, err := s.br.Count(ctx, bookrepo.Filter{Category: category})
		if err != nil {
			return s.fail("failed to fetch statistics", err)
		}
		available, err := s.br.Count(ctx, bookrepo.Filter{Category: category, AvailableOnly: true})
		if err != nil {
			return s.fail("failed to fetch statistics", err)
		}
		stats = append(stats, map[string]any{
			"category":    category,
			"total_books": total,
			"available":   available,
			"borrowed":    total - available,
		})
	}
	return response.OKList(stats, len(stats), "category statistics fetched")
}

func (s *service) fail(msg string, err error) *response.Result {
	s.bus.Publish(observer.SystemError, observer.Payload{"message": err.Error()})
	return response.Internal(msg)
}
