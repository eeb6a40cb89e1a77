// service/loan/overdueSweeper.go
package loansvc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/widy4aa/P3-ApiLibrary/model"
	"github.com/widy4aa/P3-ApiLibrary/observer"
)

// Sweeper periodically scans for loans past their due date and announces
// them on the bus so subscribers can act on them.
type Sweeper struct {
	lr  Repo
	bus Publisher
	log *slog.Logger
	now func() time.Time
}

func NewSweeper(lr Repo, bus Publisher, log *slog.Logger) *Sweeper {
	return &Sweeper{lr: lr, bus: bus, log: log, now: time.Now}
}

// Sweep runs a single pass and reports how many overdue loans it found.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	loans, err := s.lr.FindOverdue(ctx, model.DateOf(s.now()))
	if err != nil {
		return 0, err
	}
	for _, l := range loans {
		s.bus.Publish(observer.SystemWarning, observer.Payload{
			"message": fmt.Sprintf("loan %d (%q, borrower %s) is overdue since %s",
				l.ID, l.BookTitle, l.BorrowerName, l.DueDate),
		})
	}
	return len(loans), nil
}

// Run sweeps on the given interval until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.Sweep(ctx)
			if err != nil {
				s.log.Error("overdue sweep failed", "err", err)
				continue
			}
			if n > 0 {
				s.log.Info("overdue sweep", "count", n)
			}
		}
	}
}
