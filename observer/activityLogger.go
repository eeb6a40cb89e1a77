// observer/activityLogger.go
package observer

import (
	"fmt"
	"log/slog"
)

// ActivityLogger is a subscriber that writes every domain event to the
// structured log, system_error at error level and system_warning at warn.
type ActivityLogger struct {
	log *slog.Logger
}

func NewActivityLogger(log *slog.Logger) *ActivityLogger {
	if log == nil {
		log = slog.Default()
	}
	return &ActivityLogger{log: log}
}

func (a *ActivityLogger) Handle(kind EventType, payload Payload) {
	msg := a.format(kind, payload)
	switch kind {
	case SystemError:
		a.log.Error(msg, "event", string(kind))
	case SystemWarning:
		a.log.Warn(msg, "event", string(kind))
	default:
		a.log.Info(msg, "event", string(kind))
	}
}

func (a *ActivityLogger) format(kind EventType, payload Payload) string {
	switch kind {
	case BookCreated:
		return fmt.Sprintf("book created: %q (id=%v)", payload["title"], payload["book_id"])
	case BookUpdated:
		return fmt.Sprintf("book updated: %q (id=%v)", payload["title"], payload["book_id"])
	case BookDeleted:
		return fmt.Sprintf("book deleted: %q (id=%v)", payload["title"], payload["book_id"])
	case LoanCreated:
		return fmt.Sprintf("loan created: book %q borrowed by %v", payload["book_title"], payload["borrower_name"])
	case LoanReturned:
		return fmt.Sprintf("loan returned: book %q by %v", payload["book_title"], payload["borrower_name"])
	case SystemError:
		return fmt.Sprintf("system error: %v", payload["message"])
	case SystemWarning:
		return fmt.Sprintf("system warning: %v", payload["message"])
	default:
		return fmt.Sprintf("%s: %v", kind, payload)
	}
}
