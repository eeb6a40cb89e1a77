// util/response/response.go
package response

import "net/http"

// ErrKind classifies a failed result so the transport layer can pick a
// status code without parsing messages.
type ErrKind string

const (
	KindNone       ErrKind = ""
	KindValidation ErrKind = "validation"
	KindNotFound   ErrKind = "not_found"
	KindConflict   ErrKind = "conflict"
	KindInternal   ErrKind = "internal"
)

// Result is the uniform shape every use case returns. Validation, not-found
// and conflict outcomes are data, not errors; only unexpected failures reach
// the caller as KindInternal with a generic message.
type Result struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Total   *int              `json:"total,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Kind    ErrKind           `json:"-"`
}

func OK(data any, message string) *Result {
	return &Result{Success: true, Message: message, Data: data}
}

func OKList(data any, total int, message string) *Result {
	return &Result{Success: true, Message: message, Data: data, Total: &total}
}

func ValidationFailed(errors map[string]string) *Result {
	return &Result{Success: false, Message: "validation failed", Errors: errors, Kind: KindValidation}
}

func NotFound(message string) *Result {
	return &Result{Success: false, Message: message, Kind: KindNotFound}
}

func Conflict(message string, errors map[string]string) *Result {
	return &Result{Success: false, Message: message, Errors: errors, Kind: KindConflict}
}

func Internal(message string) *Result {
	return &Result{Success: false, Message: message, Kind: KindInternal}
}

// HTTPStatus maps the result onto a status code. Created is the caller's
// call; this covers everything else.
func (r *Result) HTTPStatus() int {
	if r.Success {
		return http.StatusOK
	}
	switch r.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
