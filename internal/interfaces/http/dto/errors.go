package dto

import "net/http"

// Well-known codes that carry no ErrorKind (shared.NewDomainError leaves
// Kind empty) but still need a specific status, rather than falling through
// to the generic per-Kind mapping below.
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeInternal      = "ERR_INTERNAL"
)

var codeHTTPStatus = map[string]int{
	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeUnauthorized:  http.StatusUnauthorized,
	ErrCodeForbidden:     http.StatusForbidden,
}

// kindHTTPStatus implements §7's taxonomy-to-status table: Validation and
// Integrity surface as 422 (the request was well-formed but rejected on
// business grounds), Availability and State conflict as 409, Concurrency as
// 409 with a Retry-After hint, System as 500.
var kindHTTPStatus = map[string]int{
	"validation":     http.StatusUnprocessableEntity,
	"integrity":      http.StatusUnprocessableEntity,
	"availability":   http.StatusConflict,
	"state_conflict": http.StatusConflict,
	"concurrency":    http.StatusConflict,
	"system":         http.StatusInternalServerError,
}

// GetHTTPStatus resolves the HTTP status for a (code, kind) pair: the code
// table takes priority for the handful of kindless sentinels, then the kind
// table, then 500 for anything unrecognized.
func GetHTTPStatus(code, kind string) int {
	if status, ok := codeHTTPStatus[code]; ok {
		return status
	}
	if status, ok := kindHTTPStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsRetryable reports whether the error's kind warrants a Retry-After hint,
// i.e. a concurrency conflict the caller can resolve by resubmitting.
func IsRetryable(kind string) bool {
	return kind == "concurrency"
}
