package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus_SentinelCodesTakePriorityOverKind(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(ErrCodeNotFound, "validation"))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus(ErrCodeAlreadyExists, "system"))
	assert.Equal(t, http.StatusUnauthorized, GetHTTPStatus(ErrCodeUnauthorized, ""))
	assert.Equal(t, http.StatusForbidden, GetHTTPStatus(ErrCodeForbidden, "integrity"))
}

func TestGetHTTPStatus_FallsBackToKind(t *testing.T) {
	cases := []struct {
		kind   string
		status int
	}{
		{"validation", http.StatusUnprocessableEntity},
		{"integrity", http.StatusUnprocessableEntity},
		{"availability", http.StatusConflict},
		{"state_conflict", http.StatusConflict},
		{"concurrency", http.StatusConflict},
		{"system", http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.status, GetHTTPStatus("SOME_OTHER_CODE", c.kind), "kind=%s", c.kind)
	}
}

func TestGetHTTPStatus_UnknownKindDefaultsToInternalError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("SOME_OTHER_CODE", "nonsense"))
}

func TestIsRetryable_OnlyConcurrency(t *testing.T) {
	assert.True(t, IsRetryable("concurrency"))
	assert.False(t, IsRetryable("validation"))
	assert.False(t, IsRetryable(""))
}
