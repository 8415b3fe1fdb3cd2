package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStatusCode(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantType   ErrorType
	}{
		{"rate limited", 429, `{"title":"Too Many Requests"}`, ErrorTypeRateLimit},
		{"unauthorized", 401, "Unauthorized", ErrorTypeAuth},
		{"forbidden", 403, "Forbidden", ErrorTypeAuth},
		{"not found", 404, "Not Found", ErrorTypeNotFound},
		{"server error", 500, "Internal Server Error", ErrorTypeServerError},
		{"bad gateway", 502, "Bad Gateway", ErrorTypeServerError},
		{"unexpected", 418, "teapot", ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromStatusCode(tt.statusCode, tt.body)
			assert.Equal(t, tt.wantType, err.Type)
			assert.Equal(t, tt.statusCode, err.Code)
			assert.Contains(t, err.Error(), tt.body)
			assert.Contains(t, err.Error(), fmt.Sprintf("%d", tt.statusCode))
		})
	}
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrorTypeRateLimit, TypeOf(FromStatusCode(429, "slow down")))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(fmt.Errorf("plain error")))

	wrapped := fmt.Errorf("fetch page: %w", FromStatusCode(429, "slow down"))
	assert.Equal(t, ErrorTypeRateLimit, TypeOf(wrapped))
	assert.True(t, IsRateLimit(wrapped))
}

func TestWrapUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := Wrap(ErrorTypeNetwork, "request failed", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.Equal(t, ErrorTypeNetwork, err.Type)
	assert.Contains(t, err.Error(), "request failed")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrorTypeNetwork))
	assert.True(t, IsRetryable(ErrorTypeRateLimit))
	assert.True(t, IsRetryable(ErrorTypeServerError))
	assert.False(t, IsRetryable(ErrorTypeAuth))
	assert.False(t, IsRetryable(ErrorTypeValidation))
	assert.False(t, IsRetryable(ErrorTypeParsing))
}
