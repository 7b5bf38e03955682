package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"connection refused", errors.New("dial tcp: connection refused"), ErrorTypeNetwork},
		{"timeout", errors.New("request timeout"), ErrorTypeTimeout},
		{"deadline exceeded", errors.New("context deadline exceeded"), ErrorTypeTimeout},
		{"401", errors.New("server returned 401"), ErrorTypeAuth},
		{"unauthorized", errors.New("unauthorized"), ErrorTypeAuth},
		{"403", errors.New("got 403"), ErrorTypeForbidden},
		{"404", errors.New("got 404"), ErrorTypeNotFound},
		{"rate limited", errors.New("rate limit exceeded"), ErrorTypeRateLimit},
		{"500", errors.New("got 500"), ErrorTypeServer},
		{"anything else", errors.New("something odd"), ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CategorizeError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Type)
		})
	}
}

func TestCategorizeErrorNil(t *testing.T) {
	assert.Nil(t, CategorizeError(nil))
}

func TestCategorizeErrorPassesThroughCLIError(t *testing.T) {
	orig := SessionExpiredError()
	wrapped := fmt.Errorf("while refreshing: %w", orig)

	got := CategorizeError(wrapped)
	assert.Same(t, orig, got)
}

func TestFormatErrorIncludesSuggestion(t *testing.T) {
	out := FormatError(SessionExpiredError())

	assert.Contains(t, out, "session has expired")
	assert.Contains(t, out, "touchgrass auth login")
}

func TestFormatErrorUnknownOmitsType(t *testing.T) {
	out := FormatError(errors.New("mystery"))

	assert.True(t, strings.HasPrefix(out, "Error: "), "unknown errors should not carry a type tag: %q", out)
	assert.Contains(t, out, "mystery")
}

func TestWithSuggestion(t *testing.T) {
	err := NewCLIError(ErrorTypeValidation, "bad input", nil).
		WithSuggestion("Check the id format")

	assert.True(t, err.HasSuggestion())
	assert.Equal(t, "Check the id format", err.Suggestion)
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewCLIError(ErrorTypeUnknown, "wrapper", cause)

	assert.ErrorIs(t, err, cause)
}
